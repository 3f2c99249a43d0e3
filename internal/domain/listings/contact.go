package listings

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// InquiryMessage is the text prefilled into the WhatsApp chat for a listing.
func (l *Listing) InquiryMessage() string {
	return fmt.Sprintf("Hi! I'm interested in %s in %s. Can you please provide more details?", l.Name, l.Location)
}

// WhatsAppURL builds the wa.me booking link. It is empty when the listing has no
// usable WhatsApp number.
func (l *Listing) WhatsAppURL() string {
	digits := digitsOnly(l.WhatsAppNumber)
	if digits == "" {
		return ""
	}
	return "https://wa.me/" + digits + "?text=" + escapeComponent(l.InquiryMessage())
}

// escapeComponent encodes s as a single query value. Spaces become %20 so the
// message reads the same in clients that do not treat '+' as a space.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// PhoneURL builds the tel: booking link.
func (l *Listing) PhoneURL() string {
	number := strings.TrimSpace(l.ContactNumber)
	if number == "" {
		return ""
	}
	return "tel:" + number
}

// FormattedPrice renders the price the way the site shows it, e.g. "₹8,500 / night".
func (l *Listing) FormattedPrice() string {
	return "₹" + groupThousands(l.Price) + " / " + string(l.PriceUnit)
}

func digitsOnly(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func groupThousands(value float64) string {
	raw := strconv.FormatFloat(value, 'f', -1, 64)
	whole, frac, hasFrac := strings.Cut(raw, ".")
	sign := ""
	if strings.HasPrefix(whole, "-") {
		sign, whole = "-", whole[1:]
	}
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := sign + b.String()
	if hasFrac {
		out += "." + frac
	}
	return out
}
