package ginserver

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"vibestays/internal/app/commands"
	"vibestays/internal/app/dto"
	leadapp "vibestays/internal/app/handlers/leads"
	listingapp "vibestays/internal/app/handlers/listings"
	reviewapp "vibestays/internal/app/handlers/reviews"
	"vibestays/internal/app/queries"
	domainleads "vibestays/internal/domain/leads"
	domainlistings "vibestays/internal/domain/listings"
	domainreviews "vibestays/internal/domain/reviews"
	"vibestays/internal/infra/storage/s3"
)

const maxListingImageSizeBytes int64 = 10 * 1024 * 1024

type AdminHTTP interface {
	ListListings(c *gin.Context)
	CreateListing(c *gin.Context)
	UpdateListing(c *gin.Context)
	DeleteListing(c *gin.Context)
	UploadImage(c *gin.Context)
	ListReviews(c *gin.Context)
	ModerateReview(c *gin.Context)
	DeleteReview(c *gin.Context)
	ListInquiries(c *gin.Context)
	MarkInquiryHandled(c *gin.Context)
}

// AdminHandler serves the admin panel API. Routes are mounted behind RequireAdmin.
type AdminHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type listingRequest struct {
	Name              string   `json:"name"`
	Location          string   `json:"location"`
	State             string   `json:"state"`
	Price             float64  `json:"price"`
	PriceUnit         string   `json:"price_unit"`
	Images            []string `json:"images"`
	Videos            []string `json:"videos"`
	SeasonalImages    []string `json:"seasonal_images"`
	Description       string   `json:"description"`
	ShortDescription  string   `json:"short_description"`
	MaxGuests         int      `json:"max_guests"`
	Bedrooms          int      `json:"bedrooms"`
	Bathrooms         int      `json:"bathrooms"`
	PropertyType      string   `json:"property_type"`
	Views             []string `json:"views"`
	Themes            []string `json:"themes"`
	Amenities         []string `json:"amenities"`
	NearbyExperiences []string `json:"nearby_experiences"`
	LocalTips         []string `json:"local_tips"`
	HostName          string   `json:"host_name"`
	ContactNumber     string   `json:"contact_number"`
	WhatsAppNumber    string   `json:"whatsapp_number"`
	Featured          bool     `json:"featured"`
	Verified          bool     `json:"verified"`
}

func (r listingRequest) attributes() domainlistings.Attributes {
	return domainlistings.Attributes{
		Name:              r.Name,
		Location:          r.Location,
		State:             r.State,
		Price:             r.Price,
		PriceUnit:         domainlistings.PriceUnit(strings.ToLower(strings.TrimSpace(r.PriceUnit))),
		Images:            splitTrimmed(r.Images),
		Videos:            splitTrimmed(r.Videos),
		SeasonalImages:    splitTrimmed(r.SeasonalImages),
		Description:       r.Description,
		ShortDescription:  r.ShortDescription,
		MaxGuests:         r.MaxGuests,
		Bedrooms:          r.Bedrooms,
		Bathrooms:         r.Bathrooms,
		PropertyType:      domainlistings.PropertyType(strings.ToLower(strings.TrimSpace(r.PropertyType))),
		Views:             domainlistings.ParseViews(r.Views),
		Themes:            domainlistings.ParseThemes(r.Themes),
		Amenities:         splitTrimmed(r.Amenities),
		NearbyExperiences: splitTrimmed(r.NearbyExperiences),
		LocalTips:         splitTrimmed(r.LocalTips),
		HostName:          r.HostName,
		ContactNumber:     r.ContactNumber,
		WhatsAppNumber:    r.WhatsAppNumber,
		Featured:          r.Featured,
		Verified:          r.Verified,
	}
}

func (h AdminHandler) ListListings(c *gin.Context) {
	if h.Queries == nil {
		unavailable(c, "queries bus")
		return
	}
	result, err := queries.Ask[listingapp.AdminListListingsQuery, dto.ListingCollection](c.Request.Context(), h.Queries, listingapp.AdminListListingsQuery{})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdminHandler) CreateListing(c *gin.Context) {
	if h.Commands == nil {
		unavailable(c, "commands bus")
		return
	}
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	cmd := listingapp.CreateListingCommand{Attributes: req.attributes()}
	result, err := commands.Dispatch[listingapp.CreateListingCommand, dto.ListingDetail](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/v1/listings/%s", result.ID))
	c.JSON(http.StatusCreated, result)
}

func (h AdminHandler) UpdateListing(c *gin.Context) {
	if h.Commands == nil {
		unavailable(c, "commands bus")
		return
	}
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	cmd := listingapp.UpdateListingCommand{ID: c.Param("id"), Attributes: req.attributes()}
	result, err := commands.Dispatch[listingapp.UpdateListingCommand, dto.ListingDetail](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdminHandler) DeleteListing(c *gin.Context) {
	if h.Commands == nil {
		unavailable(c, "commands bus")
		return
	}
	cmd := listingapp.DeleteListingCommand{ID: c.Param("id")}
	if _, err := commands.Dispatch[listingapp.DeleteListingCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadImage stores a multipart "file" and returns its public URL.
func (h AdminHandler) UploadImage(c *gin.Context) {
	if h.Commands == nil {
		unavailable(c, "commands bus")
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	if fileHeader.Size > maxListingImageSizeBytes {
		badRequest(c, fmt.Sprintf("file too large (max %d MB)", maxListingImageSizeBytes/1024/1024))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxListingImageSizeBytes+1))
	if err != nil {
		respondError(c, h.Logger, fmt.Errorf("read upload: %w", err))
		return
	}
	if len(data) == 0 {
		badRequest(c, "file is empty")
		return
	}
	if int64(len(data)) > maxListingImageSizeBytes {
		badRequest(c, fmt.Sprintf("file too large (max %d MB)", maxListingImageSizeBytes/1024/1024))
		return
	}
	contentType := http.DetectContentType(data)
	if !s3.IsAllowedImageType(contentType) {
		badRequest(c, "unsupported content type: "+contentType)
		return
	}

	listingID := strings.TrimSpace(c.PostForm("listing_id"))
	cmd := listingapp.UploadListingImageCommand{
		ListingID:   listingID,
		ObjectKey:   s3.ListingImageKey(listingID, fileHeader.Filename, contentType),
		ContentType: contentType,
		Reader:      bytes.NewReader(data),
	}
	result, err := commands.Dispatch[listingapp.UploadListingImageCommand, dto.ImageUpload](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h AdminHandler) ListReviews(c *gin.Context) {
	if h.Queries == nil {
		unavailable(c, "queries bus")
		return
	}
	pending, _ := strconv.ParseBool(c.DefaultQuery("pending", "false"))
	query := reviewapp.AdminListReviewsQuery{
		ListingID:   strings.TrimSpace(c.Query("listing_id")),
		PendingOnly: pending,
		Limit:       parseInt(c.Query("limit")),
		Offset:      parseInt(c.Query("offset")),
	}
	result, err := queries.Ask[reviewapp.AdminListReviewsQuery, dto.ReviewCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type moderateRequest struct {
	Action string `json:"action"`
}

func (h AdminHandler) ModerateReview(c *gin.Context) {
	if h.Commands == nil {
		unavailable(c, "commands bus")
		return
	}
	var req moderateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	cmd := reviewapp.ModerateReviewCommand{
		ReviewID: c.Param("id"),
		Action:   domainreviews.Action(strings.ToLower(strings.TrimSpace(req.Action))),
	}
	result, err := commands.Dispatch[reviewapp.ModerateReviewCommand, dto.Review](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdminHandler) DeleteReview(c *gin.Context) {
	if h.Commands == nil {
		unavailable(c, "commands bus")
		return
	}
	cmd := reviewapp.DeleteReviewCommand{ReviewID: c.Param("id")}
	if _, err := commands.Dispatch[reviewapp.DeleteReviewCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h AdminHandler) ListInquiries(c *gin.Context) {
	if h.Queries == nil {
		unavailable(c, "queries bus")
		return
	}
	status := domainleads.Status(strings.ToLower(strings.TrimSpace(c.Query("status"))))
	switch status {
	case "", domainleads.StatusNew, domainleads.StatusHandled:
	default:
		badRequest(c, "unknown inquiry status")
		return
	}
	query := leadapp.AdminListInquiriesQuery{
		Status: status,
		Limit:  parseInt(c.DefaultQuery("limit", "50")),
		Offset: parseInt(c.Query("offset")),
	}
	result, err := queries.Ask[leadapp.AdminListInquiriesQuery, dto.InquiryCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdminHandler) MarkInquiryHandled(c *gin.Context) {
	if h.Commands == nil {
		unavailable(c, "commands bus")
		return
	}
	cmd := leadapp.MarkInquiryHandledCommand{ID: c.Param("id")}
	result, err := commands.Dispatch[leadapp.MarkInquiryHandledCommand, dto.Inquiry](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func splitTrimmed(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

var _ AdminHTTP = AdminHandler{}
