package ginserver

import (
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"vibestays/internal/app/commands"
	"vibestays/internal/app/dto"
	leadapp "vibestays/internal/app/handlers/leads"
)

type InquiryHTTP interface {
	Submit(c *gin.Context)
}

type InquiryHandler struct {
	Commands commands.Bus
	Logger   *slog.Logger
}

type inquiryRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Message      string `json:"message"`
	PropertyName string `json:"property_name"`
	Location     string `json:"location"`
	ListingID    string `json:"listing_id"`
}

// Submit accepts the public contact form.
func (h InquiryHandler) Submit(c *gin.Context) {
	if h.Commands == nil {
		unavailable(c, "inquiry handler")
		return
	}
	var req inquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	cmd := leadapp.SubmitInquiryCommand{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Message:      req.Message,
		PropertyName: req.PropertyName,
		Location:     req.Location,
		ListingID:    req.ListingID,
		RequestKey:   strings.TrimSpace(c.GetHeader("Idempotency-Key")),
	}
	receipt, err := commands.Dispatch[leadapp.SubmitInquiryCommand, dto.InquiryReceipt](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

var _ InquiryHTTP = InquiryHandler{}
