package ginserver

import (
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"vibestays/internal/app/commands"
	"vibestays/internal/app/dto"
	listingapp "vibestays/internal/app/handlers/listings"
	reviewapp "vibestays/internal/app/handlers/reviews"
	"vibestays/internal/app/queries"
)

type ListingHTTP interface {
	Catalog(c *gin.Context)
	Featured(c *gin.Context)
	Detail(c *gin.Context)
	Reviews(c *gin.Context)
	SubmitReview(c *gin.Context)
}

// ListingHandler serves the public catalog and listing pages.
type ListingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

// Catalog responds with the listings matching the query string filters.
func (h ListingHandler) Catalog(c *gin.Context) {
	if h.Queries == nil {
		unavailable(c, "listing handler")
		return
	}
	params := parseCatalogParams(c.Request.URL.Query())
	query := listingapp.SearchCatalogQuery{Spec: params.Spec, Limit: params.Limit, Offset: params.Offset}
	result, err := queries.Ask[listingapp.SearchCatalogQuery, dto.ListingCatalog](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ListingHandler) Featured(c *gin.Context) {
	if h.Queries == nil {
		unavailable(c, "listing handler")
		return
	}
	query := listingapp.FeaturedListingsQuery{Limit: parseInt(c.Query("limit"))}
	result, err := queries.Ask[listingapp.FeaturedListingsQuery, []dto.ListingCard](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": result})
}

func (h ListingHandler) Detail(c *gin.Context) {
	if h.Queries == nil {
		unavailable(c, "listing handler")
		return
	}
	query := listingapp.GetListingQuery{ID: c.Param("id")}
	result, err := queries.Ask[listingapp.GetListingQuery, dto.ListingDetail](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ListingHandler) Reviews(c *gin.Context) {
	if h.Queries == nil {
		unavailable(c, "listing handler")
		return
	}
	query := reviewapp.ListListingReviewsQuery{
		ListingID: c.Param("id"),
		Limit:     parseInt(c.Query("limit")),
		Offset:    parseInt(c.Query("offset")),
	}
	result, err := queries.Ask[reviewapp.ListListingReviewsQuery, dto.ReviewCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type submitReviewRequest struct {
	GuestName string `json:"guest_name"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// SubmitReview stores a review for moderation. It is hidden until an admin approves it.
func (h ListingHandler) SubmitReview(c *gin.Context) {
	if h.Commands == nil {
		unavailable(c, "review handler")
		return
	}
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	cmd := reviewapp.SubmitReviewCommand{
		ListingID:  c.Param("id"),
		GuestName:  req.GuestName,
		Rating:     req.Rating,
		Comment:    req.Comment,
		RequestKey: strings.TrimSpace(c.GetHeader("Idempotency-Key")),
	}
	result, err := commands.Dispatch[reviewapp.SubmitReviewCommand, dto.Review](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusAccepted, result)
}

var _ ListingHTTP = ListingHandler{}
