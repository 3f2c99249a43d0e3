package listings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"vibestays/internal/app/commands"
	"vibestays/internal/app/dto"
	"vibestays/internal/app/handlers/support"
	"vibestays/internal/app/uow"
	domainlistings "vibestays/internal/domain/listings"
)

const uploadListingImageKey = "listings.admin.upload_image"

var ErrUploaderUnavailable = errors.New("listings: image uploader unavailable")

// ImageUploader stores binary content and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
}

// UploadListingImageCommand stores an image for the admin form. The returned URL is
// saved into the listing's images by a later update.
type UploadListingImageCommand struct {
	// ListingID is empty while the listing is still being created.
	ListingID   string
	ObjectKey   string
	ContentType string
	Reader      io.Reader
}

func (UploadListingImageCommand) Key() string { return uploadListingImageKey }
func (UploadListingImageCommand) AdminOnly()  {}

type UploadListingImageHandler struct {
	UoWFactory uow.UoWFactory
	Uploader   ImageUploader
	Logger     *slog.Logger
}

func (h *UploadListingImageHandler) Handle(ctx context.Context, cmd UploadListingImageCommand) (dto.ImageUpload, error) {
	if h.Uploader == nil {
		return dto.ImageUpload{}, ErrUploaderUnavailable
	}
	if cmd.Reader == nil {
		return dto.ImageUpload{}, errors.New("listings: image reader is required")
	}
	if strings.TrimSpace(cmd.ObjectKey) == "" {
		return dto.ImageUpload{}, errors.New("listings: object key is required")
	}
	if id := strings.TrimSpace(cmd.ListingID); id != "" {
		unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
		if err != nil {
			return dto.ImageUpload{}, err
		}
		_, err = unit.Listings().ByID(execCtx, domainlistings.ListingID(id))
		if cleanup != nil {
			cleanup()
		}
		if err != nil {
			return dto.ImageUpload{}, err
		}
	}

	url, err := h.Uploader.Upload(ctx, cmd.ObjectKey, cmd.Reader, cmd.ContentType)
	if err != nil {
		return dto.ImageUpload{}, fmt.Errorf("upload image: %w", err)
	}
	if h.Logger != nil {
		h.Logger.Info("listing image uploaded", "listing_id", cmd.ListingID, "object_key", cmd.ObjectKey)
	}
	return dto.ImageUpload{URL: url, Key: cmd.ObjectKey}, nil
}

var _ commands.Handler[UploadListingImageCommand, dto.ImageUpload] = (*UploadListingImageHandler)(nil)
