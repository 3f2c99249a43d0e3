package ginserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"vibestays/internal/app/commands"
	"vibestays/internal/app/dto"
	leadapp "vibestays/internal/app/handlers/leads"
	listingapp "vibestays/internal/app/handlers/listings"
	reviewapp "vibestays/internal/app/handlers/reviews"
	"vibestays/internal/app/middleware"
	"vibestays/internal/app/outbox"
	"vibestays/internal/app/policies"
	"vibestays/internal/app/queries"
	authsvc "vibestays/internal/app/services/auth"
	domainlistings "vibestays/internal/domain/listings"
	"vibestays/internal/infra/config"
	"vibestays/internal/infra/obs"
	"vibestays/internal/infra/security"
	"vibestays/internal/infra/storage/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	adminEmail    = "admin@vibestays.in"
	adminPassword = "correct-horse"
)

type recordingUploader struct{ keys []string }

func (u *recordingUploader) Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	u.keys = append(u.keys, key)
	return "http://minio:9000/vibestays-images/" + key, nil
}

type testApp struct {
	router   *gin.Engine
	factory  memory.Factory
	box      *memory.Outbox
	uploader *recordingUploader
}

func newTestApp(t *testing.T, limiter *RateLimiter) testApp {
	t.Helper()
	factory := memory.NewFactory()
	seedListings(t, factory)
	box := memory.NewOutbox(nil)
	enc := outbox.JSONEventEncoder{}
	uploader := &recordingUploader{}

	cmdBus := commands.NewInMemoryBus()
	queryBus := queries.NewInMemoryBus()
	listingapp.Register(cmdBus, queryBus,
		&listingapp.SearchCatalogHandler{UoWFactory: factory},
		&listingapp.FeaturedListingsHandler{UoWFactory: factory},
		&listingapp.GetListingHandler{UoWFactory: factory},
		&listingapp.AdminListListingsHandler{UoWFactory: factory},
		&listingapp.ManageListingsHandler{UoWFactory: factory, Outbox: box, Encoder: enc},
		&listingapp.UploadListingImageHandler{UoWFactory: factory, Uploader: uploader},
	)
	reviewapp.Register(cmdBus, queryBus,
		&reviewapp.SubmitReviewHandler{UoWFactory: factory, Outbox: box, Encoder: enc},
		&reviewapp.ListListingReviewsHandler{UoWFactory: factory},
		&reviewapp.AdminListReviewsHandler{UoWFactory: factory},
		&reviewapp.ModerationHandler{UoWFactory: factory, Outbox: box, Encoder: enc},
	)
	leadapp.Register(cmdBus, queryBus,
		&leadapp.SubmitInquiryHandler{UoWFactory: factory, Outbox: box, Encoder: enc},
		&leadapp.AdminListInquiriesHandler{UoWFactory: factory},
		&leadapp.MarkInquiryHandledHandler{UoWFactory: factory, Outbox: box, Encoder: enc},
	)
	policy := policies.AdminPolicy{}
	cmds := middleware.ChainCommands(cmdBus,
		middleware.Authorization(policy),
		middleware.Idempotency(memory.NewIdempotencyStore(time.Hour), nil),
		middleware.OutboxFlush(box),
		middleware.Transaction(factory),
	)
	qs := middleware.ChainQueries(queryBus, middleware.QueryAuthorization(policy))

	auth := &authsvc.Service{
		Users:     memory.NewAdminRepository(),
		Sessions:  memory.NewSessionStore(),
		Passwords: security.BcryptHasher{Cost: bcrypt.MinCost},
		Tokens:    security.RandomTokenGenerator{},
	}
	_, err := auth.CreateAdmin(context.Background(), authsvc.CreateAdminParams{Email: adminEmail, Name: "Admin", Password: adminPassword})
	require.NoError(t, err)

	router := NewRouter(config.Config{CORSOrigins: []string{"*"}}, obs.Middleware{}, obs.HealthHandlers{}, Handlers{
		Listing:        ListingHandler{Commands: cmds, Queries: qs},
		Inquiry:        InquiryHandler{Commands: cmds},
		Auth:           AuthHandler{Service: auth},
		Admin:          AdminHandler{Commands: cmds, Queries: qs},
		AuthMiddleware: AuthMiddleware{Service: auth}.Handle,
		FormLimiter:    limiter,
	})
	return testApp{router: router, factory: factory, box: box, uploader: uploader}
}

func seedListings(t *testing.T, factory memory.Factory) {
	t.Helper()
	items := []struct {
		id    string
		attrs domainlistings.Attributes
	}{
		{"1", domainlistings.Attributes{Name: "Mountain Paradise Villa", Location: "Jibhi", State: "Himachal Pradesh", Price: 8500,
			PriceUnit: domainlistings.PerNight, MaxGuests: 8, PropertyType: domainlistings.PropertyVilla,
			Views: []domainlistings.View{domainlistings.ViewMountain}, Featured: true, WhatsAppNumber: "+91 98765 43210"}},
		{"2", domainlistings.Attributes{Name: "Crystal Sea Resort", Location: "Agatti", State: "Lakshadweep", Price: 12500,
			PriceUnit: domainlistings.PerNight, MaxGuests: 4, PropertyType: domainlistings.PropertyResort,
			Views: []domainlistings.View{domainlistings.ViewOcean}}},
		{"5", domainlistings.Attributes{Name: "Riverside Valley Cottage", Location: "Ziro Town", State: "Arunachal Pradesh", Price: 4200,
			PriceUnit: domainlistings.PerNight, MaxGuests: 6, PropertyType: domainlistings.PropertyCottage,
			Views: []domainlistings.View{domainlistings.ViewRiver, domainlistings.ViewValley}}},
	}
	for i, item := range items {
		listing, err := domainlistings.NewListing(domainlistings.ListingID(item.id), item.attrs, time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.NoError(t, factory.ListingsRepo.Save(context.Background(), listing))
	}
}

func (a testApp) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a testApp) login(t *testing.T) map[string]string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": adminEmail, "password": adminPassword}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp dto.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return map[string]string{"Authorization": "Bearer " + resp.Token}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestCatalogEndpoint(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodGet, "/api/v1/listings?search=pradesh&sort=price_low", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	catalog := decode[dto.ListingCatalog](t, rec)
	require.Len(t, catalog.Items, 2)
	assert.Equal(t, "5", catalog.Items[0].ID)
	assert.Equal(t, "1", catalog.Items[1].ID)
	assert.Equal(t, 2, catalog.Meta.Total)
	assert.Equal(t, "₹4,200 / night", catalog.Items[0].FormattedPrice)

	rec = app.do(t, http.MethodGet, "/api/v1/listings?view=ocean,river&guests=5", nil, nil)
	catalog = decode[dto.ListingCatalog](t, rec)
	require.Len(t, catalog.Items, 1)
	assert.Equal(t, "5", catalog.Items[0].ID)

	rec = app.do(t, http.MethodGet, "/api/v1/listings?price_min=9000&price_max=1000", nil, nil)
	catalog = decode[dto.ListingCatalog](t, rec)
	assert.Empty(t, catalog.Items)
	assert.Equal(t, 0, catalog.Meta.Total)
}

func TestListingDetailAndFeatured(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodGet, "/api/v1/listings/1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[dto.ListingDetail](t, rec)
	assert.Equal(t, "Mountain Paradise Villa", detail.Name)
	assert.Contains(t, detail.Contact.WhatsAppURL, "https://wa.me/919876543210")

	rec = app.do(t, http.MethodGet, "/api/v1/listings/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/v1/listings/featured", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	featured := decode[struct {
		Items []dto.ListingCard `json:"items"`
	}](t, rec)
	require.Len(t, featured.Items, 1)
	assert.Equal(t, "1", featured.Items[0].ID)
}

func TestInquiryEndpoint(t *testing.T) {
	app := newTestApp(t, nil)
	form := map[string]string{"name": "Ravi", "email": "ravi@example.com", "message": "Is July available?", "listing_id": "5"}
	key := map[string]string{"Idempotency-Key": "form-1"}

	rec := app.do(t, http.MethodPost, "/api/v1/inquiries", form, key)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[dto.InquiryReceipt](t, rec)
	assert.Equal(t, "new", first.Status)

	rec = app.do(t, http.MethodPost, "/api/v1/inquiries", form, key)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, first.ID, decode[dto.InquiryReceipt](t, rec).ID)

	rec = app.do(t, http.MethodPost, "/api/v1/inquiries", map[string]string{"name": "Ravi", "email": "nope", "message": "hi"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/v1/inquiries", map[string]string{"name": "Ravi", "email": "r@x.in", "message": "hi", "listing_id": "404"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/v1/admin/inquiries", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	auth := app.login(t)
	rec = app.do(t, http.MethodGet, "/api/v1/admin/inquiries", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	inbox := decode[dto.InquiryCollection](t, rec)
	require.Equal(t, 1, inbox.Total)
	assert.Equal(t, "Riverside Valley Cottage", inbox.Items[0].PropertyName)

	rec = app.do(t, http.MethodPost, "/api/v1/admin/inquiries/"+first.ID+"/handled", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = app.do(t, http.MethodPost, "/api/v1/admin/inquiries/"+first.ID+"/handled", nil, auth)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/v1/admin/inquiries?status=archived", nil, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReviewModerationFlow(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodPost, "/api/v1/listings/1/reviews", map[string]any{"guest_name": "Asha", "rating": 4, "comment": "Lovely views"}, nil)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	review := decode[dto.Review](t, rec)
	assert.False(t, review.Approved)

	rec = app.do(t, http.MethodPost, "/api/v1/listings/1/reviews", map[string]any{"guest_name": "Asha", "rating": 9, "comment": "x"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/v1/listings/1/reviews", nil, nil)
	assert.Equal(t, 0, decode[dto.ReviewCollection](t, rec).Total)

	auth := app.login(t)
	rec = app.do(t, http.MethodGet, "/api/v1/admin/reviews?pending=true", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[dto.ReviewCollection](t, rec).Total)

	rec = app.do(t, http.MethodPost, "/api/v1/admin/reviews/"+review.ID+"/moderation", map[string]string{"action": "approve"}, auth)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/api/v1/listings/1", nil, nil)
	detail := decode[dto.ListingDetail](t, rec)
	assert.Equal(t, 4.0, detail.Rating)
	assert.Equal(t, 1, detail.ReviewCount)
	require.Len(t, detail.Reviews, 1)

	rec = app.do(t, http.MethodPost, "/api/v1/admin/reviews/"+review.ID+"/moderation", map[string]string{"action": "pin"}, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodDelete, "/api/v1/admin/reviews/"+review.ID, nil, auth)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = app.do(t, http.MethodGet, "/api/v1/listings/1", nil, nil)
	assert.Equal(t, 0, decode[dto.ListingDetail](t, rec).ReviewCount)

	assert.Empty(t, app.box.Pending())
}

func TestAdminListingsEndpoints(t *testing.T) {
	app := newTestApp(t, nil)

	body := map[string]any{
		"name": "Cliffside Sea Villa", "location": "Varkala", "state": "Kerala", "price": 6500,
		"price_unit": "night", "max_guests": 6, "property_type": "Villa", "views": []string{"Ocean"},
		"themes": []string{"romantic"}, "rating": 5, "review_count": 99,
	}
	rec := app.do(t, http.MethodPost, "/api/v1/admin/listings", body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	auth := app.login(t)
	rec = app.do(t, http.MethodPost, "/api/v1/admin/listings", body, auth)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[dto.ListingDetail](t, rec)
	assert.Equal(t, 0.0, created.Rating)
	assert.Equal(t, 0, created.ReviewCount)
	assert.Equal(t, []string{"ocean"}, created.Views)

	body["views"] = []string{"desert"}
	rec = app.do(t, http.MethodPut, "/api/v1/admin/listings/"+created.ID, body, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body["views"] = []string{"ocean"}
	body["price"] = 7000
	rec = app.do(t, http.MethodPut, "/api/v1/admin/listings/"+created.ID, body, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7000.0, decode[dto.ListingDetail](t, rec).Price)

	rec = app.do(t, http.MethodGet, "/api/v1/admin/listings", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	all := decode[dto.ListingCollection](t, rec)
	assert.Equal(t, 4, all.Total)
	assert.Equal(t, created.ID, all.Items[0].ID)

	rec = app.do(t, http.MethodDelete, "/api/v1/admin/listings/"+created.ID, nil, auth)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = app.do(t, http.MethodDelete, "/api/v1/admin/listings/"+created.ID, nil, auth)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadImage(t *testing.T) {
	app := newTestApp(t, nil)
	auth := app.login(t)

	upload := func(content []byte) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		require.NoError(t, w.WriteField("listing_id", "1"))
		part, err := w.CreateFormFile("file", "cover.png")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/images", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", auth["Authorization"])
		rec := httptest.NewRecorder()
		app.router.ServeHTTP(rec, req)
		return rec
	}

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
	rec := upload(png)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[dto.ImageUpload](t, rec)
	assert.Contains(t, res.URL, "http://minio:9000/vibestays-images/listings/1/")
	assert.Len(t, app.uploader.keys, 1)

	rec = upload([]byte("plain text, not an image"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthEndpoints(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": adminEmail, "password": "wrong-password"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	auth := app.login(t)
	rec = app.do(t, http.MethodGet, "/api/v1/auth/me", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, adminEmail, decode[dto.AdminProfile](t, rec).Email)

	rec = app.do(t, http.MethodPost, "/api/v1/auth/logout", nil, auth)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = app.do(t, http.MethodGet, "/api/v1/auth/me", nil, auth)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFormRateLimit(t *testing.T) {
	app := newTestApp(t, NewRateLimiter(1, 1))
	form := map[string]string{"name": "Ravi", "email": "ravi@example.com", "message": "hello"}

	rec := app.do(t, http.MethodPost, "/api/v1/inquiries", form, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = app.do(t, http.MethodPost, "/api/v1/inquiries", form, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/v1/listings", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
