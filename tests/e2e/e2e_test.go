package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"parkshare/internal/database"
	"parkshare/internal/middleware"
	"parkshare/internal/modules/auth"
	"parkshare/internal/modules/events"
	"parkshare/internal/modules/registry"
	"parkshare/internal/modules/rental"
	"parkshare/internal/modules/wallet"
	jwtsvc "parkshare/internal/pkg/jwt"
	"parkshare/internal/repository"
)

type E2ETestSuite struct {
	router *gin.Engine
	db     *gorm.DB
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:e2e_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, database.Migrate(db), "Failed to migrate test database")

	userRepo := repository.NewUserRepository(db)
	spaceRepo := repository.NewSpaceRepository(db)
	rentalRepo := repository.NewRentalRepository(db)

	j := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)
	hub := events.NewHub()

	authHandler := auth.NewHandler(auth.NewService(userRepo, j))
	registryHandler := registry.NewHandler(registry.NewService(db, spaceRepo, hub))
	rentalHandler := rental.NewHandler(rental.NewService(db, rentalRepo, hub))
	walletHandler := wallet.NewHandler(wallet.NewService(db))
	eventsHandler := events.NewHandler(events.NewService(db), hub, j)

	r := gin.New()
	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterRoutes(v1)
		registryHandler.RegisterPublicRoutes(v1)
		eventsHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			registryHandler.RegisterProtectedRoutes(protected)
			rentalHandler.RegisterRoutes(protected)
			walletHandler.RegisterRoutes(protected)
		}
	}

	return &E2ETestSuite{router: r, db: db}
}

func (s *E2ETestSuite) request(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, TestResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)

	var resp TestResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	return rr, resp
}

func (s *E2ETestSuite) registerAndLogin(t *testing.T, name, email string) string {
	t.Helper()

	rr, _ := s.request(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"name":     name,
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, rr.Code, "register %s: %s", email, rr.Body.String())

	rr, resp := s.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rr.Code, "login %s: %s", email, rr.Body.String())

	token, ok := resp.Data["access_token"].(string)
	require.True(t, ok, "missing access_token")
	return token
}

func TestFullRentalFlow(t *testing.T) {
	s := setupTestSuite(t)

	ownerToken := s.registerAndLogin(t, "Olga Owner", "owner@example.com")
	renterToken := s.registerAndLogin(t, "Rita Renter", "renter@example.com")
	secondToken := s.registerAndLogin(t, "Dan Driver", "driver@example.com")

	// Renter funds their wallet.
	rr, _ := s.request(t, http.MethodPost, "/api/v1/wallets/me/add", renterToken, map[string]any{"amount": 1000})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	// Owner lists a space at 100 per hour.
	rr, resp := s.request(t, http.MethodPost, "/api/v1/spaces", ownerToken, map[string]any{
		"location":       "Abay Ave 12, slot B4",
		"price_per_hour": 100,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	space := resp.Data["space"].(map[string]interface{})
	spaceID := int64(space["id"].(float64))

	// The listing is publicly visible and available.
	rr, resp = s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/spaces/%d", spaceID), "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, resp.Data["space"].(map[string]interface{})["is_available"].(bool))

	// Wrong payment is rejected in both directions.
	for _, paid := range []int{199, 201} {
		rr, resp = s.request(t, http.MethodPost, "/api/v1/rentals", renterToken, map[string]any{
			"space_id":    spaceID,
			"hours":       2,
			"paid_amount": paid,
		})
		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "INCORRECT_PAYMENT", resp.Error.Code)
	}

	// Zero hours is invalid input.
	rr, resp = s.request(t, http.MethodPost, "/api/v1/rentals", renterToken, map[string]any{
		"space_id":    spaceID,
		"hours":       0,
		"paid_amount": 0,
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

	// Exact payment books the space.
	rr, resp = s.request(t, http.MethodPost, "/api/v1/rentals", renterToken, map[string]any{
		"space_id":    spaceID,
		"hours":       2,
		"paid_amount": 200,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	agreement := resp.Data["rental"].(map[string]interface{})
	rentalID := int64(agreement["id"].(float64))
	assert.Equal(t, float64(200), agreement["total_cost"])

	// A second renter is turned away.
	rr, resp = s.request(t, http.MethodPost, "/api/v1/rentals", secondToken, map[string]any{
		"space_id":    spaceID,
		"hours":       1,
		"paid_amount": 100,
	})
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "NOT_AVAILABLE", resp.Error.Code)

	// The owner cannot reclaim before the window expires.
	rr, resp = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/rentals/%d/release", rentalID), ownerToken, nil)
	require.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)

	// The renter may release early; settlement pays the owner.
	rr, _ = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/rentals/%d/release", rentalID), renterToken, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr, resp = s.request(t, http.MethodGet, "/api/v1/wallets/me", ownerToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(200), resp.Data["balance"])

	rr, resp = s.request(t, http.MethodGet, "/api/v1/wallets/me", renterToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(800), resp.Data["balance"])

	// Releasing twice fails without a second payout.
	rr, resp = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/rentals/%d/release", rentalID), renterToken, nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "RENTAL_NOT_ACTIVE", resp.Error.Code)

	// The space is rentable again and its earnings are recorded.
	rr, resp = s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/spaces/%d", spaceID), "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	space = resp.Data["space"].(map[string]interface{})
	assert.True(t, space["is_available"].(bool))
	assert.Equal(t, float64(200), space["total_earnings"])

	// The audit feed recorded the whole story in order.
	rr, resp = s.request(t, http.MethodGet, "/api/v1/events", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	evs := resp.Data["events"].([]interface{})
	var types []string
	for _, ev := range evs {
		types = append(types, ev.(map[string]interface{})["type"].(string))
	}
	assert.Equal(t, []string{"SpaceListed", "SpaceRented", "SpaceReleased", "SpaceAvailabilityUpdated"}, types)
}

func TestOwnerAvailabilityToggle(t *testing.T) {
	s := setupTestSuite(t)

	ownerToken := s.registerAndLogin(t, "Olga Owner", "owner2@example.com")
	renterToken := s.registerAndLogin(t, "Rita Renter", "renter2@example.com")

	rr, resp := s.request(t, http.MethodPost, "/api/v1/spaces", ownerToken, map[string]any{
		"location":       "Dostyk Plaza rooftop, R11",
		"price_per_hour": 100,
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	spaceID := int64(resp.Data["space"].(map[string]interface{})["id"].(float64))

	// Only the owner can toggle availability.
	rr, resp = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/spaces/%d/availability", spaceID), renterToken, map[string]any{
		"is_available": false,
	})
	require.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)

	rr, _ = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/spaces/%d/availability", spaceID), ownerToken, map[string]any{
		"is_available": false,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	// A withheld space cannot be rented.
	rr, _ = s.request(t, http.MethodPost, "/api/v1/wallets/me/add", renterToken, map[string]any{"amount": 500})
	require.Equal(t, http.StatusOK, rr.Code)

	rr, resp = s.request(t, http.MethodPost, "/api/v1/rentals", renterToken, map[string]any{
		"space_id":    spaceID,
		"hours":       1,
		"paid_amount": 100,
	})
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "NOT_AVAILABLE", resp.Error.Code)

	// Re-enabling works while nobody rents it.
	rr, _ = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/spaces/%d/availability", spaceID), ownerToken, map[string]any{
		"is_available": true,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	// While a rental is running the guard refuses the toggle.
	rr, _ = s.request(t, http.MethodPost, "/api/v1/rentals", renterToken, map[string]any{
		"space_id":    spaceID,
		"hours":       1,
		"paid_amount": 100,
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr, resp = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/spaces/%d/availability", spaceID), ownerToken, map[string]any{
		"is_available": true,
	})
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "STILL_RENTED", resp.Error.Code)
}

func TestRentWithoutFundsRejected(t *testing.T) {
	s := setupTestSuite(t)

	ownerToken := s.registerAndLogin(t, "Olga Owner", "owner3@example.com")
	renterToken := s.registerAndLogin(t, "Rita Renter", "renter3@example.com")

	rr, resp := s.request(t, http.MethodPost, "/api/v1/spaces", ownerToken, map[string]any{
		"location":       "Main St 5, driveway",
		"price_per_hour": 100,
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	spaceID := int64(resp.Data["space"].(map[string]interface{})["id"].(float64))

	rr, resp = s.request(t, http.MethodPost, "/api/v1/rentals", renterToken, map[string]any{
		"space_id":    spaceID,
		"hours":       1,
		"paid_amount": 100,
	})
	require.Equal(t, http.StatusPaymentRequired, rr.Code)
	assert.Equal(t, "INSUFFICIENT_FUNDS", resp.Error.Code)

	// The failed booking left the space available and the feed clean.
	rr, resp = s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/spaces/%d", spaceID), "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, resp.Data["space"].(map[string]interface{})["is_available"].(bool))

	rr, resp = s.request(t, http.MethodGet, "/api/v1/events?type=SpaceRented", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, resp.Data["events"])
}
