package httpapi_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	httpapi "github.com/aashikantkumar/cheifidea/internal/api/http"
	"github.com/aashikantkumar/cheifidea/internal/apperr"
	"github.com/aashikantkumar/cheifidea/internal/domain"
	"github.com/aashikantkumar/cheifidea/internal/metrics"
	"github.com/aashikantkumar/cheifidea/internal/mocks"
	"github.com/aashikantkumar/cheifidea/internal/service"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	customer = domain.Principal{AccountID: "acc-customer", Role: domain.RoleCustomer}
	chef     = domain.Principal{AccountID: "acc-chef", Role: domain.RoleChef}
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
	Errors     []string        `json:"errors"`
}

func newTokenParser(t *testing.T) *mocks.TokenParser {
	parser := mocks.NewTokenParser(t)
	parser.On("ParseAccess", "customer-token").Return(customer, nil).Maybe()
	parser.On("ParseAccess", "chef-token").Return(chef, nil).Maybe()
	parser.On("ParseAccess", mock.Anything).Return(domain.Principal{}, errors.New("token is malformed")).Maybe()
	return parser
}

func serve(t *testing.T, handler http.Handler, method, path, token string, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var env envelope
	if rr.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	}
	return rr, env
}

func TestHealthCheck(t *testing.T) {
	router := httpapi.NewRouter(httpapi.NewHandler(httpapi.Services{}, nil, false), httpapi.RouterOptions{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	var body map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestCreateBookingHandler(t *testing.T) {
	tests := []struct {
		name            string
		token           string
		body            string
		prepareMocks    func(bookings *mocks.BookingService)
		expectedCode    int
		expectedMessage string
		expectedErrors  []string
	}{
		{
			name:  "created",
			token: "customer-token",
			body:  `{"chef_id":"chef-1","dishes":[{"dish_id":"d-1","quantity":2}],"booking_date":"2026-06-01","booking_time":"19:00","guest_count":4,"service_location":{"address":"12 MG Road"}}`,
			prepareMocks: func(bookings *mocks.BookingService) {
				bookings.On("Create", mock.Anything, customer, mock.MatchedBy(func(in service.CreateBookingInput) bool {
					return in.ChefID == "chef-1" && len(in.Dishes) == 1 && in.Dishes[0].Quantity == 2
				})).Return(&domain.BookingView{Booking: domain.Booking{ID: "bk-1", TotalAmount: 1857}}, nil).Once()
			},
			expectedCode:    http.StatusCreated,
			expectedMessage: "Booking created successfully",
		},
		{
			name:  "validation_failure",
			token: "customer-token",
			body:  `{"chef_id":"chef-1"}`,
			prepareMocks: func(bookings *mocks.BookingService) {
				bookings.On("Create", mock.Anything, customer, mock.Anything).
					Return(nil, apperr.Validation("Missing required booking fields")).Once()
			},
			expectedCode:    http.StatusBadRequest,
			expectedMessage: "Validation failed",
			expectedErrors:  []string{"Missing required booking fields"},
		},
		{
			name:           "invalid_json",
			token:          "customer-token",
			body:           `{invalid}`,
			expectedCode:   http.StatusBadRequest,
			expectedErrors: []string{},
		},
		{
			name:            "missing_token",
			body:            `{}`,
			expectedCode:    http.StatusUnauthorized,
			expectedMessage: "Unauthorized request",
			expectedErrors:  []string{},
		},
		{
			name:            "bad_token",
			token:           "forged",
			body:            `{}`,
			expectedCode:    http.StatusUnauthorized,
			expectedMessage: "Invalid access token",
			expectedErrors:  []string{},
		},
		{
			name:           "chef_cannot_book",
			token:          "chef-token",
			body:           `{}`,
			expectedCode:   http.StatusForbidden,
			expectedErrors: []string{},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			bookings := mocks.NewBookingService(t)
			if testCase.prepareMocks != nil {
				testCase.prepareMocks(bookings)
			}
			handler := httpapi.NewHandler(httpapi.Services{Bookings: bookings}, newTokenParser(t), false)
			router := httpapi.NewRouter(handler, httpapi.RouterOptions{})

			rr, env := serve(t, router, http.MethodPost, "/api/v1/bookings/create", testCase.token, testCase.body)

			assert.Equal(t, testCase.expectedCode, rr.Code)
			assert.Equal(t, testCase.expectedCode, env.StatusCode)
			assert.Equal(t, testCase.expectedCode < 400, env.Success)
			if testCase.expectedMessage != "" {
				assert.Equal(t, testCase.expectedMessage, env.Message)
			}
			if testCase.expectedErrors != nil {
				assert.Equal(t, testCase.expectedErrors, env.Errors)
				assert.Equal(t, "null", string(env.Data))
			}
		})
	}
}

func TestCancelBookingHandler_CookieToken(t *testing.T) {
	bookings := mocks.NewBookingService(t)
	bookings.On("Cancel", mock.Anything, customer, "bk-1", "Change of plans").
		Return(&domain.Booking{ID: "bk-1", BookingStatus: domain.BookingCancelled}, nil).Once()
	router := httpapi.NewRouter(httpapi.NewHandler(httpapi.Services{Bookings: bookings}, newTokenParser(t), false), httpapi.RouterOptions{})

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/bk-1/cancel", bytes.NewBufferString(`{"reason":"Change of plans"}`))
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: "customer-token"})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "Booking cancelled successfully", env.Message)

	var booking domain.Booking
	require.NoError(t, json.Unmarshal(env.Data, &booking))
	assert.Equal(t, domain.BookingCancelled, booking.BookingStatus)
}

func TestUpdateBookingStatusHandler(t *testing.T) {
	bookings := mocks.NewBookingService(t)
	bookings.On("UpdateStatus", mock.Anything, chef, "bk-1", domain.BookingCompleted).
		Return(nil, apperr.BadRequest("Cannot change booking status from pending to completed. Allowed: confirmed, cancelled")).Once()
	router := httpapi.NewRouter(httpapi.NewHandler(httpapi.Services{Bookings: bookings}, newTokenParser(t), false), httpapi.RouterOptions{})

	rr, env := serve(t, router, http.MethodPatch, "/api/v1/chefs/bookings/bk-1/status", "chef-token", `{"status":"completed"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Cannot change booking status from pending to completed. Allowed: confirmed, cancelled", env.Message)
}

func TestInternalErrorsAreRedactedInProduction(t *testing.T) {
	for _, production := range []bool{false, true} {
		catalog := mocks.NewCatalogService(t)
		catalog.On("Chef", mock.Anything, "chef-1").
			Return(nil, apperr.Internal("pq: connection refused", errors.New("dial tcp"))).Once()
		router := httpapi.NewRouter(httpapi.NewHandler(httpapi.Services{Catalog: catalog}, nil, production), httpapi.RouterOptions{})

		rr, env := serve(t, router, http.MethodGet, "/api/v1/public/chefs/chef-1", "", "")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		if production {
			assert.Equal(t, "Internal server error", env.Message)
		} else {
			assert.Equal(t, "pq: connection refused", env.Message)
		}
	}
}

func TestBookingQRCodeHandler(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	bookings := mocks.NewBookingService(t)
	bookings.On("QRCode", mock.Anything, customer, "bk-1").Return(png, nil).Once()
	router := httpapi.NewRouter(httpapi.NewHandler(httpapi.Services{Bookings: bookings}, newTokenParser(t), false), httpapi.RouterOptions{})

	rr, _ := serve(t, router, http.MethodGet, "/api/v1/bookings/bk-1/qrcode", "customer-token", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.Equal(t, png, rr.Body.Bytes())
}

func TestListChefsHandler_Filters(t *testing.T) {
	catalog := mocks.NewCatalogService(t)
	catalog.On("ListChefs", mock.Anything, domain.ChefFilter{
		City:      "Pune",
		MinRating: 4,
		Page:      domain.NewPage(2, 5),
	}).Return(domain.Paged[domain.ChefProfile]{Items: []domain.ChefProfile{}}, nil).Once()
	router := httpapi.NewRouter(httpapi.NewHandler(httpapi.Services{Catalog: catalog}, nil, false), httpapi.RouterOptions{})

	rr, env := serve(t, router, http.MethodGet, "/api/v1/public/chefs?city=Pune&min_rating=4&page=2&limit=5", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, env.Success)

	rr, _ = serve(t, router, http.MethodGet, "/api/v1/public/chefs?min_rating=high", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRequestMetricsUseRouteTemplate(t *testing.T) {
	catalog := mocks.NewCatalogService(t)
	catalog.On("Dish", mock.Anything, "d-1").Return(&domain.Dish{ID: "d-1"}, nil).Once()
	router := httpapi.NewRouter(httpapi.NewHandler(httpapi.Services{Catalog: catalog}, nil, false), httpapi.RouterOptions{})

	counter := metrics.RequestTotal.WithLabelValues("GET", "/api/v1/public/dishes/{dishId}", "200")
	before := testutil.ToFloat64(counter)

	rr, _ := serve(t, router, http.MethodGet, "/api/v1/public/dishes/d-1", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestUnknownRoute(t *testing.T) {
	router := httpapi.NewRouter(httpapi.NewHandler(httpapi.Services{}, nil, false), httpapi.RouterOptions{})
	rr, env := serve(t, router, http.MethodGet, "/api/v1/nothing", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.False(t, env.Success)
}
