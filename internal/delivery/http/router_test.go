package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-doctor-scheduling/config"
	"go-doctor-scheduling/internal/delivery/http/handler"
	"go-doctor-scheduling/internal/delivery/http/middleware"
	"go-doctor-scheduling/internal/domain/entity"
	"go-doctor-scheduling/pkg/jwt"
	"go-doctor-scheduling/pkg/validator"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routerFixture struct {
	router     *mux.Router
	mr         *miniredis.Miniredis
	jwtService *jwt.JWTService
}

// newRouterFixture wires real middleware around handlers whose usecases are
// nil, so only requests rejected before the usecase layer may be sent.
func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Hour})
	v := validator.NewValidator()

	router := NewRouter(
		handler.NewDoctorScheduleHandler(nil, nil, v),
		handler.NewAvailabilityHandler(nil, 30*time.Minute),
		handler.NewSlotRemovalHandler(nil, v),
		handler.NewAppointmentHandler(nil, v),
		handler.NewAuditLogHandler(nil),
		middleware.NewAuthMiddleware(jwtService, client),
		middleware.NewCORSMiddleware([]string{"*"}),
		promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{}),
	)

	return &routerFixture{router: router.Setup(), mr: mr, jwtService: jwtService}
}

func (f *routerFixture) token(t *testing.T, roleID int) string {
	t.Helper()
	userID := uuid.New()
	token, tokenID, err := f.jwtService.GenerateAccessToken(userID, "user@example.com", roleID)
	require.NoError(t, err)
	require.NoError(t, f.mr.Set(jwt.AccessTokenKey(userID, tokenID), "valid"))
	return token
}

func (f *routerFixture) do(method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicEndpoints(t *testing.T) {
	f := newRouterFixture(t)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/health", "", "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/metrics", "", "").Code)

	// Reaches the handler without a token; rejected on the path parameter.
	rec := f.do(http.MethodGet, "/api/v1/doctors/not-a-uuid/available-slots?date=2030-01-07", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_RoleGuards(t *testing.T) {
	f := newRouterFixture(t)

	tests := []struct {
		name       string
		method     string
		target     string
		roleID     int
		wantStatus int
	}{
		{name: "doctor route without token", method: http.MethodGet, target: "/api/v1/doctor/schedule", wantStatus: http.StatusUnauthorized},
		{name: "doctor route as patient", method: http.MethodGet, target: "/api/v1/doctor/schedule", roleID: entity.RoleIDPatient, wantStatus: http.StatusForbidden},
		{name: "admin route as doctor", method: http.MethodGet, target: "/api/v1/admin/slot-removal-requests", roleID: entity.RoleIDDoctor, wantStatus: http.StatusForbidden},
		{name: "booking as doctor", method: http.MethodPost, target: "/api/v1/patient/appointments", roleID: entity.RoleIDDoctor, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := ""
			if tt.roleID != 0 {
				token = f.token(t, tt.roleID)
			}
			assert.Equal(t, tt.wantStatus, f.do(tt.method, tt.target, token, "").Code)
		})
	}
}

func TestRouter_WeekRouteIsNotAnID(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, entity.RoleIDDoctor)

	// Validation fails inside ReplaceWeek, before any usecase call.
	rec := f.do(http.MethodPut, "/api/v1/doctor/schedule/recurring/week", token, `{"slots":[{"day_of_week":"SOMEDAY"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Validation failed")

	// Only PUT is routed for /week; mux reports a method mismatch on a nested
	// subrouter as not found.
	rec = f.do(http.MethodPost, "/api/v1/doctor/schedule/recurring/week", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Recurring slot ids are numeric, so a word never reaches the id routes.
	rec = f.do(http.MethodPut, "/api/v1/doctor/schedule/recurring/abc", token, `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
