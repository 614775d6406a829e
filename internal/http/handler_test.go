package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"smartcity-service/internal/auth"
	"smartcity-service/internal/config"
	"smartcity-service/internal/http/middleware"
	"smartcity-service/internal/model"
	"smartcity-service/internal/repository"
	"smartcity-service/internal/service"
)

const testSecret = "test-secret"

type stubDeviceStore struct {
	devices map[string]*model.IoTDevice
}

func (s *stubDeviceStore) DeviceByDeviceID(_ context.Context, deviceID string) (*model.IoTDevice, error) {
	device, ok := s.devices[deviceID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return device, nil
}

func (s *stubDeviceStore) RoomByID(context.Context, string) (*model.Room, error) {
	return nil, repository.ErrNotFound
}

func (s *stubDeviceStore) BoilerByID(context.Context, uuid.UUID) (*model.Boiler, error) {
	return nil, repository.ErrNotFound
}

func (s *stubDeviceStore) ApplyReading(context.Context, *model.IoTDevice, *model.Room, *model.Boiler) error {
	return nil
}

func (s *stubDeviceStore) Rebind(context.Context, *model.IoTDevice, *model.Room, *model.Boiler) error {
	return nil
}

type stubPredictionStore struct{}

func (stubPredictionStore) BinByID(context.Context, model.Scope, uuid.UUID) (*model.WasteBin, error) {
	return nil, repository.ErrNotFound
}

func (stubPredictionStore) CreatePredictions(context.Context, []model.WastePrediction) error {
	return nil
}

type stubStatsStore struct{}

func (stubStatsStore) WasteStatistics(context.Context, model.Scope, time.Duration) (*model.WasteStatistics, error) {
	return &model.WasteStatistics{TotalBins: 12, ByZone: map[string]model.ZoneStats{}}, nil
}

func (stubStatsStore) ClimateStatistics(context.Context) (*model.ClimateStatistics, error) {
	return &model.ClimateStatistics{ByFacilityType: map[string]model.FacilityTypeStats{}}, nil
}

func (stubStatsStore) DashboardStats(context.Context, model.Scope) (*model.DashboardStats, error) {
	return &model.DashboardStats{TotalBins: 12, ActiveBins: 9}, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zerolog.Nop()
	devices := &stubDeviceStore{devices: map[string]*model.IoTDevice{
		"ESP-001": {ID: uuid.New(), DeviceID: "ESP-001"},
	}}

	sensors := service.NewSensorService(devices, log)
	analytics := service.NewAnalyticsService(stubPredictionStore{}, stubStatsStore{},
		config.PredictionConfig{DefaultDaysAhead: 7, MaxDaysAhead: 30}, log)

	handler := NewHandler(sensors, nil, nil, analytics, nil, log)
	authMiddleware := middleware.Auth(auth.NewParser(testSecret))
	return NewRouter(handler, authMiddleware, "test")
}

func signToken(t *testing.T, role model.Role) string {
	t.Helper()
	orgID := uuid.New()
	claims := auth.Claims{
		UserID: uuid.New(),
		OrgID:  &orgID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestIngestSensorData(t *testing.T) {
	router := newTestRouter(t)

	body := `{"device_id": "ESP-001", "temperature": 21.5}`
	req := httptest.NewRequest(http.MethodPost, "/iot/sensor-data", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var envelope struct {
		Data model.IngestResult `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.DeviceID != "ESP-001" {
		t.Fatalf("device id = %s, want ESP-001", envelope.Data.DeviceID)
	}
}

func TestIngestSensorDataBadPayload(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/iot/sensor-data", strings.NewReader(`{"temperature": 21}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestIngestSensorDataUnknownDevice(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/iot/sensor-data", strings.NewReader(`{"device_id": "nope"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 for garbage token", w.Code)
	}
}

func TestDashboardStatsWithValidToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, model.RoleAdmin))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var envelope struct {
		Data model.DashboardStats `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TotalBins != 12 {
		t.Fatalf("total bins = %d, want 12", envelope.Data.TotalBins)
	}
}

func TestStatisticsForbiddenForDrivers(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/waste/statistics", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, model.RoleDriver))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestAnalyzeBinRejectsBadID(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/waste/bins/not-a-uuid/analyze", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, model.RoleOperator))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
