package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	helper "github.com/fleetroute/fleetroute/pkg/http/router/routerhelper"
	"github.com/fleetroute/fleetroute/pkg/loader"
	"github.com/fleetroute/fleetroute/pkg/render"
	"github.com/fleetroute/fleetroute/pkg/util"
	"github.com/fleetroute/fleetroute/pkg/vrptw"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPlannerService struct {
	lastLocations []loader.Location
	lastParams    vrptw.Params
	summary       *vrptw.Summary
	planErr       error
}

func (s *stubPlannerService) Plan(ctx context.Context, locations []loader.Location,
	params vrptw.Params) (string, *vrptw.Summary, error) {
	s.lastLocations = locations
	s.lastParams = params
	if s.planErr != nil {
		return "", nil, s.planErr
	}
	return "test-id", s.summary, nil
}

func (s *stubPlannerService) Solution(id string) (*vrptw.Summary, error) {
	if id != "test-id" {
		return nil, util.WrapErrorf(nil, util.ErrNotFound, "no solution with id %s", id)
	}
	return s.summary, nil
}

func (s *stubPlannerService) SolutionGeoJSON(id string) (*render.FeatureCollection, error) {
	if _, err := s.Solution(id); err != nil {
		return nil, err
	}
	return render.NewSolutionGeoJSON(s.summary), nil
}

func (s *stubPlannerService) WriteSolutionMap(id string, w io.Writer) error {
	if _, err := s.Solution(id); err != nil {
		return err
	}
	return render.WriteMapHTML(w, s.summary)
}

func (s *stubPlannerService) DistanceMatrix(locations []loader.Location,
	avgSpeedMph float64) ([][]float64, [][]int, error) {
	n := len(locations)
	distances := make([][]float64, n)
	durations := make([][]int, n)
	for i := range distances {
		distances[i] = make([]float64, n)
		durations[i] = make([]int, n)
	}
	return distances, durations, nil
}

func stubSummary() *vrptw.Summary {
	return &vrptw.Summary{
		Feasible: true,
		Cost:     4.2,
		Routes: []vrptw.RouteSummary{{
			Visits:    []int{1, 2},
			Locations: []string{"Depot", "Hotel A", "Hotel B", "Depot"},
			Distance:  4.2,
			Duration:  130,
		}},
		NumRoutes:     1,
		TotalDistance: 4.2,
		TotalDuration: 130,
		Locations: []loader.Location{
			{Name: "Depot", Address: "100 Main St", Lat: 43.1566, Lon: -77.6088},
			{Name: "Hotel A", Address: "12 Elm St", Lat: 43.16, Lon: -77.61, Demand: 1},
			{Name: "Hotel B", Address: "34 Oak Ave", Lat: 43.17, Lon: -77.59, Demand: 1},
		},
	}
}

func newTestRouter(service PlannerService) http.Handler {
	router := httprouter.New()
	group := helper.NewRouteGroup(router, "/api")
	New(service, zap.NewNop()).Routes(group)
	return router
}

const solveBody = `{
	"locations": [
		{"name": "Depot", "address": "100 Main St", "latitude": 43.1566, "longitude": -77.6088},
		{"name": "Hotel A", "address": "12 Elm St", "latitude": 43.16, "longitude": -77.61},
		{"name": "Hotel B", "address": "34 Oak Ave", "latitude": 43.17, "longitude": -77.59}
	],
	"num_vehicles": 3,
	"vehicle_capacity": 5,
	"max_runtime": 2
}`

func TestSolveJSON(t *testing.T) {
	service := &stubPlannerService{summary: stubSummary()}
	handler := newTestRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/api/solve", strings.NewReader(solveBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Data struct {
			ID       string         `json:"id"`
			Solution *vrptw.Summary `json:"solution"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "test-id", body.Data.ID)
	assert.Equal(t, 1, body.Data.Solution.NumRoutes)

	require.Len(t, service.lastLocations, 3)
	assert.Equal(t, 1, service.lastLocations[1].Demand)
	assert.Equal(t, 3, service.lastParams.NumVehicles)
	assert.Equal(t, 5, service.lastParams.VehicleCapacity)
	// omitted fields keep their defaults
	assert.Equal(t, 60, service.lastParams.ServiceTime)
	assert.Equal(t, 30.0, service.lastParams.AvgSpeedMph)
}

func TestSolveJSONExplicitZeros(t *testing.T) {
	service := &stubPlannerService{summary: stubSummary()}
	handler := newTestRouter(service)

	// 0 is a valid value here: a midnight window start and a zero-demand stop
	body := `{
		"locations": [
			{"name": "Depot", "address": "100 Main St", "latitude": 43.1566, "longitude": -77.6088},
			{"name": "Hotel A", "address": "12 Elm St", "latitude": 43.16, "longitude": -77.61, "demand": 0},
			{"name": "Hotel B", "address": "34 Oak Ave", "latitude": 43.17, "longitude": -77.59, "demand": 3}
		],
		"time_window_start": 0
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/solve", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, service.lastParams.WindowStart)
	require.Len(t, service.lastLocations, 3)
	assert.Equal(t, 0, service.lastLocations[1].Demand)
	assert.Equal(t, 3, service.lastLocations[2].Demand)
}

func TestSolveJSONValidation(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"not json", `{"locations": [`},
		{"missing locations", `{"num_vehicles": 3}`},
		{"single location", `{"locations": [{"name": "Depot", "address": "x", "latitude": 1, "longitude": 1}]}`},
		{"latitude out of range", `{"locations": [
			{"name": "Depot", "address": "x", "latitude": 99, "longitude": 1},
			{"name": "A", "address": "y", "latitude": 1, "longitude": 1}
		]}`},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			service := &stubPlannerService{summary: stubSummary()}
			handler := newTestRouter(service)

			req := httptest.NewRequest(http.MethodPost, "/api/solve", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSolveMultipart(t *testing.T) {
	service := &stubPlannerService{summary: stubSummary()}
	handler := newTestRouter(service)

	csv := "name,address,latitude,longitude\n" +
		"Depot,100 Main St,43.1566,-77.6088\n" +
		"Hotel A,12 Elm St,43.16,-77.61\n" +
		"Hotel B,34 Oak Ave,43.17,-77.59\n"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "locations.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("num_vehicles", "4"))
	require.NoError(t, mw.WriteField("avg_speed_mph", "25"))
	require.NoError(t, mw.WriteField("time_window_start", "0"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/solve", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, service.lastLocations, 3)
	assert.Equal(t, "Depot", service.lastLocations[0].Name)
	assert.Equal(t, 4, service.lastParams.NumVehicles)
	assert.Equal(t, 25.0, service.lastParams.AvgSpeedMph)
	assert.Equal(t, 0, service.lastParams.WindowStart)
}

func TestSolveMultipartMissingFile(t *testing.T) {
	service := &stubPlannerService{summary: stubSummary()}
	handler := newTestRouter(service)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("num_vehicles", "4"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/solve", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSolvePlanError(t *testing.T) {
	service := &stubPlannerService{
		planErr: util.WrapErrorf(nil, util.ErrBadParamInput, "vehicle capacity must be >= 1"),
	}
	handler := newTestRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/api/solve", strings.NewReader(solveBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "vehicle capacity")
}

func TestMatrixJSON(t *testing.T) {
	service := &stubPlannerService{summary: stubSummary()}
	handler := newTestRouter(service)

	body := `{"locations": [
		{"name": "Depot", "address": "100 Main St", "latitude": 43.1566, "longitude": -77.6088},
		{"name": "Hotel A", "address": "12 Elm St", "latitude": 43.16, "longitude": -77.61}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/api/matrix", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			NumLocations int         `json:"num_locations"`
			AvgSpeedMph  float64     `json:"avg_speed_mph"`
			Distances    [][]float64 `json:"distances"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.NumLocations)
	assert.Equal(t, 30.0, resp.Data.AvgSpeedMph)
	assert.Len(t, resp.Data.Distances, 2)
}

func TestSolutionByID(t *testing.T) {
	service := &stubPlannerService{summary: stubSummary()}
	handler := newTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/api/solutions/test-id", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"num_routes":1`)
}

func TestSolutionNotFound(t *testing.T) {
	service := &stubPlannerService{summary: stubSummary()}
	handler := newTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/api/solutions/missing", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSolutionGeoJSON(t *testing.T) {
	service := &stubPlannerService{summary: stubSummary()}
	handler := newTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/api/solutions/test-id/geojson", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))

	var fc render.FeatureCollection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.NotEmpty(t, fc.Features)
}

func TestSolutionMap(t *testing.T) {
	service := &stubPlannerService{summary: stubSummary()}
	handler := newTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/api/solutions/test-id/map", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "leaflet")
}

func TestSolutionMapNotFound(t *testing.T) {
	service := &stubPlannerService{summary: stubSummary()}
	handler := newTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/api/solutions/missing/map", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
