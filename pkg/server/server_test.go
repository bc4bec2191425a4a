package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyinlola/housingrisk/pkg/catalog"
	"github.com/toyinlola/housingrisk/pkg/interfaces"
	"github.com/toyinlola/housingrisk/pkg/metrics"
	"github.com/toyinlola/housingrisk/pkg/normalize"
	"github.com/toyinlola/housingrisk/pkg/pipeline"
	"github.com/toyinlola/housingrisk/pkg/scorer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(t, s, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "local-v1", body["model_version"])
}

func TestPredict_Scenario(t *testing.T) {
	s := newTestServer(t, nil)
	req := benignRequest()
	req["fault_distance_km"] = 2
	req["distance_to_rivers_and_seas_km"] = 0.5
	req["potential_liquefaction"] = true

	w := do(t, s, http.MethodPost, "/predict", req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var a interfaces.Assessment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &a))
	assert.Equal(t, 0.58, a.Score)
	assert.Equal(t, interfaces.RiskMedium, a.Risk)
	assert.Equal(t, "local-v1", a.ModelVersion)
	assert.Equal(t, []string{
		"Very near fault line (<5 km).",
		"Very close to rivers/seas (<1 km).",
		"Potential liquefaction flagged.",
	}, a.Reasons)

	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}

func TestPredict_Rejections(t *testing.T) {
	s := newTestServer(t, nil)

	cases := []struct {
		name   string
		mutate func(map[string]any)
		field  string
	}{
		{"missing enum", func(r map[string]any) { delete(r, "roof_design") }, "roof_design"},
		{"unseen category", func(r map[string]any) { r["surface_runoff"] = "extreme" }, "surface_runoff"},
		{"negative measurement", func(r map[string]any) { r["slope_deg"] = -1 }, "slope_deg"},
		{"zero column spacing", func(r map[string]any) { r["column_spacing_m"] = 0 }, "column_spacing_m"},
		{"missing boolean", func(r map[string]any) { delete(r, "vertical_irregularity") }, "vertical_irregularity"},
		{"wrong type", func(r map[string]any) { r["elevation_m"] = "high" }, "elevation_m"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := benignRequest()
			tc.mutate(req)

			w := do(t, s, http.MethodPost, "/predict", req)
			require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.field, body["field"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestPredict_OutOfRangeIsClamped(t *testing.T) {
	s := newTestServer(t, nil)
	req := benignRequest()
	req["fault_distance_km"] = 5000
	req["maximum_crack_mm"] = 900

	w := do(t, s, http.MethodPost, "/predict", req)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestPredict_MalformedBody(t *testing.T) {
	s := newTestServer(t, nil)

	r := httptest.NewRequest(http.MethodPost, "/predict", bytes.NewBufferString("{not json"))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssess(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(t, s, http.MethodPost, "/assess", answers(3))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var a interfaces.Assessment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &a))
	assert.Equal(t, interfaces.RiskHigh, a.Risk)
	assert.Equal(t, 1.0, a.Score)
	require.NotNil(t, a.RiskIndex)
	assert.Equal(t, 10.0, *a.RiskIndex)
	assert.LessOrEqual(t, len(a.Reasons), 6)
}

func TestAssess_Rejections(t *testing.T) {
	s := newTestServer(t, nil)

	outOfDomain := answers(2)
	outOfDomain["B1_1_AESTHETIC_THEME"] = 4

	missing := answers(2)
	delete(missing, "C4_2_FASTENER_SPACING")

	for field, body := range map[string]any{
		"B1_1_AESTHETIC_THEME":  outOfDomain,
		"C4_2_FASTENER_SPACING": missing,
		"A1_1_PEIS":             map[string]any{"A1_1_PEIS": "three"},
	} {
		w := do(t, s, http.MethodPost, "/assess", body)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, field, resp["field"])
	}
}

func TestRequestID_Echoed(t *testing.T) {
	s := newTestServer(t, nil)
	id := uuid.NewString()

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.Header.Set(RequestIDHeader, id)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)

	assert.Equal(t, id, w.Header().Get(RequestIDHeader))
}

func TestCORS_Preflight(t *testing.T) {
	s := newTestServer(t, []string{"http://localhost:5173"})

	r := httptest.NewRequest(http.MethodOptions, "/predict", nil)
	r.Header.Set("Origin", "http://localhost:5173")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	r = httptest.NewRequest(http.MethodOptions, "/predict", nil)
	r.Header.Set("Origin", "http://evil.example")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSConfig(t *testing.T) {
	_, ok := corsConfig(nil)
	assert.False(t, ok)

	c, ok := corsConfig([]string{"*"})
	require.True(t, ok)
	assert.True(t, c.AllowAllOrigins)
	assert.False(t, c.AllowCredentials)
	assert.NoError(t, c.Validate())

	c, ok = corsConfig([]string{"https://a.example"})
	require.True(t, ok)
	assert.True(t, c.AllowCredentials)
	assert.NoError(t, c.Validate())
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	do(t, s, http.MethodPost, "/assess", answers(1))
	do(t, s, http.MethodPost, "/assess", map[string]any{"A1_1_PEIS": 9})

	w := do(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `housingrisk_assessments_total{risk="LOW",strategy="index"} 1`)
	assert.Contains(t, w.Body.String(), `housingrisk_invalid_inputs_total{variant="questionnaire"} 1`)
}

func newTestServer(t *testing.T, origins []string) *Server {
	t.Helper()
	reg := pipeline.NewRegistry()
	require.NoError(t, reg.Register(scorer.NewIndexStrategy(scorer.NewCalculator())))
	require.NoError(t, reg.Register(scorer.NewRuleStrategy(normalize.NewPhysical(catalog.DefaultPhysical()))))

	rec := metrics.New()
	svc, err := pipeline.NewService(reg, "local-v1", pipeline.WithRecorder(rec))
	require.NoError(t, err)
	return New(svc, rec, Options{AllowedOrigins: origins})
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)
	return w
}

func benignRequest() map[string]any {
	return map[string]any{
		"fault_distance_km":              60,
		"basic_wind_speed_mps":           20,
		"slope_deg":                      5,
		"elevation_m":                    100,
		"potential_liquefaction":         false,
		"distance_to_rivers_and_seas_km": 12,
		"surface_runoff":                 "low",
		"vertical_irregularity":          false,
		"building_proximity_m":           10,
		"number_of_bays":                 3,
		"column_spacing_m":               4,
		"maximum_crack_mm":               0.5,
		"roof_slope_deg":                 25,
		"roof_design":                    "gable",
		"roof_fastener_distance_cm":      10,
	}
}

func answers(v float64) map[string]any {
	out := make(map[string]any)
	for _, n := range catalog.DefaultQuestionnaire().Names() {
		out[n] = v
	}
	return out
}
