package server

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const referenceCase = `{
	"name": "reference",
	"profile": "rectangle",
	"base_width": 10,
	"height": 8,
	"water_level": 6,
	"concrete_density": 23.5,
	"water_density": 9.81,
	"friction_coefficient": 0.7
}`

func executeRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error == "" {
		t.Fatal("expected an error message")
	}
	if body.RequestID == "" {
		t.Fatal("expected request_id in error body")
	}
	return body
}

func TestHealth(t *testing.T) {
	s := New(Config{}, nil)
	rr := executeRequest(s, http.MethodGet, "/healthz", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"ok"`) {
		t.Fatalf("unexpected body %q", rr.Body.String())
	}
}

func TestAnalyze(t *testing.T) {
	s := New(Config{}, nil)
	rr := executeRequest(s, http.MethodPost, "/api/v1/stability", referenceCase)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected json content type, got %q", ct)
	}
	if _, err := uuid.Parse(rr.Header().Get(RequestIDHeader)); err != nil {
		t.Fatalf("expected a UUID request ID, got %q", rr.Header().Get(RequestIDHeader))
	}

	var body struct {
		Name                    string   `json:"name"`
		Verdict                 string   `json:"verdict"`
		SafetyFactorSliding     *float64 `json:"safety_factor_sliding"`
		SafetyFactorOverturning float64  `json:"safety_factor_overturning"`
		WithinMiddleThird       bool     `json:"within_middle_third"`
		Steps                   []struct {
			Title string `json:"title"`
		} `json:"steps"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Name != "reference" {
		t.Fatalf("expected name %q, got %q", "reference", body.Name)
	}
	if body.Verdict != "safe" {
		t.Fatalf("expected verdict safe, got %q", body.Verdict)
	}
	if body.SafetyFactorSliding == nil {
		t.Fatal("expected a sliding safety factor")
	}
	if body.SafetyFactorOverturning <= 1.5 {
		t.Fatalf("expected FSo above 1.5, got %f", body.SafetyFactorOverturning)
	}
	if !body.WithinMiddleThird {
		t.Fatal("expected resultant within the middle third")
	}
	if len(body.Steps) != 14 {
		t.Fatalf("expected 14 steps, got %d", len(body.Steps))
	}
}

func TestAnalyzeSolveFor(t *testing.T) {
	s := New(Config{}, nil)
	body := `{"profile":"rectangle","base_width":10,"height":8,"solve_for":"waterLevel","target_safety_factor":20}`
	rr := executeRequest(s, http.MethodPost, "/api/v1/stability", body)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	var resp struct {
		Solved struct {
			Name      string  `json:"name"`
			Value     float64 `json:"value"`
			Method    string  `json:"method"`
			Converged bool    `json:"converged"`
		} `json:"solved"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Solved.Name != "waterLevel" || resp.Solved.Method != "bisection" || !resp.Solved.Converged {
		t.Fatalf("unexpected solve %+v", resp.Solved)
	}
	if resp.Solved.Value <= 0 || resp.Solved.Value > 8 {
		t.Fatalf("solved water level %f outside (0, 8]", resp.Solved.Value)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		want   string
	}{
		{
			name:   "malformed json",
			body:   `{"profile":`,
			status: http.StatusBadRequest,
			want:   "invalid request body",
		},
		{
			name:   "unknown field",
			body:   `{"profile":"rectangle","height":8,"bogus":1}`,
			status: http.StatusBadRequest,
			want:   "invalid request body",
		},
		{
			name:   "missing crest width",
			body:   `{"profile":"trapezoid","base_width":10,"height":8,"water_level":6}`,
			status: http.StatusBadRequest,
			want:   "crest_width",
		},
		{
			name:   "water above crest",
			body:   `{"profile":"rectangle","base_width":10,"height":8,"water_level":9}`,
			status: http.StatusBadRequest,
			want:   "water_level",
		},
		{
			name:   "unknown profile",
			body:   `{"profile":"arch","base_width":10,"height":8,"water_level":6}`,
			status: http.StatusBadRequest,
			want:   "profile",
		},
		{
			name: "degenerate friction solve",
			body: `{"profile":"rectangle","base_width":10,"height":8,"water_level":6,
				"concrete_density":20,"water_density":10,"heel_uplift":16,"toe_uplift":16,
				"solve_for":"frictionCoefficient","target_safety_factor":1.5}`,
			status: http.StatusUnprocessableEntity,
			want:   "degenerate",
		},
		{
			name:   "dimensions overflow",
			body:   `{"profile":"rectangle","base_width":1e200,"height":1e200,"water_level":1e200}`,
			status: http.StatusUnprocessableEntity,
			want:   "finite",
		},
		{
			name:   "target too large to represent",
			body:   `{"profile":"rectangle","base_width":10,"height":8,"solve_for":"waterLevel","target_safety_factor":1e400}`,
			status: http.StatusBadRequest,
			want:   "invalid request body",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := New(Config{}, nil)
			rr := executeRequest(s, http.MethodPost, "/api/v1/stability", tc.body)

			if rr.Code != tc.status {
				t.Fatalf("expected status %d, got %d: %s", tc.status, rr.Code, rr.Body.String())
			}
			body := decodeError(t, rr)
			if !strings.Contains(body.Error, tc.want) {
				t.Fatalf("expected error containing %q, got %q", tc.want, body.Error)
			}
		})
	}
}

func TestWriteJSONEncodingFailureSendsNothing(t *testing.T) {
	rr := httptest.NewRecorder()
	err := writeJSON(rr, http.StatusOK, map[string]float64{"fs": math.NaN()})

	if err == nil {
		t.Fatal("expected an encoding error")
	}
	if rr.Body.Len() != 0 {
		t.Fatalf("expected an empty body, got %q", rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "" {
		t.Fatalf("expected no headers to be set, got Content-Type %q", ct)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	writeError(rr, req, http.StatusInternalServerError, "encoding response failed")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected the fallback status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
}

func TestReport(t *testing.T) {
	s := New(Config{}, nil)
	body := `{"meta":{"project":"Lower Weir","author":"QA"},"case":` + referenceCase + `}`
	rr := executeRequest(s, http.MethodPost, "/api/v1/stability/report", body)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "reference.pdf") {
		t.Fatalf("unexpected Content-Disposition %q", cd)
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF-")) {
		t.Fatal("body is not a PDF")
	}
}

func TestReportRejectsInvalidCase(t *testing.T) {
	s := New(Config{}, nil)
	body := `{"meta":{},"case":{"profile":"triangle","base_width":-1,"height":8,"water_level":6}}`
	rr := executeRequest(s, http.MethodPost, "/api/v1/stability/report", body)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	decodeError(t, rr)
}

func TestMetrics(t *testing.T) {
	s := New(Config{}, nil)
	executeRequest(s, http.MethodPost, "/api/v1/stability", referenceCase)
	executeRequest(s, http.MethodPost, "/api/v1/stability", `{"profile":`)

	rr := executeRequest(s, http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	out := rr.Body.String()
	for _, want := range []string{
		`gravdam_analyses_total{profile="rectangle",verdict="safe"} 1`,
		`gravdam_analysis_errors_total{kind="decode"} 1`,
		`gravdam_http_requests_total{method="POST",route="/api/v1/stability",status="200"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestRateLimit(t *testing.T) {
	s := New(Config{RateLimit: 0.001, Burst: 1}, nil)

	first := executeRequest(s, http.MethodPost, "/api/v1/stability", referenceCase)
	if first.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", first.Code)
	}

	second := executeRequest(s, http.MethodPost, "/api/v1/stability", referenceCase)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status %d, got %d", http.StatusTooManyRequests, second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
	decodeError(t, second)

	// health is outside the limited group
	if rr := executeRequest(s, http.MethodGet, "/healthz", ""); rr.Code != http.StatusOK {
		t.Fatalf("expected health to bypass the limiter, got %d", rr.Code)
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/nope", http.StatusNotFound},
		{http.MethodGet, "/api/v1/stability", http.StatusMethodNotAllowed},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rr := executeRequest(New(Config{}, nil), tc.method, tc.path, "")
			if rr.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, rr.Code)
			}
			decodeError(t, rr)
		})
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"valid uuid kept", "6f1c1c4e-3b8a-4c39-9d0e-2f7a8b5e4d21", true},
		{"garbage replaced", "not-a-uuid", false},
		{"missing minted", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			if tc.incoming != "" {
				req.Header.Set(RequestIDHeader, tc.incoming)
			}
			rr := httptest.NewRecorder()
			New(Config{}, nil).ServeHTTP(rr, req)

			got := rr.Header().Get(RequestIDHeader)
			if tc.keep && got != tc.incoming {
				t.Fatalf("expected %q to be kept, got %q", tc.incoming, got)
			}
			if !tc.keep && got == tc.incoming {
				t.Fatalf("expected %q to be replaced", tc.incoming)
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Fatalf("expected a UUID, got %q", got)
			}
		})
	}
}

func TestRecoverPanics(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	s := New(Config{}, zap.New(core))

	h := requestID(s.recoverPanics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	decodeError(t, rr)

	entries := logs.FilterMessage("handler panic").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 panic log entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["panic"] != "boom" {
		t.Fatalf("unexpected panic field %#v", entries[0].ContextMap()["panic"])
	}
}

func TestLogRequestsWritesCompletionLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := New(Config{}, zap.New(core))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/stability", strings.NewReader(referenceCase))
	req.Header.Set(RequestIDHeader, "6f1c1c4e-3b8a-4c39-9d0e-2f7a8b5e4d21")
	s.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("request completed").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["method"] != http.MethodPost {
		t.Fatalf("expected method %q, got %#v", http.MethodPost, fields["method"])
	}
	if fields["path"] != "/api/v1/stability" {
		t.Fatalf("expected path %q, got %#v", "/api/v1/stability", fields["path"])
	}
	if fields["status"] != int64(http.StatusOK) {
		t.Fatalf("expected status %d, got %#v", http.StatusOK, fields["status"])
	}
	if fields["request_id"] != "6f1c1c4e-3b8a-4c39-9d0e-2f7a8b5e4d21" {
		t.Fatalf("unexpected request_id %#v", fields["request_id"])
	}
}

func TestRejectionLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := New(Config{}, zap.New(core))

	executeRequest(s, http.MethodPost, "/api/v1/stability", `{"profile":"rectangle","height":8}`)

	entries := logs.FilterMessage("analysis rejected").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 rejection entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["kind"] != "validation" {
		t.Fatalf("expected kind validation, got %#v", entries[0].ContextMap()["kind"])
	}
}
