package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"go.uber.org/zap"

	"github.com/alexiusacademia/gravdam/internal/casefile"
	"github.com/alexiusacademia/gravdam/internal/geometry"
	"github.com/alexiusacademia/gravdam/internal/report"
	"github.com/alexiusacademia/gravdam/internal/stability"
)

const maxBodyBytes = 1 << 20

// AnalysisResponse is the body of a successful POST /api/v1/stability.
type AnalysisResponse struct {
	Name    string           `json:"name,omitempty"`
	Verdict stability.Rating `json:"verdict"`
	*stability.Results
	Warnings []string `json:"warnings,omitempty"`
}

// ReportRequest is the body of POST /api/v1/stability/report.
type ReportRequest struct {
	Meta report.Meta   `json:"meta"`
	Case casefile.Case `json:"case"`
}

func health(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// analyze handles POST /api/v1/stability
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	c, err := casefile.Decode(http.MaxBytesReader(w, r.Body, maxBodyBytes), casefile.JSON)
	if err != nil {
		s.reject(w, r, http.StatusBadRequest, "decode", "invalid request body", err)
		return
	}

	_, res, ok := s.run(w, r, c)
	if !ok {
		return
	}

	resp := AnalysisResponse{Name: c.Name, Verdict: res.Verdict(), Results: res}
	for _, cond := range res.Conditions {
		resp.Warnings = append(resp.Warnings, cond.Describe())
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		s.reject(w, r, http.StatusInternalServerError, "encode", "encoding response failed", err)
	}
}

// report handles POST /api/v1/stability/report
func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.reject(w, r, http.StatusBadRequest, "decode", "invalid request body", err)
		return
	}

	in, res, ok := s.run(w, r, &req.Case)
	if !ok {
		return
	}

	meta := req.Meta
	if meta.Case == "" {
		meta.Case = req.Case.Name
	}
	var buf bytes.Buffer
	if err := report.Write(&buf, meta, in, res); err != nil {
		s.reject(w, r, http.StatusInternalServerError, "report", "report generation failed", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", reportFilename(req.Case.Name)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// run validates the case and evaluates it, writing the error response
// itself on failure.
func (s *Server) run(w http.ResponseWriter, r *http.Request, c *casefile.Case) (stability.Inputs, *stability.Results, bool) {
	in, err := c.Inputs(s.cfg.Defaults)
	if err != nil {
		status, kind := classify(err)
		s.reject(w, r, status, kind, err.Error(), err)
		return in, nil, false
	}

	res, err := stability.CalculateStability(in)
	if err != nil {
		status, kind := classify(err)
		s.reject(w, r, status, kind, err.Error(), err)
		return in, nil, false
	}

	s.metrics.analyses.WithLabelValues(in.Profile.String(), string(res.Verdict())).Inc()
	if res.Solved != nil && res.Solved.Method == stability.MethodBisection {
		s.metrics.solverIterations.Observe(float64(res.Solved.Iterations))
	}
	for _, cond := range res.Conditions {
		s.logger.Debug("analysis condition",
			zap.String("condition", string(cond)),
			zap.String("request_id", RequestIDFromContext(r.Context())),
		)
	}
	return in, res, true
}

func (s *Server) reject(w http.ResponseWriter, r *http.Request, status int, kind, msg string, err error) {
	s.metrics.errors.WithLabelValues(kind).Inc()

	log := s.logger.Warn
	if status >= http.StatusInternalServerError {
		log = s.logger.Error
	}
	log("analysis rejected",
		zap.String("kind", kind),
		zap.Int("status", status),
		zap.Error(err),
		zap.String("request_id", RequestIDFromContext(r.Context())),
	)

	if status == http.StatusBadRequest && kind == "decode" {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	writeError(w, r, status, msg)
}

// classify maps an error to a status code and a metrics label.
// Validation failures are the client's input; construction errors are
// well-formed inputs the engine cannot evaluate.
func classify(err error) (int, string) {
	var ve *stability.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, geometry.ErrMissingDimension),
		errors.Is(err, geometry.ErrUnsupportedProfile),
		errors.Is(err, stability.ErrInvalidTarget),
		errors.Is(err, stability.ErrDegenerateReaction),
		errors.Is(err, stability.ErrNoWaterLoad),
		errors.Is(err, stability.ErrUnknownParameter),
		errors.Is(err, stability.ErrNonFiniteResult):
		return http.StatusUnprocessableEntity, "construction"
	}
	return http.StatusInternalServerError, "internal"
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func reportFilename(name string) string {
	name = unsafeFilename.ReplaceAllString(name, "-")
	if name == "" || name == "-" {
		name = "stability"
	}
	return name + ".pdf"
}
