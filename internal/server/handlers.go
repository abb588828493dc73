package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/shelfplan/pkg/buildinfo"
	"github.com/matzehuels/shelfplan/pkg/errors"
	"github.com/matzehuels/shelfplan/pkg/pipeline"
	"github.com/matzehuels/shelfplan/pkg/plan"
	"github.com/matzehuels/shelfplan/pkg/site"
	"github.com/matzehuels/shelfplan/pkg/storage"
)

// createPlanRequest is the POST /v1/plans body. A missing site selects the
// default site; a partial site is merged over the defaults.
type createPlanRequest struct {
	Site    json.RawMessage  `json:"site,omitempty"`
	Options pipeline.Options `json:"options"`
}

// planListing is one entry of GET /v1/plans.
type planListing struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Site      string        `json:"site"`
	Zone      string        `json:"zone"`
	Strategy  site.Strategy `json:"strategy"`
	Summary   plan.Summary  `json:"summary"`
	Warnings  int           `json:"warnings,omitempty"`
}

type healthBody struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthBody{Status: "ok", Build: buildinfo.Current()})
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req createPlanRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && err != io.EOF {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	st, err := site.DecodeJSON(req.Site)
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts := req.Options
	opts.Logger = s.logger
	p, err := s.runner.Generate(ctx, st, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.SaveSite(ctx, p.SiteHash, st); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.Save(ctx, p); err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Location", "/v1/plans/"+p.ID)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := storage.ListOptions{Site: q.Get("site"), Zone: q.Get("zone")}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "limit must be a non-negative integer, got %q", v))
			return
		}
		opts.Limit = n
	}

	plans, err := s.store.List(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]planListing, len(plans))
	for i, p := range plans {
		out[i] = planListing{
			ID:        p.ID,
			CreatedAt: p.CreatedAt,
			Site:      p.Site,
			Zone:      p.Zone,
			Strategy:  p.Strategy,
			Summary:   p.Summarize(),
			Warnings:  len(p.Warnings),
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"plans": out})
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenderPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, err)
		return
	}
	opts, err := renderOptions(r, format)
	if err != nil {
		s.writeError(w, err)
		return
	}

	p, err := s.store.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	var st *site.Site
	if p.SiteHash != "" {
		st, err = s.store.GetSite(ctx, p.SiteHash)
		if err != nil && !errors.Is(err, errors.ErrCodeNotFound) {
			s.writeError(w, err)
			return
		}
	}

	opts.Logger = s.logger
	artifacts, err := s.runner.Render(ctx, p, st, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// renderOptions reads floor, scale, detailed and supports from the query.
func renderOptions(r *http.Request, format string) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{Formats: []string{format}}

	if v := q.Get("floor"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "floor must be an integer, got %q", v)
		}
		opts.Floor = n
	}
	if v := q.Get("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "scale must be a number, got %q", v)
		}
		opts.Scale = f
	}
	for name, dst := range map[string]*bool{
		"detailed":    &opts.Detailed,
		"no_supports": &opts.NoSupports,
	} {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s must be a boolean, got %q", name, v)
			}
			*dst = b
		}
	}
	return opts, nil
}

// statusOf maps error codes to HTTP status codes.
func statusOf(code errors.Code) int {
	switch code {
	case errors.ErrCodeLayoutInfeasible, errors.ErrCodeConstraintViolation:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidSite, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidStrategy, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeZoneNotFound, errors.ErrCodePlanNotFound,
		errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusOf(code)
	msg := errors.UserMessage(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
