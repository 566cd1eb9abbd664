package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/campaigncanvas/pkg/buildinfo"
	"github.com/matzehuels/campaigncanvas/pkg/canvas"
	cerrors "github.com/matzehuels/campaigncanvas/pkg/errors"
	"github.com/matzehuels/campaigncanvas/pkg/geometry"
	"github.com/matzehuels/campaigncanvas/pkg/render"
	"github.com/matzehuels/campaigncanvas/pkg/store"
)

// maxBoardBytes bounds PUT bodies.
const maxBoardBytes = 16 << 20

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// fail maps err to a status. Store misses become 404; coded errors use
// their own status; anything else is logged and hidden behind a 500.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "board not found")
	case cerrors.GetCode(err) != "":
		status := cerrors.HTTPStatus(err)
		if status >= 500 {
			log.FromContext(r.Context()).Error("request failed", "err", err)
		}
		writeError(w, status, cerrors.UserMessage(err))
	default:
		log.FromContext(r.Context()).Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleFunction(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if s.fns == nil {
		writeError(w, http.StatusNotFound, "functions are not enabled")
		return
	}
	h, ok := s.fns.Handler(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown function %q", name))
		return
	}
	h.ServeHTTP(w, r)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context(), chi.URLParam(r, "tenant"))
	if err != nil {
		fail(w, r, err)
		return
	}
	if list == nil {
		list = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"boards": list})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	b, err := s.load(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	tenant, id := chi.URLParam(r, "tenant"), chi.URLParam(r, "id")
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBoardBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}
	var b canvas.Board
	if err := json.Unmarshal(data, &b); err != nil {
		fail(w, r, cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "invalid board JSON"))
		return
	}
	if b.ID != "" && b.ID != id {
		fail(w, r, cerrors.New(cerrors.ErrCodeInvalidBoard, "board id %q does not match path id %q", b.ID, id))
		return
	}
	b.ID, b.Tenant = id, tenant
	b.UpdatedAt = time.Time{}

	if err := s.store.Put(r.Context(), &b); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, &b)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "tenant"), chi.URLParam(r, "id")); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEdges(w http.ResponseWriter, r *http.Request) {
	b, err := s.load(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	curvature, err := curvatureParam(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	edges := b.Route(curvature)
	if edges == nil {
		edges = []geometry.RoutedEdge{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"edges": edges})
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	b, err := s.load(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	q := r.URL.Query()
	opts := []render.SVGOption{}
	if name := q.Get("theme"); name != "" {
		theme, err := render.ThemeByName(name)
		if err != nil {
			fail(w, r, cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "unknown theme %q", name))
			return
		}
		opts = append(opts, render.WithTheme(theme))
	}
	curvature, err := curvatureParam(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	opts = append(opts, render.WithCurvature(curvature))
	if q.Get("labels") == "false" {
		opts = append(opts, render.WithoutLabels())
	}

	var svg []byte
	if q.Get("layout") == "graphviz" {
		svg, err = render.RenderDOT(r.Context(), render.ToDOT(b))
		if err != nil {
			fail(w, r, cerrors.Wrap(cerrors.ErrCodeInternal, err, "graphviz render failed"))
			return
		}
	} else {
		svg = render.SVG(b, opts...)
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	b, err := s.load(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, render.ToDOT(b))
}

func (s *Server) load(r *http.Request) (*canvas.Board, error) {
	return s.store.Get(r.Context(), chi.URLParam(r, "tenant"), chi.URLParam(r, "id"))
}

// curvatureParam reads ?curvature=, falling back to the default.
func curvatureParam(r *http.Request) (float64, error) {
	raw := r.URL.Query().Get("curvature")
	if raw == "" {
		return geometry.DefaultCurvature, nil
	}
	c, err := strconv.ParseFloat(raw, 64)
	if err != nil || !(c >= 0 && c <= 10) {
		return 0, cerrors.New(cerrors.ErrCodeInvalidInput, "curvature must be a number between 0 and 10")
	}
	return c, nil
}
