package functions

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/campaigncanvas/pkg/ai"
	"github.com/matzehuels/campaigncanvas/pkg/config"
	cerrors "github.com/matzehuels/campaigncanvas/pkg/errors"
	"github.com/matzehuels/campaigncanvas/pkg/fetch"
	"github.com/matzehuels/campaigncanvas/pkg/observability"
)

// Function names, used as the last path segment of each endpoint.
const (
	ExtractColors    = "extract-colors"
	AnalyzeSentiment = "analyze-sentiment"
	ExtractTable     = "extract-table"
	ScrapeURL        = "scrape-url"
	SummarizeYouTube = "summarize-youtube"
)

// Func handles one decoded invocation. body is the raw request JSON.
type Func func(ctx context.Context, body []byte) (any, error)

// Service holds the collaborators shared by all functions.
type Service struct {
	model   ai.Completer
	fetcher *fetch.Client
	cfg     config.Functions
	origin  string
	logger  *log.Logger
	funcs   map[string]Func
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option { return func(s *Service) { s.logger = l } }

// WithAllowOrigin sets the Access-Control-Allow-Origin value. Defaults to "*".
func WithAllowOrigin(origin string) Option { return func(s *Service) { s.origin = origin } }

// New creates a Service. model answers the AI-backed functions and fetcher
// performs page and oEmbed requests.
func New(model ai.Completer, fetcher *fetch.Client, cfg config.Functions, opts ...Option) *Service {
	s := &Service{
		model:   model,
		fetcher: fetcher,
		cfg:     cfg,
		origin:  "*",
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.funcs = map[string]Func{
		ExtractColors:    s.extractColors,
		AnalyzeSentiment: s.analyzeSentiment,
		ExtractTable:     s.extractTable,
		ScrapeURL:        s.scrapeURL,
		SummarizeYouTube: s.summarizeYouTube,
	}
	return s
}

// Names returns the registered function names in sorted order.
func (s *Service) Names() []string {
	names := make([]string, 0, len(s.funcs))
	for name := range s.funcs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Invoke runs a function directly, bypassing HTTP. The CLI uses it.
func (s *Service) Invoke(ctx context.Context, name string, body []byte) (any, error) {
	fn, ok := s.funcs[name]
	if !ok {
		return nil, cerrors.New(cerrors.ErrCodeNotFound, "unknown function %q", name)
	}
	return fn(ctx, body)
}

// Handler returns the HTTP handler for the named function.
func (s *Service) Handler(name string) (http.Handler, bool) {
	fn, ok := s.funcs[name]
	if !ok {
		return nil, false
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.serve(w, r, name, fn)
	}), true
}

func (s *Service) serve(w http.ResponseWriter, r *http.Request, name string, fn Func) {
	s.setCORS(w)
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPost:
	default:
		w.Header().Set("Allow", "POST, OPTIONS")
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
		return
	}

	ctx := r.Context()
	hooks := observability.Functions()
	hooks.OnInvokeStart(ctx, name)
	start := time.Now()

	status, payload := s.run(ctx, w, r, name, fn)
	writeJSON(w, status, payload)
	hooks.OnInvokeComplete(ctx, name, status, time.Since(start))
}

func (s *Service) run(ctx context.Context, w http.ResponseWriter, r *http.Request, name string, fn Func) (int, any) {
	limit := s.cfg.MaxBodyBytes
	if limit <= 0 {
		limit = config.Default().Functions.MaxBodyBytes
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return http.StatusRequestEntityTooLarge, errorBody{Error: "request body too large"}
		}
		return http.StatusBadRequest, errorBody{Error: "could not read request body"}
	}

	out, err := fn(ctx, body)
	if err != nil {
		status := cerrors.HTTPStatus(err)
		msg := publicMessage(err, status)
		if status >= 500 {
			s.logger.Error("function failed", "fn", name, "err", err)
		} else {
			s.logger.Warn("function rejected request", "fn", name, "status", status, "err", err)
		}
		return status, errorBody{Error: msg}
	}
	return http.StatusOK, out
}

// publicMessage hides internal details of uncoded failures.
func publicMessage(err error, status int) string {
	if cerrors.GetCode(err) == "" {
		return "internal error"
	}
	if status >= 500 && cerrors.Is(err, cerrors.ErrCodeParseFailed) {
		return "Failed to parse AI response"
	}
	return cerrors.UserMessage(err)
}

func (s *Service) setCORS(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", s.origin)
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode unmarshals body into v, mapping syntax errors to INVALID_INPUT.
func decode(body []byte, v any) error {
	if len(strings.TrimSpace(string(body))) == 0 {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "request body is required")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "invalid JSON body")
	}
	return nil
}

// wrapFetch converts fetch failures into coded errors.
func wrapFetch(err error, rawURL string) error {
	if errors.Is(err, fetch.ErrBlockedAddress) {
		return cerrors.Wrap(cerrors.ErrCodeInvalidURL, err, "URL must point to a public address")
	}
	if errors.Is(err, fetch.ErrNotFound) {
		return cerrors.Wrap(cerrors.ErrCodeUpstream, err, "page not found: %s", rawURL)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return cerrors.Wrap(cerrors.ErrCodeUpstream, err, "timed out fetching %s", rawURL)
	}
	return cerrors.Wrap(cerrors.ErrCodeUpstream, err, "failed to fetch %s", rawURL)
}
