package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug lines to a
// charmbracelet logger. The serve command installs it when --verbose is set.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks writing to logger, or to log.Default() when nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger}
}

// Install registers h for all hook categories.
func (h *LogHooks) Install() {
	SetFunctionHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnInvokeStart(_ context.Context, name string) {
	h.logger.Debug("function start", "fn", name)
}

func (h *LogHooks) OnInvokeComplete(_ context.Context, name string, status int, d time.Duration) {
	h.logger.Debug("function done", "fn", name, "status", status, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnModelCall(_ context.Context, provider, model string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("model call failed", "provider", provider, "model", model, "err", err)
		return
	}
	h.logger.Debug("model call", "provider", provider, "model", model, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, ns string)  { h.logger.Debug("cache hit", "ns", ns) }
func (h *LogHooks) OnCacheMiss(_ context.Context, ns string) { h.logger.Debug("cache miss", "ns", ns) }
func (h *LogHooks) OnCacheSet(_ context.Context, ns string, size int) {
	h.logger.Debug("cache set", "ns", ns, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, code int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", code, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("http error", "method", method, "host", host, "path", path, "err", err)
}

var (
	_ FunctionHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
