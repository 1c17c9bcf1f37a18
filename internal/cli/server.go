package cli

import (
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/goliatone/go-formguard/pkg/form"
	"github.com/goliatone/go-formguard/pkg/page"
	"github.com/goliatone/go-formguard/pkg/themes"
)

// previewServer serves the rendered page. It has no submission endpoint:
// validation happens client side or through the other commands.
type previewServer struct {
	renderer       *page.Renderer
	selector       *themes.Selector
	newForm        func() (*form.Form, error)
	values         map[string]string
	success        string
	defaultVariant string
	logger         *zap.Logger
}

func newPreviewRouter(s *previewServer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/toggle", s.handleToggle)
	r.Get("/assets/themes/{theme}/{file}", s.handleStylesheet)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

func (s *previewServer) handlePage(w http.ResponseWriter, r *http.Request) {
	variant, ok := s.variant(r)
	if !ok {
		http.Error(w, "unknown theme variant", http.StatusBadRequest)
		return
	}

	f, err := s.newForm()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	opts := page.Options{Variant: variant}
	if len(s.values) > 0 {
		opts.Success = submit(f, s.values, s.success)
	}

	html, err := s.renderer.Render(r.Context(), f, opts)
	if err != nil {
		s.logger.Error("render page", zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.Header().Set("Vary", "Sec-CH-Prefers-Color-Scheme")
	w.Header().Set("Accept-CH", "Sec-CH-Prefers-Color-Scheme")
	_, _ = w.Write(html)
}

func (s *previewServer) handleToggle(w http.ResponseWriter, r *http.Request) {
	variant, ok := s.variant(r)
	if !ok {
		http.Error(w, "unknown theme variant", http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/?variant="+themes.Toggle(variant), http.StatusSeeOther)
}

func (s *previewServer) handleStylesheet(w http.ResponseWriter, r *http.Request) {
	themeName := chi.URLParam(r, "theme")
	file := chi.URLParam(r, "file")

	for _, variant := range s.selector.Variants() {
		selection, err := s.selector.Select(themeName, variant)
		if err != nil {
			break
		}
		cfg := themes.RendererConfig(selection)
		if path.Base(cfg.AssetURL(themes.AssetStylesheet)) != file {
			continue
		}
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		_, _ = w.Write([]byte(page.Stylesheet(cfg)))
		return
	}
	http.NotFound(w, r)
}

// variant resolves the requested theme variant: the query parameter first,
// then the client colour-scheme hint, then the configured default.
func (s *previewServer) variant(r *http.Request) (string, bool) {
	variant := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("variant")))
	if variant == "" {
		if hint := r.Header.Get("Sec-CH-Prefers-Color-Scheme"); hint != "" {
			variant = themes.Preferred(strings.Trim(hint, `" `) == "dark")
		} else {
			variant = s.defaultVariant
		}
	}
	if _, err := s.selector.Select("", variant); err != nil {
		return "", false
	}
	return variant, true
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
