// Package server exposes the preview pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz             liveness and build version
//	POST /v1/parse            Markdown body -> parsed elements and warnings
//	POST /v1/layout           Markdown body -> positioned elements
//	POST /v1/render?format=   Markdown body -> png, jpg, html or json
//
// Every response carries an X-Render-ID header.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/humblebanana/md2chat"
	"github.com/humblebanana/md2chat/errors"
	"github.com/humblebanana/md2chat/htmlout"
	"github.com/humblebanana/md2chat/internal/buildinfo"
	"github.com/humblebanana/md2chat/internal/config"
	"github.com/humblebanana/md2chat/markdown"
)

// RenderIDHeader names the response header carrying the request's id.
const RenderIDHeader = "X-Render-ID"

// Server serves the preview pipeline with shared config, fonts and assets.
type Server struct {
	cfg    *config.Config
	base   md2chat.RenderOptions
	assets *md2chat.Assets
	logger *log.Logger
	router chi.Router
}

// New builds a server. assets may be nil to disable product images.
func New(cfg *config.Config, assets *md2chat.Assets, logger *log.Logger) (*Server, error) {
	base, err := cfg.RenderOptions()
	if err != nil {
		return nil, err
	}
	if base.FontSet, err = md2chat.NewFontSet(base.Fonts); err != nil {
		return nil, err
	}
	base.Assets = assets
	base.Logger = logger

	s := &Server{cfg: cfg, base: base, assets: assets, logger: logger}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(renderID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/parse", s.handleParse)
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on the configured address until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

type ctxKey int

const renderIDKey ctxKey = 0

func renderID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set(RenderIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), renderIDKey, id)))
	})
}

func renderIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(renderIDKey).(string)
	return id
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"id", renderIDFrom(r.Context()),
			"elapsed", time.Since(start).Round(time.Millisecond),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

type parseResponse struct {
	WordCount          int                `json:"wordCount"`
	ReadingTimeMinutes int                `json:"readingTimeMinutes"`
	Elements           []markdown.Record  `json:"elements"`
	Warnings           []markdown.Warning `json:"warnings"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	text, err := readDocument(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p := md2chat.Build(text, md2chat.BuildOptions{Catalog: s.base.Catalog})
	warnings := markdown.Validate(text)
	if warnings == nil {
		warnings = []markdown.Warning{}
	}
	writeJSON(w, http.StatusOK, parseResponse{
		WordCount:          p.Document.WordCount,
		ReadingTimeMinutes: p.Document.ReadingTimeMinutes,
		Elements:           p.Records(),
		Warnings:           warnings,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	text, err := readDocument(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p := md2chat.Build(text, md2chat.BuildOptions{Catalog: s.base.Catalog})
	writeJSON(w, http.StatusOK, p.Snapshot())
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := strings.ToLower(q.Get("format"))
	if format == "" {
		format = "png"
	}
	if err := errors.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.optionsFrom(q.Get("theme"), q.Get("scale"), q.Get("bounds"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	text, err := readDocument(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	p := md2chat.Build(text, md2chat.BuildOptions{Catalog: opts.Catalog})
	var buf bytes.Buffer
	var contentType string
	switch format {
	case "json":
		contentType = "application/json"
		err = md2chat.EncodeJSON(&buf, p)
	case "html":
		contentType = "text/html; charset=utf-8"
		err = htmlout.Write(&buf, p, htmlout.Options{
			Theme: opts.Theme, ShowBounds: opts.ShowBounds,
			Clock: opts.Clock, Placeholder: opts.Placeholder,
		})
	default:
		contentType = "image/png"
		if format != "png" {
			contentType = "image/jpeg"
		}
		opts.Logger = s.logger.With("id", renderIDFrom(r.Context()))
		img, rerr := p.Rasterize(r.Context(), opts)
		if rerr != nil {
			err = rerr
			break
		}
		err = md2chat.EncodeImage(&buf, img, format)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// optionsFrom applies query overrides to the configured render options.
func (s *Server) optionsFrom(theme, scale, bounds string) (md2chat.RenderOptions, error) {
	opts := s.base
	if theme != "" {
		th, err := md2chat.ThemeByName(theme)
		if err != nil {
			return opts, err
		}
		opts.Theme = th
	}
	if scale != "" {
		f, err := strconv.ParseFloat(scale, 64)
		if err != nil || f <= 0 || f > 4 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "scale must be a number in (0, 4]")
		}
		opts.Scale = f
	}
	if bounds != "" {
		b, err := strconv.ParseBool(bounds)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "bounds must be a boolean")
		}
		opts.ShowBounds = b
	}
	return opts, nil
}

func readDocument(w http.ResponseWriter, r *http.Request) (string, error) {
	body := http.MaxBytesReader(w, r.Body, errors.MaxDocumentSize)
	data, err := io.ReadAll(body)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	text := string(data)
	if err := errors.ValidateDocument(text); err != nil {
		return "", err
	}
	return text, nil
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
	ID      string      `json:"id"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err), ID: renderIDFrom(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
