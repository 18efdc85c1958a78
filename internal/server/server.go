// Package server exposes dashboard sessions over an HTTP JSON API.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
	"github.com/KaramelBytes/dataloom-cli/internal/session"
)

// Options configures the HTTP layer.
type Options struct {
	Addr          string
	MaxUploadMB   int
	DefaultSample string
	Load          dataset.LoadOptions
}

// Server wires the session store into a fiber app.
type Server struct {
	app   *fiber.App
	store *session.Store
	opts  Options
}

// New builds the app and registers every route.
func New(store *session.Store, opts Options) *Server {
	if opts.MaxUploadMB < 1 {
		opts.MaxUploadMB = 32
	}
	if opts.DefaultSample == "" {
		opts.DefaultSample = dataset.DefaultSample
	}
	app := fiber.New(fiber.Config{
		AppName:               "dataloom",
		BodyLimit:             opts.MaxUploadMB * 1024 * 1024,
		DisableStartupMessage: true,
		UnescapePath:          true,
		ErrorHandler:          errorHandler,
	})
	s := &Server{app: app, store: store, opts: opts}

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(requestLogger())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/health", s.health)
	s.app.Get("/charts", s.charts)
	s.app.Get("/samples", s.samples)
	s.app.Post("/sessions", s.createSession)

	sp := func(suffix string) string { return "/sessions/:id" + suffix }
	s.app.Delete(sp(""), s.withSession, s.deleteSession)
	s.app.Post(sp("/dataset"), s.withSession, s.uploadDataset)
	s.app.Post(sp("/sample"), s.withSession, s.loadSample)
	s.app.Get(sp("/filters"), s.withSession, s.getFilters)
	s.app.Put(sp("/filters"), s.withSession, s.setFilters)
	s.app.Get(sp("/view"), s.withSession, s.view)
	s.app.Get(sp("/options/:column"), s.withSession, s.options)
	s.app.Post(sp("/chart"), s.withSession, s.chart)
	s.app.Get(sp("/stats"), s.withSession, s.stats)
	s.app.Get(sp("/export"), s.withSession, s.export)
}

// App returns the underlying fiber app, mainly for app.Test in tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Listen(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.opts.Addr).Msg("dataloom listening")
		errCh <- s.app.Listen(s.opts.Addr)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
}
