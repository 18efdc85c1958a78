package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
	"github.com/KaramelBytes/dataloom-cli/internal/filter"
	"github.com/KaramelBytes/dataloom-cli/internal/session"
)

const sessionKey = "session"

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			status = statusOf(err)
		}
		var event *zerolog.Event
		switch {
		case status >= 500:
			event = log.Error().Err(err)
		case status >= 400:
			event = log.Warn()
		default:
			event = log.Debug()
		}
		event.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}

func (s *Server) withSession(c *fiber.Ctx) error {
	sess, err := s.store.Get(c.Params("id"))
	if err != nil {
		return err
	}
	c.Locals(sessionKey, sess)
	return c.Next()
}

func current(c *fiber.Ctx) *session.Session {
	return c.Locals(sessionKey).(*session.Session)
}

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	var fe *fiber.Error
	var le *dataset.LoadError
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, session.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, session.ErrNoDataset):
		return fiber.StatusConflict
	case errors.Is(err, dataset.ErrEmptyDataset), errors.Is(err, filter.ErrEmptyView):
		return fiber.StatusUnprocessableEntity
	case errors.As(err, &le), errors.Is(err, dataset.ErrUnsupported):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := statusOf(err)
	if code == fiber.StatusUnprocessableEntity {
		return c.Status(code).JSON(fiber.Map{"warning": err.Error()})
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
