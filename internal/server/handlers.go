package server

import (
	"bytes"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/KaramelBytes/dataloom-cli/internal/chart"
	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
	"github.com/KaramelBytes/dataloom-cli/internal/export"
	"github.com/KaramelBytes/dataloom-cli/internal/filter"
	"github.com/KaramelBytes/dataloom-cli/internal/logging"
)

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"service":  "dataloom",
		"sessions": s.store.Len(),
	})
}

func (s *Server) charts(c *fiber.Ctx) error {
	return c.JSON(chart.Requirements())
}

func (s *Server) samples(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"samples": dataset.SampleNames(), "default": s.opts.DefaultSample})
}

func (s *Server) createSession(c *fiber.Ctx) error {
	sess := s.store.Create()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": sess.ID, "created_at": sess.CreatedAt})
}

func (s *Server) deleteSession(c *fiber.Ctx) error {
	s.store.Delete(current(c).ID)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) uploadDataset(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "No file uploaded")
	}
	f, err := fh.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	defer f.Close()

	load := s.opts.Load
	if sheet := c.FormValue("sheet"); sheet != "" {
		load.Sheet = sheet
	}
	ds, err := dataset.Load(fh.Filename, f, load)
	if err != nil {
		return err
	}
	sess := current(c)
	sess.SetDataset(ds)
	return s.respondView(c)
}

func (s *Server) loadSample(c *fiber.Ctx) error {
	name := c.Query("name", s.opts.DefaultSample)
	if err := current(c).LoadSample(name); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return s.respondView(c)
}

func (s *Server) getFilters(c *fiber.Ctx) error {
	return c.JSON(current(c).Filters())
}

func (s *Server) setFilters(c *fiber.Ctx) error {
	var spec filter.Spec
	if err := c.BodyParser(&spec); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid filter spec: "+err.Error())
	}
	if err := current(c).SetFilters(spec); err != nil {
		return err
	}
	return s.respondView(c)
}

func (s *Server) view(c *fiber.Ctx) error {
	return s.respondView(c)
}

// respondView returns the preview of the current view. An empty view still
// carries its preview next to the warning.
func (s *Server) respondView(c *fiber.Ctx) error {
	p, err := current(c).Preview()
	if errors.Is(err, filter.ErrEmptyView) && p != nil {
		logging.LogWarn("empty view", map[string]interface{}{
			"session":   current(c).ID,
			"dataset":   p.Dataset,
			"row_limit": p.Filters.RowLimit,
		})
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"warning": err.Error(), "view": p})
	}
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (s *Server) options(c *fiber.Ctx) error {
	column := c.Params("column")
	values, err := current(c).CategoryOptions(column)
	if err != nil {
		if statusOf(err) == fiber.StatusInternalServerError {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}
	if values == nil {
		values = []string{}
	}
	return c.JSON(fiber.Map{"column": column, "values": values})
}

type chartBody struct {
	Kind    string `json:"kind"`
	X       string `json:"x"`
	Y       string `json:"y"`
	GroupBy string `json:"group_by"`
}

func (s *Server) chart(c *fiber.Ctx) error {
	var body chartBody
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid chart request: "+err.Error())
	}
	kind, err := chart.ParseKind(body.Kind)
	if err != nil {
		kind = chart.Kind(body.Kind)
	}
	res, err := current(c).Chart(chart.Request{Kind: kind, X: body.X, Y: body.Y, GroupBy: body.GroupBy})
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (s *Server) stats(c *fiber.Ctx) error {
	sess := current(c)
	sum, err := sess.Stats()
	if err != nil {
		return err
	}
	resp := fiber.Map{"summary": sum}
	if len(sum.Numeric) >= 2 {
		corr, err := sess.Correlation()
		if err != nil {
			return err
		}
		resp["correlation"] = corr
	}
	return c.JSON(resp)
}

func (s *Server) export(c *fiber.Ctx) error {
	format := export.Format(c.Query("format", string(export.FormatCSV)))
	ex, err := export.New(format)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	var buf bytes.Buffer
	name, err := current(c).Export(format, &buf, time.Now())
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, ex.ContentType())
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(buf.Bytes())
}
