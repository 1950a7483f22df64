package handlers

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"stockledger/internal/log"
	"stockledger/internal/services"
)

type ExportHandler struct {
	Reports *services.ReportService
}

func (h *ExportHandler) Page(c *fiber.Ctx) error {
	return render(c, "export", fiber.Map{})
}

// CSV streams one collection as a downloadable file, e.g.
// stock_export_2026-08-29.csv.
func (h *ExportHandler) CSV(c *fiber.Ctx) error {
	u := currentUser(c)
	collection := c.Params("collection")

	var buf bytes.Buffer
	if err := h.Reports.WriteCSV(&buf, u.ID, collection); err != nil {
		log.Error(c, "export.csv.fail", err, map[string]any{"collection": collection})
		return c.Status(fiber.StatusBadRequest).SendString("unknown report")
	}

	name := fmt.Sprintf("%s_export_%s.csv", collection, time.Now().UTC().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	log.Audit(c, "export.csv", map[string]any{"collection": collection})
	return c.Send(buf.Bytes())
}

// Print renders the collection as a standalone page styled for printing.
func (h *ExportHandler) Print(c *fiber.Ctx) error {
	u := currentUser(c)
	collection := c.Params("collection")

	table, err := h.Reports.BuildTable(u.ID, collection)
	if err != nil {
		log.Error(c, "export.print.fail", err, map[string]any{"collection": collection})
		return c.Status(fiber.StatusBadRequest).SendString("unknown report")
	}

	log.Audit(c, "export.print", map[string]any{"collection": collection})
	return render(c, "print_report", fiber.Map{
		"Table":     table,
		"Generated": time.Now().UTC().Format("2006-01-02"),
	})
}
