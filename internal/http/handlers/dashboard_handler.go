package handlers

import (
	"github.com/gofiber/fiber/v2"

	"stockledger/internal/services"
)

type DashboardHandler struct {
	Reports *services.ReportService
}

func (h *DashboardHandler) Home(c *fiber.Ctx) error {
	u := currentUser(c)
	stats, err := h.Reports.Stats(u.ID)
	if err != nil {
		return err
	}
	return render(c, "dashboard", fiber.Map{"Stats": stats})
}
