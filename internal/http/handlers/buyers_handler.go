package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"stockledger/internal/domain"
	"stockledger/internal/log"
	"stockledger/internal/services"
	"stockledger/internal/validate"
)

type BuyersHandler struct {
	Ledger *services.LedgerService
}

func (h *BuyersHandler) List(c *fiber.Ctx) error {
	u := currentUser(c)
	buyers, err := h.Ledger.ListBuyers(u.ID)
	if err != nil {
		return err
	}

	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	filtered := buyers[:0:0]
	for _, b := range buyers {
		if q != "" &&
			!strings.Contains(strings.ToLower(b.Name), q) &&
			!strings.Contains(strings.ToLower(b.Location), q) &&
			!strings.Contains(b.Phone, q) &&
			!strings.Contains(strings.ToLower(b.Email), q) {
			continue
		}
		filtered = append(filtered, b)
	}

	return render(c, "buyers", fiber.Map{
		"Buyers": filtered,
		"Query":  c.Query("q"),
		"Err":    c.Query("err"),
	})
}

func buyerFromForm(c *fiber.Ctx) domain.BuyerRecord {
	return domain.BuyerRecord{
		Name:     strings.TrimSpace(c.FormValue("name")),
		Location: strings.TrimSpace(c.FormValue("location")),
		Phone:    strings.TrimSpace(c.FormValue("phone")),
		Email:    strings.TrimSpace(c.FormValue("email")),
	}
}

func (h *BuyersHandler) Add(c *fiber.Ctx) error {
	u := currentUser(c)
	rec := buyerFromForm(c)
	if rec.Email != "" {
		if _, ok := validate.Email(rec.Email); !ok {
			return redirectErr(c, "/buyers", "Please enter a valid email")
		}
	}
	if rec.Phone != "" {
		if _, ok := validate.Phone(rec.Phone); !ok {
			return redirectErr(c, "/buyers", "Please enter a valid phone number")
		}
	}

	saved, err := h.Ledger.AddBuyer(u.ID, rec)
	if err != nil {
		log.Error(c, "buyers.add.fail", err, nil)
		return redirectErr(c, "/buyers", userMessage(err))
	}
	log.Audit(c, "buyers.add", map[string]any{"buyerId": saved.ID})
	return c.Redirect("/buyers")
}

func (h *BuyersHandler) Update(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Redirect("/buyers")
	}
	if err := h.Ledger.UpdateBuyer(u.ID, id, buyerFromForm(c)); err != nil {
		log.Error(c, "buyers.update.fail", err, map[string]any{"buyerId": id})
		return redirectErr(c, "/buyers", userMessage(err))
	}
	log.Audit(c, "buyers.update", map[string]any{"buyerId": id})
	return c.Redirect("/buyers")
}

func (h *BuyersHandler) Delete(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Redirect("/buyers")
	}
	if err := h.Ledger.DeleteBuyer(u.ID, id); err != nil {
		log.Error(c, "buyers.delete.fail", err, map[string]any{"buyerId": id})
		return redirectErr(c, "/buyers", userMessage(err))
	}
	log.Audit(c, "buyers.delete", map[string]any{"buyerId": id})
	return c.Redirect("/buyers")
}
