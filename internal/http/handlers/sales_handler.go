package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"stockledger/internal/log"
	"stockledger/internal/services"
	"stockledger/internal/validate"
)

type SalesHandler struct {
	Ledger *services.LedgerService
}

func (h *SalesHandler) List(c *fiber.Ctx) error {
	u := currentUser(c)
	sales, err := h.Ledger.ListSales(u.ID)
	if err != nil {
		return err
	}
	items, err := h.Ledger.ListItems(u.ID)
	if err != nil {
		return err
	}
	buyers, err := h.Ledger.ListBuyers(u.ID)
	if err != nil {
		return err
	}

	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	filtered := sales[:0:0]
	var total float64
	for _, s := range sales {
		if q != "" &&
			!strings.Contains(strings.ToLower(s.ProductName), q) &&
			!strings.Contains(strings.ToLower(s.BuyerName), q) &&
			!strings.Contains(strings.ToLower(s.Category), q) {
			continue
		}
		filtered = append(filtered, s)
		total += s.TotalPrice
	}

	// Only items still in stock are offered in the record-sale form.
	available := items[:0:0]
	for _, it := range items {
		if it.Quantity > 0 {
			available = append(available, it)
		}
	}

	return render(c, "sales", fiber.Map{
		"Sales":  filtered,
		"Items":  available,
		"Buyers": buyers,
		"Total":  total,
		"Query":  c.Query("q"),
		"Err":    c.Query("err"),
	})
}

func (h *SalesHandler) Add(c *fiber.Ctx) error {
	u := currentUser(c)

	productID, okP := validate.ID(c.FormValue("productId"))
	qty, okQ := validate.Qty(c.FormValue("quantity"))
	price, okPr := validate.Price(c.FormValue("pricePerUnit"))
	if !okP || !okQ || !okPr {
		return redirectErr(c, "/sales", "Please fill in required fields")
	}

	sale, err := h.Ledger.RecordSale(u.ID, productID, qty, price, services.BuyerFields{
		Name:     strings.TrimSpace(c.FormValue("buyerName")),
		Location: strings.TrimSpace(c.FormValue("buyerLocation")),
		Phone:    strings.TrimSpace(c.FormValue("buyerPhone")),
		Email:    strings.TrimSpace(c.FormValue("buyerEmail")),
	})
	if err != nil {
		log.Error(c, "sales.record.fail", err, map[string]any{"productId": productID})
		return redirectErr(c, "/sales", userMessage(err))
	}

	log.Audit(c, "sales.record", map[string]any{"saleId": sale.ID, "productId": productID, "total": sale.TotalPrice})
	return c.Redirect("/sales")
}

func (h *SalesHandler) Delete(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Redirect("/sales")
	}
	if err := h.Ledger.DeleteSale(u.ID, id); err != nil {
		log.Error(c, "sales.delete.fail", err, map[string]any{"saleId": id})
		return redirectErr(c, "/sales", userMessage(err))
	}
	log.Audit(c, "sales.delete", map[string]any{"saleId": id})
	return c.Redirect("/sales")
}
