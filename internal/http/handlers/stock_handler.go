package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"stockledger/internal/domain"
	"stockledger/internal/log"
	"stockledger/internal/services"
	"stockledger/internal/validate"
)

// Category and unit choices offered by the stock form.
var (
	stockCategories = []string{
		"Drinks", "Food", "Electronics", "Repair", "Hair",
		"Clothes", "Shoes", "Motor Vehicles", "General Service", "Others",
	}
	stockUnits = []string{"kg", "litres", "Number"}
)

type StockHandler struct {
	Ledger *services.LedgerService
}

func (h *StockHandler) List(c *fiber.Ctx) error {
	u := currentUser(c)
	items, err := h.Ledger.ListItems(u.ID)
	if err != nil {
		return err
	}

	// Search and category filtering are view concerns, applied here.
	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	cat := c.Query("category")
	filtered := items[:0:0]
	for _, it := range items {
		if q != "" &&
			!strings.Contains(strings.ToLower(it.ProductName), q) &&
			!strings.Contains(strings.ToLower(it.SupplierName), q) {
			continue
		}
		if cat != "" && it.Category != cat {
			continue
		}
		filtered = append(filtered, it)
	}

	return render(c, "stock", fiber.Map{
		"Items":      filtered,
		"Categories": stockCategories,
		"Units":      stockUnits,
		"Query":      c.Query("q"),
		"Filter":     cat,
		"Err":        c.Query("err"),
	})
}

func (h *StockHandler) Add(c *fiber.Ctx) error {
	u := currentUser(c)

	buying, okB := validate.Price(c.FormValue("buyingPrice"))
	selling, okS := validate.Price(c.FormValue("sellingPrice"))
	qty, okQ := validate.Count(c.FormValue("quantity"))
	if !okB || !okS || !okQ {
		return redirectErr(c, "/stock", "Please enter valid numbers for prices and quantity")
	}

	unit := c.FormValue("unit")
	if unit == "" {
		unit = "Number"
	}

	item, err := h.Ledger.AddItem(u.ID, domain.StockItem{
		ProductName:   strings.TrimSpace(c.FormValue("productName")),
		Category:      c.FormValue("category"),
		SupplierName:  strings.TrimSpace(c.FormValue("supplierName")),
		SupplierPhone: strings.TrimSpace(c.FormValue("supplierPhone")),
		SupplierEmail: strings.TrimSpace(c.FormValue("supplierEmail")),
		BuyingPrice:   buying,
		SellingPrice:  selling,
		Quantity:      qty,
		Unit:          unit,
	})
	if err != nil {
		log.Error(c, "stock.add.fail", err, nil)
		return redirectErr(c, "/stock", userMessage(err))
	}

	log.Audit(c, "stock.add", map[string]any{"itemId": item.ID, "product": item.ProductName})
	return c.Redirect("/stock")
}

func (h *StockHandler) Delete(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Redirect("/stock")
	}
	if err := h.Ledger.DeleteItem(u.ID, id); err != nil {
		log.Error(c, "stock.delete.fail", err, map[string]any{"itemId": id})
		return redirectErr(c, "/stock", userMessage(err))
	}
	log.Audit(c, "stock.delete", map[string]any{"itemId": id})
	return c.Redirect("/stock")
}
