package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"stockledger/internal/domain"
	"stockledger/internal/repos"
)

// Items with this quantity or less count as low stock on the dashboard.
const lowStockThreshold = 5

// ReportService reads the three collections for dashboard aggregates, CSV
// exports and printable report tables. It never writes.
type ReportService struct {
	Stock  *repos.StockRepo
	Sales  *repos.SaleRepo
	Buyers *repos.BuyerRepo
}

func NewReportService(stock *repos.StockRepo, sales *repos.SaleRepo, buyers *repos.BuyerRepo) *ReportService {
	return &ReportService{Stock: stock, Sales: sales, Buyers: buyers}
}

func (s *ReportService) Stats(userID string) (domain.Stats, error) {
	var st domain.Stats

	items, err := s.Stock.List(userID)
	if err != nil {
		return st, err
	}
	for _, it := range items {
		st.StockValue += float64(it.Quantity) * it.SellingPrice
		if it.Quantity <= lowStockThreshold {
			st.LowStockItems++
		}
	}

	sales, err := s.Sales.List(userID)
	if err != nil {
		return st, err
	}
	for _, sale := range sales {
		st.SalesValue += sale.TotalPrice
	}

	buyers, err := s.Buyers.List(userID)
	if err != nil {
		return st, err
	}
	st.BuyerCount = len(buyers)
	return st, nil
}

// Table is a rendered report: a header row plus data rows, used by both the
// CSV export and the printable view.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// BuildTable renders one of the three collections ("stock", "sales",
// "buyers") into a table.
func (s *ReportService) BuildTable(userID, collection string) (Table, error) {
	switch collection {
	case "stock":
		items, err := s.Stock.List(userID)
		if err != nil {
			return Table{}, err
		}
		t := Table{
			Title:   "Stock Report",
			Headers: []string{"Product Name", "Category", "Supplier", "Quantity", "Unit", "Buying Price", "Selling Price", "Stock Value", "Date Added"},
		}
		for _, it := range items {
			t.Rows = append(t.Rows, []string{
				it.ProductName, it.Category, it.SupplierName,
				strconv.Itoa(it.Quantity), it.Unit,
				money(it.BuyingPrice), money(it.SellingPrice),
				money(float64(it.Quantity) * it.SellingPrice),
				day(it.EntryDate),
			})
		}
		return t, nil
	case "sales":
		sales, err := s.Sales.List(userID)
		if err != nil {
			return Table{}, err
		}
		t := Table{
			Title:   "Sales Report",
			Headers: []string{"Date", "Product", "Category", "Quantity", "Unit", "Price per Unit", "Total Price", "Buyer"},
		}
		for _, sale := range sales {
			buyer := sale.BuyerName
			if buyer == "" {
				buyer = "N/A"
			}
			t.Rows = append(t.Rows, []string{
				day(sale.SaleDate), sale.ProductName, sale.Category,
				strconv.Itoa(sale.Quantity), sale.Unit,
				money(sale.PricePerUnit), money(sale.TotalPrice), buyer,
			})
		}
		return t, nil
	case "buyers":
		buyers, err := s.Buyers.List(userID)
		if err != nil {
			return Table{}, err
		}
		t := Table{
			Title:   "Buyers Report",
			Headers: []string{"Name", "Location", "Phone", "Email", "Date Added"},
		}
		for _, b := range buyers {
			t.Rows = append(t.Rows, []string{b.Name, b.Location, b.Phone, b.Email, day(b.CreatedAt)})
		}
		return t, nil
	}
	return Table{}, fmt.Errorf("%w: unknown collection %q", domain.ErrValidation, collection)
}

// WriteCSV streams the collection as CSV, header row first.
func (s *ReportService) WriteCSV(w io.Writer, userID, collection string) error {
	t, err := s.BuildTable(userID, collection)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// day shortens an RFC3339 timestamp to its date part for report display.
func day(iso string) string {
	ts, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return ts.Format("2006-01-02")
}
