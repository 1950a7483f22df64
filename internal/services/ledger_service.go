package services

import (
	"fmt"

	"stockledger/internal/domain"
	"stockledger/internal/repos"
)

// LedgerService is the only component writing across the stock, sales and
// buyers collections. Each repo write persists its own collection and there
// is no cross-collection rollback, so validation always runs before the
// first mutation.
type LedgerService struct {
	Stock  *repos.StockRepo
	Sales  *repos.SaleRepo
	Buyers *repos.BuyerRepo
}

func NewLedgerService(stock *repos.StockRepo, sales *repos.SaleRepo, buyers *repos.BuyerRepo) *LedgerService {
	return &LedgerService{Stock: stock, Sales: sales, Buyers: buyers}
}

// BuyerFields is the optional buyer block on a sale request.
type BuyerFields struct {
	Name     string
	Location string
	Phone    string
	Email    string
}

// RecordSale validates the request, snapshots the product, decrements the
// catalog, registers a first-seen buyer and appends the sale record.
// The snapshot is taken before the decrement so the sale keeps the product
// fields as they were at sale time.
func (s *LedgerService) RecordSale(userID, productID string, quantity int, pricePerUnit float64, buyer BuyerFields) (*domain.SaleRecord, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: missing product", domain.ErrValidation)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrValidation)
	}
	if pricePerUnit < 0 {
		return nil, fmt.Errorf("%w: price per unit must not be negative", domain.ErrValidation)
	}

	item, err := s.Stock.FindByID(userID, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
	}
	if quantity > item.Quantity {
		return nil, fmt.Errorf("%w: %s has %d, requested %d",
			domain.ErrInsufficientStock, item.ProductName, item.Quantity, quantity)
	}

	rec := domain.SaleRecord{
		ProductID:     productID,
		ProductName:   item.ProductName,
		Category:      item.Category,
		Unit:          item.Unit,
		Quantity:      quantity,
		PricePerUnit:  pricePerUnit,
		TotalPrice:    float64(quantity) * pricePerUnit,
		BuyerName:     buyer.Name,
		BuyerLocation: buyer.Location,
		BuyerPhone:    buyer.Phone,
		BuyerEmail:    buyer.Email,
	}

	if err := s.Stock.DecrementQuantity(userID, productID, quantity); err != nil {
		return nil, err
	}
	if buyer.Name != "" {
		if err := s.Buyers.UpsertFromSale(userID, buyer.Name, buyer.Location, buyer.Phone, buyer.Email); err != nil {
			return nil, err
		}
	}
	saved, err := s.Sales.Append(userID, rec)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// AddItem validates the required catalog fields and appends the item.
func (s *LedgerService) AddItem(userID string, item domain.StockItem) (domain.StockItem, error) {
	if item.ProductName == "" || item.Category == "" || item.SupplierName == "" {
		return domain.StockItem{}, fmt.Errorf("%w: product name, category and supplier are required", domain.ErrValidation)
	}
	if item.BuyingPrice < 0 || item.SellingPrice < 0 {
		return domain.StockItem{}, fmt.Errorf("%w: prices must not be negative", domain.ErrValidation)
	}
	if item.Quantity < 0 {
		return domain.StockItem{}, fmt.Errorf("%w: quantity must not be negative", domain.ErrValidation)
	}
	return s.Stock.Insert(userID, item)
}

func (s *LedgerService) DeleteItem(userID, id string) error {
	return s.Stock.Delete(userID, id)
}

// DeleteSale removes the record without restoring the decremented stock.
func (s *LedgerService) DeleteSale(userID, id string) error {
	return s.Sales.Delete(userID, id)
}

// AddBuyer requires a name plus at least one of phone or email. The
// sale-path upsert is more permissive; this one is the directory's own add.
func (s *LedgerService) AddBuyer(userID string, rec domain.BuyerRecord) (domain.BuyerRecord, error) {
	if rec.Name == "" {
		return domain.BuyerRecord{}, fmt.Errorf("%w: buyer name is required", domain.ErrValidation)
	}
	if rec.Phone == "" && rec.Email == "" {
		return domain.BuyerRecord{}, fmt.Errorf("%w: provide a phone number or email", domain.ErrValidation)
	}
	return s.Buyers.Insert(userID, rec)
}

func (s *LedgerService) UpdateBuyer(userID, id string, rec domain.BuyerRecord) error {
	if rec.Name == "" {
		return fmt.Errorf("%w: buyer name is required", domain.ErrValidation)
	}
	if rec.Phone == "" && rec.Email == "" {
		return fmt.Errorf("%w: provide a phone number or email", domain.ErrValidation)
	}
	return s.Buyers.Update(userID, id, rec)
}

func (s *LedgerService) DeleteBuyer(userID, id string) error {
	return s.Buyers.Delete(userID, id)
}

func (s *LedgerService) ListItems(userID string) ([]domain.StockItem, error) {
	return s.Stock.List(userID)
}

func (s *LedgerService) ListSales(userID string) ([]domain.SaleRecord, error) {
	return s.Sales.List(userID)
}

func (s *LedgerService) ListBuyers(userID string) ([]domain.BuyerRecord, error) {
	return s.Buyers.List(userID)
}
