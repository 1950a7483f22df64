package repos

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"stockledger/internal/domain"
	"stockledger/internal/store"
)

func stockKey(userID string) string { return "stock_" + userID }

// StockRepo holds the stock catalog, one JSON collection per user. Every
// write is a load-mutate-save of the whole collection.
type StockRepo struct{ kv *store.KV }

func NewStockRepo(kv *store.KV) *StockRepo { return &StockRepo{kv: kv} }

// List returns the user's catalog, oldest entry first. A user with no
// catalog yet gets an empty slice.
func (r *StockRepo) List(userID string) ([]domain.StockItem, error) {
	items := []domain.StockItem{}
	if _, err := r.kv.Get(stockKey(userID), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID returns nil when no item has the given id.
func (r *StockRepo) FindByID(userID, id string) (*domain.StockItem, error) {
	items, err := r.List(userID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, nil
}

// Insert appends the item, assigning an id and entry date when unset.
// Duplicate product names are allowed as distinct records.
func (r *StockRepo) Insert(userID string, item domain.StockItem) (domain.StockItem, error) {
	items, err := r.List(userID)
	if err != nil {
		return domain.StockItem{}, err
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.EntryDate == "" {
		item.EntryDate = time.Now().UTC().Format(time.RFC3339)
	}
	items = append(items, item)
	if err := r.save(userID, items); err != nil {
		return domain.StockItem{}, err
	}
	return item, nil
}

// Delete removes the item by id. Deleting an absent id is a no-op; past
// sale records referencing the item are not touched.
func (r *StockRepo) Delete(userID, id string) error {
	items, err := r.List(userID)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		return nil
	}
	return r.save(userID, kept)
}

// DecrementQuantity subtracts amount from the item's quantity and persists
// the catalog. Quantity never goes negative: a request beyond current stock
// fails without writing anything.
func (r *StockRepo) DecrementQuantity(userID, id string, amount int) error {
	items, err := r.List(userID)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID != id {
			continue
		}
		if amount > items[i].Quantity {
			return fmt.Errorf("%w: %s has %d, requested %d",
				domain.ErrInsufficientStock, items[i].ProductName, items[i].Quantity, amount)
		}
		items[i].Quantity -= amount
		return r.save(userID, items)
	}
	return fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
}

func (r *StockRepo) save(userID string, items []domain.StockItem) error {
	if err := r.kv.Set(stockKey(userID), items); err != nil {
		return fmt.Errorf("%w: stock: %v", domain.ErrPersistence, err)
	}
	return nil
}
