package repos

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"stockledger/internal/domain"
	"stockledger/internal/store"
)

func salesKey(userID string) string { return "sales_" + userID }

// SaleRepo holds the sale ledger: append-mostly, delete-allowed. It trusts
// its input; cross-collection checks happen in the ledger service.
type SaleRepo struct{ kv *store.KV }

func NewSaleRepo(kv *store.KV) *SaleRepo { return &SaleRepo{kv: kv} }

func (r *SaleRepo) List(userID string) ([]domain.SaleRecord, error) {
	sales := []domain.SaleRecord{}
	if _, err := r.kv.Get(salesKey(userID), &sales); err != nil {
		return nil, err
	}
	return sales, nil
}

// Append stores a fully-formed sale record, assigning an id and sale date
// when unset. TotalPrice is expected to be computed by the caller.
func (r *SaleRepo) Append(userID string, rec domain.SaleRecord) (domain.SaleRecord, error) {
	sales, err := r.List(userID)
	if err != nil {
		return domain.SaleRecord{}, err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.SaleDate == "" {
		rec.SaleDate = time.Now().UTC().Format(time.RFC3339)
	}
	sales = append(sales, rec)
	if err := r.save(userID, sales); err != nil {
		return domain.SaleRecord{}, err
	}
	return rec, nil
}

// Delete removes the sale by id; absent ids are a no-op. Stock quantity is
// not restored: sales are historical, the catalog moves independently.
func (r *SaleRepo) Delete(userID, id string) error {
	sales, err := r.List(userID)
	if err != nil {
		return err
	}
	kept := sales[:0]
	for _, s := range sales {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	if len(kept) == len(sales) {
		return nil
	}
	return r.save(userID, kept)
}

func (r *SaleRepo) save(userID string, sales []domain.SaleRecord) error {
	if err := r.kv.Set(salesKey(userID), sales); err != nil {
		return fmt.Errorf("%w: sales: %v", domain.ErrPersistence, err)
	}
	return nil
}
