package repos

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"stockledger/internal/domain"
	"stockledger/internal/store"
)

func buyersKey(userID string) string { return "buyers_" + userID }

// BuyerRepo holds the buyer directory and owns its dedup rule: two records
// conflict when they share a non-empty phone or a case-insensitively equal
// non-empty email. Name alone is never a key.
type BuyerRepo struct{ kv *store.KV }

func NewBuyerRepo(kv *store.KV) *BuyerRepo { return &BuyerRepo{kv: kv} }

func (r *BuyerRepo) List(userID string) ([]domain.BuyerRecord, error) {
	buyers := []domain.BuyerRecord{}
	if _, err := r.kv.Get(buyersKey(userID), &buyers); err != nil {
		return nil, err
	}
	return buyers, nil
}

func conflicts(buyers []domain.BuyerRecord, excludeID, phone, email string) bool {
	if phone == "" && email == "" {
		return false
	}
	for _, b := range buyers {
		if b.ID == excludeID {
			continue
		}
		if phone != "" && b.Phone != "" && b.Phone == phone {
			return true
		}
		if email != "" && b.Email != "" && strings.EqualFold(b.Email, email) {
			return true
		}
	}
	return false
}

// Insert adds a buyer after the dedup check. Id and creation date are
// assigned when unset.
func (r *BuyerRepo) Insert(userID string, rec domain.BuyerRecord) (domain.BuyerRecord, error) {
	buyers, err := r.List(userID)
	if err != nil {
		return domain.BuyerRecord{}, err
	}
	if conflicts(buyers, "", rec.Phone, rec.Email) {
		return domain.BuyerRecord{}, fmt.Errorf("%w: phone or email already registered", domain.ErrDuplicateContact)
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt == "" {
		rec.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	buyers = append(buyers, rec)
	if err := r.save(userID, buyers); err != nil {
		return domain.BuyerRecord{}, err
	}
	return rec, nil
}

// Update replaces the editable fields of the buyer with the given id,
// running the dedup check against every other record.
func (r *BuyerRepo) Update(userID, id string, rec domain.BuyerRecord) error {
	buyers, err := r.List(userID)
	if err != nil {
		return err
	}
	if conflicts(buyers, id, rec.Phone, rec.Email) {
		return fmt.Errorf("%w: phone or email already registered", domain.ErrDuplicateContact)
	}
	for i := range buyers {
		if buyers[i].ID != id {
			continue
		}
		buyers[i].Name = rec.Name
		buyers[i].Location = rec.Location
		buyers[i].Phone = rec.Phone
		buyers[i].Email = rec.Email
		return r.save(userID, buyers)
	}
	return fmt.Errorf("%w: unknown buyer %s", domain.ErrValidation, id)
}

// Delete removes the buyer by id; absent ids are a no-op. Sale records
// referencing the buyer's name are left as they are.
func (r *BuyerRepo) Delete(userID, id string) error {
	buyers, err := r.List(userID)
	if err != nil {
		return err
	}
	kept := buyers[:0]
	for _, b := range buyers {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	if len(kept) == len(buyers) {
		return nil
	}
	return r.save(userID, kept)
}

// UpsertFromSale creates a buyer the first time a name appears on a sale.
// An existing buyer with the exact same name is left untouched even when the
// sale carried different contact details: first-seen data wins. Unlike
// Insert, this path accepts buyers with neither phone nor email.
func (r *BuyerRepo) UpsertFromSale(userID, name, location, phone, email string) error {
	if name == "" {
		return nil
	}
	buyers, err := r.List(userID)
	if err != nil {
		return err
	}
	for _, b := range buyers {
		if b.Name == name {
			return nil
		}
	}
	buyers = append(buyers, domain.BuyerRecord{
		ID:        uuid.NewString(),
		Name:      name,
		Location:  location,
		Phone:     phone,
		Email:     email,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	return r.save(userID, buyers)
}

func (r *BuyerRepo) save(userID string, buyers []domain.BuyerRecord) error {
	if err := r.kv.Set(buyersKey(userID), buyers); err != nil {
		return fmt.Errorf("%w: buyers: %v", domain.ErrPersistence, err)
	}
	return nil
}
