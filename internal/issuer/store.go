package issuer

import (
	"context"
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"

	"github.com/humanid-dev/humanid/pkg/humanid"
)

// Store is a gorm-backed Issuer. The PublicID unique index is the only
// uniqueness mechanism; Issue retries with a fresh draw when an insert
// collides.
type Store struct {
	db     *gorm.DB
	policy *humanid.Policy
	length int

	// generate is swappable so tests can force collisions
	generate func() humanid.ID
}

// NewStore creates a Store issuing IDs of the given total length under the
// given policy. The database schema must already be migrated.
func NewStore(db *gorm.DB, policy *humanid.Policy, length int) *Store {
	return &Store{
		db:     db,
		policy: policy,
		length: length,
		generate: func() humanid.ID {
			return policy.New(length)
		},
	}
}

// Issue generates a fresh identifier and records it in the ledger
func (s *Store) Issue(ctx context.Context) (humanid.ID, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		id := s.generate()

		key, err := gonanoid.New()
		if err != nil {
			return humanid.ID{}, fmt.Errorf("generating record key: %w", err)
		}

		record := Issuance{
			ID:       key,
			PublicID: id,
			Policy:   s.policy.Name(),
			Status:   StatusActive,
		}

		err = s.db.WithContext(ctx).Create(&record).Error
		if err == nil {
			return id, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return humanid.ID{}, fmt.Errorf("recording issuance: %w", err)
	}

	return humanid.ID{}, ErrExhausted
}

// Lookup resolves raw user input to its issuance record
func (s *Store) Lookup(ctx context.Context, raw string) (*Issuance, error) {
	id, err := s.policy.Parse(raw)
	if err != nil {
		return nil, err
	}

	var record Issuance
	err = s.db.WithContext(ctx).Where("public_id = ?", id.String()).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotIssued
	}
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// Revoke marks an issued ID as revoked (idempotent)
func (s *Store) Revoke(ctx context.Context, id humanid.ID) error {
	return s.db.WithContext(ctx).
		Model(&Issuance{}).
		Where("public_id = ? AND status = ?", id.String(), StatusActive).
		Updates(map[string]any{
			"status":     StatusRevoked,
			"revoked_at": s.db.NowFunc(),
		}).Error
}
