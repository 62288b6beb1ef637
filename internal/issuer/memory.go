package issuer

import (
	"context"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/humanid-dev/humanid/pkg/humanid"
)

// Memory is an in-memory Issuer for tests and the ledger-less CLI path
type Memory struct {
	records map[humanid.ID]*Issuance
	mu      sync.RWMutex

	policy *humanid.Policy
	length int

	// generate is swappable so tests can force collisions
	generate func() humanid.ID
}

// NewMemory creates an in-memory issuer
func NewMemory(policy *humanid.Policy, length int) *Memory {
	return &Memory{
		records: make(map[humanid.ID]*Issuance),
		policy:  policy,
		length:  length,
		generate: func() humanid.ID {
			return policy.New(length)
		},
	}
}

// Issue generates a fresh identifier and records it
func (m *Memory) Issue(ctx context.Context) (humanid.ID, error) {
	if ctx.Err() != nil {
		return humanid.ID{}, ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for attempt := 0; attempt < maxAttempts; attempt++ {
		id := m.generate()
		if _, exists := m.records[id]; exists {
			continue
		}

		key, err := gonanoid.New()
		if err != nil {
			return humanid.ID{}, err
		}

		m.records[id] = &Issuance{
			ID:        key,
			PublicID:  id,
			Policy:    m.policy.Name(),
			Status:    StatusActive,
			CreatedAt: time.Now().UTC(),
		}
		return id, nil
	}

	return humanid.ID{}, ErrExhausted
}

// Lookup resolves raw user input to its issuance record
func (m *Memory) Lookup(ctx context.Context, raw string) (*Issuance, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	id, err := m.policy.Parse(raw)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	record, exists := m.records[id]
	if !exists {
		return nil, ErrNotIssued
	}

	// Copy so callers cannot mutate the ledger
	out := *record
	return &out, nil
}

// Revoke marks an issued ID as revoked (idempotent)
func (m *Memory) Revoke(ctx context.Context, id humanid.ID) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	record, exists := m.records[id]
	if !exists || record.Status == StatusRevoked {
		return nil
	}

	now := time.Now().UTC()
	record.Status = StatusRevoked
	record.RevokedAt = &now
	return nil
}
