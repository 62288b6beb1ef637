// Package issuer hands out collision-free human-friendly identifiers and
// keeps a ledger of every issuance. Uniqueness is enforced per ledger, not
// across processes: concurrent issuers racing on the same ID are resolved
// by the unique constraint plus retry, never by coordination.
package issuer

import (
	"context"
	"errors"
	"time"

	"github.com/humanid-dev/humanid/pkg/humanid"
)

// Issuance records a single issued identifier
type Issuance struct {
	ID        string     `gorm:"primaryKey;size:21"`
	PublicID  humanid.ID `gorm:"uniqueIndex;type:varchar(128)"`
	Policy    string     `gorm:"size:32"`
	Status    string     `gorm:"size:16"`
	CreatedAt time.Time
	RevokedAt *time.Time
}

// Issuance status constants
const (
	StatusActive  = "active"
	StatusRevoked = "revoked"
)

// IsActive reports whether the issuance has not been revoked
func (i *Issuance) IsActive() bool {
	return i.Status == StatusActive
}

// Issuer issues, resolves and revokes identifiers
type Issuer interface {
	// Issue generates a fresh identifier, records it, and returns it.
	// Retries a bounded number of times on collision with an existing ID.
	Issue(ctx context.Context) (humanid.ID, error)

	// Lookup resolves raw user input (possibly garbled by transcription)
	// to its issuance record. Input is validated and normalized first.
	Lookup(ctx context.Context, raw string) (*Issuance, error)

	// Revoke marks an issued ID as revoked (idempotent - no error if the
	// ID was never issued or is already revoked)
	Revoke(ctx context.Context, id humanid.ID) error
}

// Common issuer errors
var (
	ErrNotIssued = errors.New("identifier was not issued here")
	ErrExhausted = errors.New("could not issue a unique identifier")
)

// maxAttempts bounds collision retries per Issue call. Collisions at
// realistic lengths are birthday-bound rare; hitting the cap indicates a
// ledger far beyond the configured ID length's capacity.
const maxAttempts = 5
