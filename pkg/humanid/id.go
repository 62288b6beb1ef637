package humanid

import (
	"crypto/rand"
	"database/sql/driver"
	"fmt"
	"io"
)

// DefaultLength is the default length for generated IDs. At 24 body
// characters over a 22-character alphabet the collision probability stays
// negligible for realistic ID volumes.
const DefaultLength = 25

// ID is a validated, normalized identifier. The zero value is the empty ID.
// IDs are immutable and comparable; equality, hashing and ordering all
// operate on the canonical normalized string.
type ID struct {
	s string
}

// New generates an ID of the given total length (body plus check character)
// with the default policy, using crypto/rand.
func New(length int) ID {
	return Default.New(length)
}

// NewFromSource generates an ID of the given total length with the default
// policy, drawing randomness from src.
func NewFromSource(length int, src io.Reader) (ID, error) {
	return Default.NewFromSource(length, src)
}

// Parse validates s with the default policy and returns its canonical ID.
func Parse(s string) (ID, error) {
	return Default.Parse(s)
}

// New generates an ID of the given total length using crypto/rand.
// Lengths 0 and 1 both degenerate to an empty body plus the check character.
func (p *Policy) New(length int) ID {
	id, err := p.NewFromSource(length, rand.Reader)
	if err != nil {
		// crypto/rand does not fail on supported platforms
		panic("humanid generation failed: " + err.Error())
	}
	return id
}

// NewFromSource generates an ID of the given total length, drawing
// randomness from src. The body is drawn uniformly from the generation
// alphabet; characters that would form a confusable sequence with their
// predecessor, or end the body with the first half of one, are redrawn.
func (p *Policy) NewFromSource(length int, src io.Reader) (ID, error) {
	bodyLen := length - 1
	if bodyLen < 0 {
		bodyLen = 0
	}

	body := make([]byte, 0, bodyLen+1)
	buf := make([]byte, 1)
	var prev byte
	for len(body) < bodyLen {
		c, err := p.drawChar(src, buf)
		if err != nil {
			return ID{}, err
		}
		if len(body) > 0 {
			if _, banned := p.banPair[[2]byte{prev, c}]; banned {
				continue
			}
		}
		if len(body) == bodyLen-1 && p.banTail[c] {
			continue
		}
		body = append(body, c)
		prev = c
	}

	check, err := p.CheckChar(string(body))
	if err != nil {
		// unreachable: every generated character is in the check alphabet
		panic("humanid generation produced an invalid body: " + err.Error())
	}
	return ID{s: string(append(body, check))}, nil
}

// drawChar returns one uniformly distributed generation-alphabet character,
// rejection-sampling bytes from src to avoid modulo bias.
func (p *Policy) drawChar(src io.Reader, buf []byte) (byte, error) {
	for {
		if _, err := io.ReadFull(src, buf); err != nil {
			return 0, fmt.Errorf("reading randomness: %w", err)
		}
		if int(buf[0]) < p.drawLimit {
			return p.gen[int(buf[0])%len(p.gen)], nil
		}
	}
}

// Parse normalizes s, splits off the trailing check character, and accepts
// the input only if the recomputed checksum matches and every body
// character is in the check alphabet. The returned ID holds the normalized
// form, so its string may differ from s when s contained confusable
// characters, digits or uppercase letters.
//
// The pipeline is straight-line with mutually exclusive errors:
// ErrTooShort, then ErrInvalidCharacter, then ErrInvalidCheckBit.
func (p *Policy) Parse(s string) (ID, error) {
	normalized := p.Normalize(s)

	if len(normalized) <= 3 {
		return ID{}, ErrTooShort
	}

	body, checkChar := normalized[:len(normalized)-1], normalized[len(normalized)-1]
	expected, err := p.CheckChar(body)
	if err != nil {
		return ID{}, err
	}
	if checkChar != expected {
		return ID{}, ErrInvalidCheckBit
	}

	// Defensive re-check: checksum arithmetic already rejects unranked
	// characters, but no non-alphabet character may ever slip through.
	for _, c := range body {
		if err := p.ValidateChar(c); err != nil {
			return ID{}, err
		}
	}

	return ID{s: normalized}, nil
}

// String returns the canonical normalized form.
func (id ID) String() string {
	return id.s
}

// Len returns the identifier length in characters, including the trailing
// check character.
func (id ID) Len() int {
	return len(id.s)
}

// IsZero reports whether id is the zero (empty) ID.
func (id ID) IsZero() bool {
	return id.s == ""
}

// MarshalText implements encoding.TextMarshaler. IDs serialize as their
// plain canonical string.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Input passes through
// the full default-policy validation pipeline, so unmarshaling an ID is
// exactly as strict as Parse.
func (id *ID) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Value implements driver.Valuer so IDs can be stored in string columns.
func (id ID) Value() (driver.Value, error) {
	return id.s, nil
}

// Scan implements sql.Scanner. Stored values are re-validated on the way
// out of the database.
func (id *ID) Scan(value any) error {
	switch v := value.(type) {
	case string:
		return id.UnmarshalText([]byte(v))
	case []byte:
		return id.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into humanid.ID", value)
	}
}
