// Package humanid generates and validates short identifiers that survive
// human transcription. IDs use a restricted lowercase alphabet, fold
// commonly confused characters (0/O, 1/l/I, rn/m, ...) to a canonical form,
// and carry a trailing check character computed over the body.
package humanid

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Rewrite replaces a two-character sequence that stays ambiguous even after
// per-character folding (e.g. "rn" reads as "m" in many fonts).
type Rewrite struct {
	From string // exactly two check-alphabet characters
	To   string // exactly one check-alphabet character
}

// PolicyConfig describes an alphabet policy. GenAlphabet is the character
// set used when drawing random body characters and must be a subset of
// CheckAlphabet, which is the checksum's numeral system. Folds maps each
// confusable character to its canonical replacement; Rewrites are applied
// after folding, in order.
type PolicyConfig struct {
	Name          string
	GenAlphabet   string
	CheckAlphabet string
	Folds         map[rune]rune
	Rewrites      []Rewrite
}

// Policy is a compiled alphabet configuration. Policies are immutable after
// construction and safe for concurrent use.
type Policy struct {
	name     string
	gen      string
	check    string
	folds    map[rune]rune
	rewrites []Rewrite

	// rank maps a byte to its index in the check alphabet, -1 if absent.
	rank [256]int16

	// Generation constraints derived from the rewrites: pairs that would
	// collapse on re-normalization, and characters that must not end the
	// body because the appended check character could complete a pair.
	banPair map[[2]byte]struct{}
	banTail [256]bool

	// drawLimit is the rejection-sampling cutoff for unbiased byte draws.
	drawLimit int

	// maxLen is the longest body whose rank sum cannot overflow uint64.
	maxLen uint64
}

// Built-in policies. Default folds all of 2/5/z to s, so every ASCII digit
// normalizes to an in-alphabet character. Legacy keeps the historical
// mapping where 2 folds to z; z has no rank, so inputs containing either
// are rejected as invalid characters.
var (
	Default = MustPolicy(PolicyConfig{
		Name:          "default",
		GenAlphabet:   "abcdefhijkmnoprstwxy34",
		CheckAlphabet: "abcdefhijkmnoprstwxy34-",
		Folds: map[rune]rune{
			'0': 'o',
			'1': 'i', '7': 'i', 'l': 'i',
			'2': 's', '5': 's', 'z': 's',
			'6': 'b', '8': 'b', '9': 'b', 'g': 'b', 'q': 'b',
			'u': 'v',
		},
		Rewrites: []Rewrite{{From: "rn", To: "m"}, {From: "vv", To: "w"}},
	})

	Legacy = MustPolicy(PolicyConfig{
		Name:          "legacy",
		GenAlphabet:   "abcdefhijkmnoprstwxy34",
		CheckAlphabet: "abcdefhijkmnoprstwxy34-",
		Folds: map[rune]rune{
			'0': 'o',
			'1': 'i', '7': 'i', 'l': 'i',
			'5': 's', '2': 'z',
			'6': 'b', '8': 'b', '9': 'b', 'g': 'b', 'q': 'b',
			'u': 'v',
		},
		Rewrites: []Rewrite{{From: "rn", To: "m"}, {From: "vv", To: "w"}},
	})
)

// NewPolicy compiles a PolicyConfig into a Policy.
// Returns an error if the configuration is invalid.
func NewPolicy(cfg PolicyConfig) (*Policy, error) {
	if cfg.Name == "" {
		return nil, errors.New("policy name cannot be empty")
	}
	if len(cfg.CheckAlphabet) <= 2 {
		return nil, errors.New("check alphabet must have more than 2 characters")
	}

	p := &Policy{
		name:     cfg.Name,
		gen:      cfg.GenAlphabet,
		check:    cfg.CheckAlphabet,
		folds:    make(map[rune]rune, len(cfg.Folds)),
		rewrites: append([]Rewrite(nil), cfg.Rewrites...),
		banPair:  make(map[[2]byte]struct{}),
	}

	for i := range p.rank {
		p.rank[i] = -1
	}
	for i := 0; i < len(p.check); i++ {
		c := p.check[i]
		if c >= 0x80 {
			return nil, fmt.Errorf("check alphabet character %q is not ASCII", c)
		}
		if p.rank[c] >= 0 {
			return nil, fmt.Errorf("duplicate character %q in check alphabet", c)
		}
		p.rank[c] = int16(i)
	}

	seen := make(map[byte]bool, len(p.gen))
	for i := 0; i < len(p.gen); i++ {
		c := p.gen[i]
		if c >= 0x80 || p.rank[c] < 0 {
			return nil, fmt.Errorf("generation character %q is not in the check alphabet", c)
		}
		if seen[c] {
			return nil, fmt.Errorf("duplicate character %q in generation alphabet", c)
		}
		seen[c] = true
	}

	for r, to := range cfg.Folds {
		p.folds[r] = to
	}

	for _, rw := range p.rewrites {
		if len(rw.From) != 2 || len(rw.To) != 1 {
			return nil, fmt.Errorf("rewrite %q -> %q must map two characters to one", rw.From, rw.To)
		}
		p.banPair[[2]byte{rw.From[0], rw.From[1]}] = struct{}{}
		p.banTail[rw.From[0]] = true
	}

	p.drawLimit = 256 - 256%len(p.gen)
	p.maxLen = math.MaxUint64/uint64(len(p.check)-1) + 1
	return p, nil
}

// MustPolicy is like NewPolicy but panics on invalid configuration.
// Intended for package-level policy definitions.
func MustPolicy(cfg PolicyConfig) *Policy {
	p, err := NewPolicy(cfg)
	if err != nil {
		panic("humanid: invalid policy: " + err.Error())
	}
	return p
}

// Name returns the policy identifier.
func (p *Policy) Name() string {
	return p.name
}

// MaxLength returns the longest identifier (body plus check character) whose
// checksum can be computed without overflowing 64-bit arithmetic.
func (p *Policy) MaxLength() uint64 {
	return p.maxLen
}

// NormalizeChar folds a single confusable character to its canonical
// replacement. Characters outside the fold map pass through unchanged.
func (p *Policy) NormalizeChar(c rune) rune {
	if to, ok := p.folds[c]; ok {
		return to
	}
	return c
}

// Normalize lowercases s, folds every confusable character, then applies the
// two-character sequence rewrites left to right. The result is stable:
// normalizing an already-normalized string is a no-op.
func (p *Policy) Normalize(s string) string {
	s = strings.Map(p.NormalizeChar, strings.ToLower(s))
	for _, rw := range p.rewrites {
		s = strings.ReplaceAll(s, rw.From, rw.To)
	}
	return s
}

// ValidateChar reports whether c is a member of the check alphabet.
// Returns ErrInvalidCharacter if it is not.
func (p *Policy) ValidateChar(c rune) error {
	if c < 0 || c > 0xFF || p.rank[c] < 0 {
		return ErrInvalidCharacter
	}
	return nil
}

// CheckChar computes the check character for an already-normalized body:
// the sum of each character's check-alphabet rank, mod the alphabet size.
// The sum is order-insensitive, so anagram bodies share a check character;
// that is a property of the scheme, not a defect.
//
// Returns ErrInvalidCharacter if any character has no rank, and
// ErrInvalidCheckBit if the body is too long to sum without overflow.
func (p *Policy) CheckChar(body string) (byte, error) {
	if uint64(len(body)) >= p.maxLen {
		return 0, ErrInvalidCheckBit
	}

	var sum uint64
	for _, c := range body {
		if c < 0 || c > 0xFF || p.rank[c] < 0 {
			return 0, ErrInvalidCharacter
		}
		sum += uint64(p.rank[c])
	}

	return p.check[sum%uint64(len(p.check))], nil
}
