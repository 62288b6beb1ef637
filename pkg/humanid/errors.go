package humanid

import "errors"

// Validation errors returned by Parse and CheckChar. They are mutually
// exclusive during parsing: the first failing pipeline step wins.
var (
	// ErrInvalidCharacter indicates a character that is not in the check
	// alphabet after normalization.
	ErrInvalidCharacter = errors.New("invalid character in ID")

	// ErrTooShort indicates a normalized input of 3 bytes or fewer. The
	// minimum viable ID is a 3-character body plus the check character.
	ErrTooShort = errors.New("ID length too short, minimum 3 characters")

	// ErrInvalidCheckBit indicates a trailing check character that does not
	// match the checksum of the body, or a body too long to checksum safely.
	ErrInvalidCheckBit = errors.New("invalid check bit")
)
