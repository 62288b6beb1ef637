package issuer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humanid-dev/humanid/pkg/humanid"
)

func TestMemory_Issue(t *testing.T) {
	m := NewMemory(humanid.Default, 25)

	id, err := m.Issue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25, id.Len())

	record, err := m.Lookup(context.Background(), id.String())
	require.NoError(t, err)
	assert.Equal(t, id, record.PublicID)
	assert.Equal(t, "default", record.Policy)
	assert.True(t, record.IsActive())
	assert.NotEmpty(t, record.ID)
}

func TestMemory_Issue_Unique(t *testing.T) {
	m := NewMemory(humanid.Default, 25)
	seen := make(map[humanid.ID]bool)

	for i := 0; i < 500; i++ {
		id, err := m.Issue(context.Background())
		require.NoError(t, err)
		seen[id] = true
	}

	assert.Len(t, seen, 500)
}

func TestMemory_Issue_RetriesOnCollision(t *testing.T) {
	m := NewMemory(humanid.Default, 25)

	// First issuance claims a fixed ID, then the generator returns that
	// same ID once before producing fresh ones.
	fixed := humanid.New(25)
	calls := 0
	m.generate = func() humanid.ID {
		calls++
		if calls <= 2 {
			return fixed
		}
		return humanid.New(25)
	}

	first, err := m.Issue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fixed, first)

	second, err := m.Issue(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, fixed, second)
	assert.Equal(t, 3, calls, "collision should trigger exactly one redraw")
}

func TestMemory_Issue_Exhausted(t *testing.T) {
	m := NewMemory(humanid.Default, 25)
	fixed := humanid.New(25)
	m.generate = func() humanid.ID { return fixed }

	_, err := m.Issue(context.Background())
	require.NoError(t, err)

	_, err = m.Issue(context.Background())
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestMemory_Lookup_NormalizesInput(t *testing.T) {
	m := NewMemory(humanid.Default, 25)

	id, err := m.Issue(context.Background())
	require.NoError(t, err)

	// An uppercase transcription of the same ID resolves to the same record
	record, err := m.Lookup(context.Background(), strings.ToUpper(id.String()))
	require.NoError(t, err)
	assert.Equal(t, id, record.PublicID)

	// Whitespace is not forgiven
	_, err = m.Lookup(context.Background(), "  "+id.String()+"  ")
	assert.ErrorIs(t, err, humanid.ErrInvalidCharacter)
}

func TestMemory_Lookup_Errors(t *testing.T) {
	m := NewMemory(humanid.Default, 25)

	_, err := m.Lookup(context.Background(), "aa")
	assert.ErrorIs(t, err, humanid.ErrTooShort)

	// Valid but never issued
	_, err = m.Lookup(context.Background(), humanid.New(25).String())
	assert.ErrorIs(t, err, ErrNotIssued)
}

func TestMemory_Revoke(t *testing.T) {
	m := NewMemory(humanid.Default, 25)

	id, err := m.Issue(context.Background())
	require.NoError(t, err)

	require.NoError(t, m.Revoke(context.Background(), id))

	record, err := m.Lookup(context.Background(), id.String())
	require.NoError(t, err)
	assert.False(t, record.IsActive())
	assert.NotNil(t, record.RevokedAt)
}

func TestMemory_Revoke_Idempotent(t *testing.T) {
	m := NewMemory(humanid.Default, 25)

	id, err := m.Issue(context.Background())
	require.NoError(t, err)

	require.NoError(t, m.Revoke(context.Background(), id))
	require.NoError(t, m.Revoke(context.Background(), id))

	// Revoking an ID that was never issued is also a no-op
	assert.NoError(t, m.Revoke(context.Background(), humanid.New(25)))
}

func TestMemory_ContextCancellation(t *testing.T) {
	m := NewMemory(humanid.Default, 25)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Issue(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = m.Lookup(ctx, "abcd")
	assert.ErrorIs(t, err, context.Canceled)

	assert.ErrorIs(t, m.Revoke(ctx, humanid.ID{}), context.Canceled)
}
