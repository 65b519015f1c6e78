package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-5))
	assert.Equal(t, 40, NormalizeLimit(40))
	assert.Equal(t, MaxLimit, NormalizeLimit(500))
}

func TestLimitWithBuffer(t *testing.T) {
	assert.Equal(t, DefaultLimit+1, LimitWithBuffer(0))
	assert.Equal(t, 11, LimitWithBuffer(10))
}

func TestCursorRoundTrip(t *testing.T) {
	created := time.Date(2025, 11, 3, 19, 42, 7, 120000000, time.UTC)
	id := uuid.New()

	encoded := EncodeCursor(Cursor{CreatedAt: created, ID: id})
	parsed, err := ParseCursor(encoded)
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.True(t, parsed.CreatedAt.Equal(created))
	assert.Equal(t, id, parsed.ID)
}

func TestParseCursorBlank(t *testing.T) {
	parsed, err := ParseCursor("  ")
	require.NoError(t, err)
	assert.Nil(t, parsed)
}

func TestParseCursorInvalid(t *testing.T) {
	_, err := ParseCursor("not-base64!!")
	assert.Error(t, err)

	_, err = ParseCursor("bm8tcGlwZS1oZXJl")
	assert.Error(t, err)
}
