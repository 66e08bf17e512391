package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	// Standard values
	c := Cursor{
		Date:      time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC),
		ID:        "8f7b2c1e-0000-4000-8000-000000000001",
	}

	token := EncodeToken(c)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, c, decoded)

	// Current time keeps nanosecond precision
	now := time.Now().UTC()
	decoded, err = DecodeToken(EncodeToken(Cursor{Date: now, CreatedAt: now, ID: "x"}))
	require.NoError(t, err)
	assert.True(t, now.Equal(decoded.CreatedAt))
}

func TestDecodeTokenError(t *testing.T) {
	encode := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

	_, err := DecodeToken("this is not base64!")
	assert.ErrorContains(t, err, "base64 decode")

	_, err = DecodeToken(encode("2023-05-15T00:00:00Z"))
	assert.ErrorContains(t, err, "split")

	_, err = DecodeToken(encode("notadate|2023-05-15T14:30:45Z|id"))
	assert.ErrorContains(t, err, "date parse")

	_, err = DecodeToken(encode("2023-05-15T00:00:00Z|nope|id"))
	assert.ErrorContains(t, err, "created_at parse")

	_, err = DecodeToken(encode("2023-05-15T00:00:00Z|2023-05-15T00:00:00Z|"))
	assert.ErrorContains(t, err, "missing id")
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 20, ClampLimit(0, 20, 100))
	assert.Equal(t, 20, ClampLimit(-5, 20, 100))
	assert.Equal(t, 50, ClampLimit(50, 20, 100))
	assert.Equal(t, 100, ClampLimit(500, 20, 100))
}
