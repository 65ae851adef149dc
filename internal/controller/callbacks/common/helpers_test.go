package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCallback(t *testing.T) {
	parts, err := SplitCallback("tbl:requested:row:3", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"tbl", "requested", "row", "3"}, parts)

	_, err = SplitCallback("tbl", 3)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestParseIntPart(t *testing.T) {
	n, err := ParseIntPart("12")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	_, err = ParseIntPart("x")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
