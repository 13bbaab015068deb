package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderID_Format(t *testing.T) {
	orderID := GenerateOrderID()

	assert.True(t, strings.HasPrefix(orderID, "TIX-"))

	parts := strings.Split(orderID, "-")
	assert.Len(t, parts, 4)
	assert.Len(t, parts[1], 8) // YYYYMMDD
	assert.Len(t, parts[2], 6) // HHMMSS
	assert.Len(t, parts[3], 4) // random
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 5, ParseInt("5", 1))
	assert.Equal(t, 1, ParseInt("", 1))
	assert.Equal(t, 1, ParseInt("abc", 1))
	assert.Equal(t, 1, ParseInt("0", 1))
	assert.Equal(t, 1, ParseInt("-3", 1))
}
