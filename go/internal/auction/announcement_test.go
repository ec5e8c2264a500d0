package auction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRupees(t *testing.T) {
	assert.Equal(t, "500,000", FormatRupees(500000))
	assert.Equal(t, "1,234.5", FormatRupees(1234.5))
	assert.Equal(t, "75", FormatRupees(75))
}

func TestComposeAnnouncement(t *testing.T) {
	assert.Equal(t,
		"Congratulations! Ravi sold for 1,250,000 rupees to Kings. What an amazing deal!",
		ComposeAnnouncement("Ravi", 1250000, "Kings"))
	assert.Equal(t,
		"Congratulations! Ravi sold for 10 rupees to Unknown Team. What an amazing deal!",
		ComposeAnnouncement("Ravi", 10, ""))
}

func TestGate(t *testing.T) {
	gate := NewGate("")
	assert.True(t, gate.Allows("abc123"))
	assert.False(t, gate.Allows("ABC123"))
	assert.False(t, gate.Allows(""))

	assert.True(t, NewGate("s3cret").Allows("s3cret"))
}

func TestParseSoldPrice(t *testing.T) {
	price, ok := ParseSoldPrice(" 500000.50 ")
	assert.True(t, ok)
	assert.Equal(t, 500000.5, price)

	for _, raw := range []string{"", "0", "-1", "NaN", "Inf", "12abc"} {
		_, ok := ParseSoldPrice(raw)
		assert.False(t, ok, raw)
	}
}
