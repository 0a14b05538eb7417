package room

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomCode_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9A-Z]{6}$`)
	for range 200 {
		assert.Regexp(t, pattern, RandomCode())
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "ABC123", NormalizeCode("abc123"))
	assert.Equal(t, "ABC123", NormalizeCode("ABC123"))
	assert.Equal(t, "ABC123", NormalizeCode(" aBc123 "))
}
