package countries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidKnownCodes(t *testing.T) {
	assert.True(t, IsValid("KR"))
	assert.True(t, IsValid("US"))
	assert.False(t, IsValid("kr"), "codes are upper case")
	assert.False(t, IsValid("XX"))
	assert.False(t, IsValid(""))
}

func TestNameLookup(t *testing.T) {
	name, ok := Name("DE")
	require.True(t, ok)
	assert.Equal(t, "Germany", name)

	_, ok = Name("ZZ")
	assert.False(t, ok)
}

func TestCodesAreSortedAndComplete(t *testing.T) {
	codes := Codes()
	require.NotEmpty(t, codes)
	assert.IsType(t, "", codes[0])
	assert.True(t, sortedStrings(codes))
	assert.Len(t, codes, 249)
}

func sortedStrings(values []string) bool {
	for i := 1; i < len(values); i++ {
		if values[i-1] > values[i] {
			return false
		}
	}
	return true
}
