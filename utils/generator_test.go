package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateConfirmationCode_Length(t *testing.T) {
	code, err := GenerateConfirmationCode()
	require.NoError(t, err)
	assert.Len(t, code, 8)
}

func TestGenerateConfirmationCode_Alphabet(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateConfirmationCode()
		require.NoError(t, err)

		for _, ch := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, ch), "unexpected character %q in code %s", ch, code)
		}
	}
}

func TestGenerateConfirmationCode_NoAmbiguousCharacters(t *testing.T) {
	for _, ch := range "0O1I" {
		assert.False(t, strings.ContainsRune(codeAlphabet, ch), "alphabet must not contain %q", ch)
	}
}

func TestGenerateConfirmationCode_Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code, err := GenerateConfirmationCode()
		require.NoError(t, err)
		assert.False(t, seen[code], "duplicate code %s generated", code)
		seen[code] = true
	}
}
