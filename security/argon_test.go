package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgonRoundTrip(t *testing.T) {
	a := NewArgon()

	encoded, err := a.GenerateFromPassword("correct-horse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))

	ok, err := a.VerifyPasswd("correct-horse", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.VerifyPasswd("wrong-password", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgonSaltsDiffer(t *testing.T) {
	a := NewArgon()

	first, err := a.GenerateFromPassword("same-password")
	require.NoError(t, err)

	second, err := a.GenerateFromPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestArgonRejectsMalformedHash(t *testing.T) {
	a := NewArgon()

	_, err := a.VerifyPasswd("anything", "not-a-phc-string")
	require.Error(t, err)
}
