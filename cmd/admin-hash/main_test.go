package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narusushi/lunch-backend/pkg/config"
	"github.com/narusushi/lunch-backend/pkg/security"
)

var fastArgon = config.PasswordConfig{
	ArgonMemoryKB:    64,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     8,
	ArgonKeyLen:      16,
}

func TestHashFromReaderProducesVerifiableHash(t *testing.T) {
	encoded, err := hashFromReader(strings.NewReader("kitchen-pass\n"), fastArgon)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))

	ok, err := security.VerifyPassword("kitchen-pass", encoded)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHashFromReaderWithoutTrailingNewline(t *testing.T) {
	encoded, err := hashFromReader(strings.NewReader("kitchen-pass"), fastArgon)
	require.NoError(t, err)

	ok, err := security.VerifyPassword("kitchen-pass", encoded)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHashFromReaderRejectsEmptyInput(t *testing.T) {
	_, err := hashFromReader(strings.NewReader("\n"), fastArgon)
	assert.Error(t, err)
}
