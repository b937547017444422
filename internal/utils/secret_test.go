package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckSecretPlain(t *testing.T) {
	assert.True(t, CheckSecret("hunter2", "hunter2"))
	assert.False(t, CheckSecret("hunter2", "hunter3"))
	assert.False(t, CheckSecret("", "anything"), "unconfigured secret never matches")
	assert.False(t, CheckSecret("hunter2", ""))
}

func TestCheckSecretBcrypt(t *testing.T) {
	hash, err := HashSecret("hunter2")
	require.NoError(t, err)

	assert.True(t, CheckSecret(hash, "hunter2"))
	assert.False(t, CheckSecret(hash, "hunter3"))
}
