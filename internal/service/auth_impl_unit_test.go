package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	password := "mysecretpassword1"
	pepper := "test-pepper-for-unit-tests"

	hashedPassword, err := hashPassword(password, pepper)
	require.NoError(t, err, "hashPassword should not return an error")
	require.NotEmpty(t, hashedPassword, "hashPassword should return a non-empty string")
	assert.NotEqual(t, password, hashedPassword, "hashed password should differ from the original")

	assert.True(t, checkPasswordHash(password, pepper, hashedPassword), "correct password and pepper should verify")
	assert.False(t, checkPasswordHash("wrongpassword1", pepper, hashedPassword), "incorrect password should not verify")

	// The pepper is part of the bcrypt input, so a different pepper fails.
	assert.False(t, checkPasswordHash(password, "another-pepper", hashedPassword), "incorrect pepper should not verify")

	assert.False(t, checkPasswordHash(password, pepper, "not-a-bcrypt-hash"), "invalid hash format should not verify")

	hashedEmpty, err := hashPassword("", pepper)
	require.NoError(t, err, "hashPassword should handle empty password")
	assert.True(t, checkPasswordHash("", pepper, hashedEmpty))
	assert.False(t, checkPasswordHash("nonempty", pepper, hashedEmpty))
}
