package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordEncoderIsDeterministic(t *testing.T) {
	enc := NewPasswordEncoder(1000, "pepper")

	a := enc.Encode("hunter2")
	b := enc.Encode("hunter2")
	assert.Equal(t, a, b)
	assert.Len(t, a, 16)
	assert.NotEqual(t, a, enc.Encode("hunter3"))
}

func TestPasswordEncoderRaw(t *testing.T) {
	enc := NewPasswordEncoder(0, "")
	assert.Equal(t, []byte("plain"), enc.Encode("plain"))
}

func TestSessionTokenRoundTrip(t *testing.T) {
	tok, err := NewSessionToken("secret", "sess-1", "alice", time.Minute)
	require.NoError(t, err)
	assert.True(t, tok.Exp.After(time.Now()))

	id, err := ParseSessionToken("secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", id)
}

func TestSessionTokenRejectsWrongSecretAndExpiry(t *testing.T) {
	tok, err := NewSessionToken("secret", "sess-1", "alice", time.Minute)
	require.NoError(t, err)
	_, err = ParseSessionToken("other", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewSessionToken("secret", "sess-1", "alice", -time.Minute)
	require.NoError(t, err)
	_, err = ParseSessionToken("secret", expired.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseSessionToken("secret", "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
