package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateValidate(t *testing.T) {
	m := NewSessionTokenManager("secret", time.Hour)

	token, err := m.Generate("sess-1")
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, time.Hour, m.TTL())
}

func TestValidate_Rejects(t *testing.T) {
	m := NewSessionTokenManager("secret", time.Hour)
	token, err := m.Generate("sess-1")
	require.NoError(t, err)

	other := NewSessionTokenManager("other-secret", time.Hour)
	_, err = other.Validate(token)
	assert.Error(t, err, "wrong secret")

	_, err = m.Validate("garbage")
	assert.Error(t, err)

	_, err = m.Generate("")
	assert.Error(t, err)
}

func TestValidate_Expired(t *testing.T) {
	m := NewSessionTokenManager("secret", time.Minute)
	issued := time.Now().Add(-2 * time.Minute)
	m.now = func() time.Time { return issued }

	token, err := m.Generate("sess-1")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Validate(token)
	assert.Error(t, err)
}

func TestNeedsRefresh(t *testing.T) {
	m := NewSessionTokenManager("secret", time.Hour)
	issued := time.Now()
	m.now = func() time.Time { return issued }

	token, err := m.Generate("sess-1")
	require.NoError(t, err)
	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.False(t, m.NeedsRefresh(claims))

	m.now = func() time.Time { return issued.Add(20 * time.Minute) }
	assert.False(t, m.NeedsRefresh(claims))

	m.now = func() time.Time { return issued.Add(40 * time.Minute) }
	assert.True(t, m.NeedsRefresh(claims))

	assert.True(t, m.NeedsRefresh(&Claims{SessionID: "no-dates"}))
}
