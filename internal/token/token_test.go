package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return DefaultConfig("test-secret", "test-reset-secret")
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := NewService(testConfig())

	for _, tt := range []Type{Access, Refresh, Reset, Verify} {
		signed, err := svc.Issue(42, tt)
		require.NoError(t, err, "issue %s", tt)

		userID, err := svc.Verify(signed, tt)
		require.NoError(t, err, "verify %s", tt)
		assert.Equal(t, uint(42), userID)
	}
}

func TestVerifyExpired(t *testing.T) {
	configs := testConfig()
	configs[Access] = TypeConfig{Secret: configs[Access].Secret, TTL: -time.Minute}
	svc := NewService(configs)

	signed, err := svc.Issue(7, Access)
	require.NoError(t, err)

	_, err = svc.Verify(signed, Access)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyTypeIsolation(t *testing.T) {
	svc := NewService(testConfig())

	types := []Type{Access, Refresh, Reset, Verify}
	for _, issued := range types {
		signed, err := svc.Issue(1, issued)
		require.NoError(t, err)

		for _, checked := range types {
			if checked == issued {
				continue
			}
			_, err := svc.Verify(signed, checked)
			assert.ErrorIs(t, err, ErrTokenInvalid, "%s token accepted as %s", issued, checked)
		}
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	svc := NewService(testConfig())
	other := NewService(DefaultConfig("another-secret", "another-reset"))

	signed, err := svc.Issue(1, Access)
	require.NoError(t, err)

	_, err = other.Verify(signed, Access)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyMalformed(t *testing.T) {
	svc := NewService(testConfig())

	_, err := svc.Verify("not-a-token", Access)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestUnknownType(t *testing.T) {
	svc := NewService(testConfig())

	_, err := svc.Issue(1, Type("session"))
	assert.ErrorIs(t, err, ErrUnknownTokenType)

	_, err = svc.Verify("anything", Type("session"))
	assert.ErrorIs(t, err, ErrUnknownTokenType)
}
