package tokens

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issuedAt = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func newTestIssuer(at *time.Time) *Issuer {
	iss := NewIssuer([]byte("test-jwt-secret"), DefaultTTL)
	iss.Now = func() time.Time { return *at }
	return iss
}

func TestIssuer_Issue_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	now := issuedAt
	iss := newTestIssuer(&now)

	token, exp, err := iss.Issue(Identity{
		Username:   "hod1",
		Role:       "hod",
		FullName:   "Head Of CSE",
		Department: strPtr("CSE"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, issuedAt.Add(24*time.Hour), exp)

	claims, err := iss.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "hod1", claims.Subject)
	assert.Equal(t, "hod", claims.Role)
	assert.Equal(t, "Head Of CSE", claims.FullName)
	require.NotNil(t, claims.Department)
	assert.Equal(t, "CSE", *claims.Department)
	assert.Nil(t, claims.AssignedClass)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestIssuer_Issue_Deterministic(t *testing.T) {
	t.Parallel()

	now := issuedAt
	iss := newTestIssuer(&now)
	id := Identity{Username: "principal1", Role: "principal", FullName: "P One"}

	a, _, err := iss.Issue(id)
	require.NoError(t, err)
	b, _, err := iss.Issue(id)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestIssuer_Verify_ExpiryWindow(t *testing.T) {
	t.Parallel()

	now := issuedAt
	iss := newTestIssuer(&now)
	token, _, err := iss.Issue(Identity{Username: "staff1", Role: "staff", FullName: "S"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		elapsed time.Duration
		wantErr error
	}{
		{name: "at issuance", elapsed: 0},
		{name: "one hour", elapsed: time.Hour},
		{name: "last second", elapsed: 24*time.Hour - time.Second},
		{name: "exactly ttl", elapsed: 24 * time.Hour, wantErr: ErrExpired},
		{name: "after ttl", elapsed: 25 * time.Hour, wantErr: ErrExpired},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			at := issuedAt.Add(tt.elapsed)
			claims, err := newTestIssuer(&at).Verify(token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "staff1", claims.Subject)
		})
	}
}

func TestIssuer_Verify_TamperedSignature(t *testing.T) {
	t.Parallel()

	now := issuedAt
	iss := newTestIssuer(&now)
	token, _, err := iss.Issue(Identity{Username: "principal1", Role: "principal", FullName: "P"})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	claims, err := iss.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Nil(t, claims)
}

func TestIssuer_Verify_WrongSecret(t *testing.T) {
	t.Parallel()

	now := issuedAt
	token, _, err := newTestIssuer(&now).Issue(Identity{Username: "u", Role: "staff"})
	require.NoError(t, err)

	other := NewIssuer([]byte("other-secret"), DefaultTTL)
	other.Now = func() time.Time { return now }
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestIssuer_Verify_RejectsMalformed(t *testing.T) {
	t.Parallel()

	now := issuedAt
	iss := newTestIssuer(&now)

	for _, raw := range []string{"", "not-a-valid-jwt", "a.b.c"} {
		_, err := iss.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalid, raw)
	}
}

func TestIssuer_Verify_RequiresSubject(t *testing.T) {
	t.Parallel()

	now := issuedAt
	iss := newTestIssuer(&now)
	claims := AccessClaims{
		Role: "principal",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(iss.Secret)
	require.NoError(t, err)

	_, err = iss.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestIssuer_Verify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	now := issuedAt
	iss := newTestIssuer(&now)
	claims := AccessClaims{
		Role: "principal",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "principal1",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(iss.Secret)
	require.NoError(t, err)
	_, err = iss.Verify(hs512)
	assert.ErrorIs(t, err, ErrInvalid)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = iss.Verify(none)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestIssuer_Verify_RequiresExpiry(t *testing.T) {
	t.Parallel()

	now := issuedAt
	iss := newTestIssuer(&now)
	claims := AccessClaims{
		Role:             "principal",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "principal1"},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(iss.Secret)
	require.NoError(t, err)

	_, err = iss.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestIssuer_SubSecondIssuance_KeepsFullTTL(t *testing.T) {
	t.Parallel()

	now := issuedAt.Add(700 * time.Millisecond)
	iss := newTestIssuer(&now)
	token, exp, err := iss.Issue(Identity{Username: "staff1", Role: "staff", FullName: "S"})
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(24*time.Hour+time.Second), exp)

	claims, err := iss.Verify(token)
	require.NoError(t, err)
	assert.True(t, exp.Equal(claims.ExpiresAt.Time))

	for _, elapsed := range []time.Duration{
		24*time.Hour - 300*time.Millisecond,
		24*time.Hour - time.Nanosecond,
	} {
		at := now.Add(elapsed)
		_, err := newTestIssuer(&at).Verify(token)
		assert.NoError(t, err, elapsed.String())
	}

	at := exp
	_, err = newTestIssuer(&at).Verify(token)
	assert.ErrorIs(t, err, ErrExpired)
}
