package user

import (
	"PantryPal/domain"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userInfoServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGoogleVerifierReturnsIdentity(t *testing.T) {
	srv := userInfoServer(t, http.StatusOK, `{"email":"Ann@Example.com","email_verified":true,"name":"Ann","picture":"https://img/ann.png"}`)

	id, err := NewGoogleVerifier(srv.URL).Verify(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{Email: "ann@example.com", Name: "Ann", Picture: "https://img/ann.png"}, id)
}

func TestGoogleVerifierAcceptsStringVerifiedFlag(t *testing.T) {
	srv := userInfoServer(t, http.StatusOK, `{"email":"bob@example.com","email_verified":"true"}`)

	id, err := NewGoogleVerifier(srv.URL).Verify(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "bob", id.Name)
}

func TestGoogleVerifierRejections(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"invalid token", http.StatusUnauthorized, `{"error":"invalid_token"}`, domain.ErrIdentityRejected},
		{"unverified email", http.StatusOK, `{"email":"a@example.com","email_verified":false}`, domain.ErrEmailNotVerified},
		{"missing email", http.StatusOK, `{"name":"x"}`, domain.ErrIdentityRejected},
		{"provider down", http.StatusServiceUnavailable, ``, domain.ErrUpstream},
		{"garbage body", http.StatusOK, `<html>`, domain.ErrUpstream},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := userInfoServer(t, tc.status, tc.body)
			_, err := NewGoogleVerifier(srv.URL).Verify(context.Background(), "tok")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
