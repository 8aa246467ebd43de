package user

import (
	"PantryPal/domain"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const DefaultGoogleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

type (
	// IdentityVerifier exchanges a provider access token for a verified identity.
	IdentityVerifier interface {
		Verify(ctx context.Context, accessToken string) (domain.Identity, error)
	}

	googleVerifier struct {
		endpoint string
		client   *http.Client
	}
)

func NewGoogleVerifier(endpoint string) IdentityVerifier {
	if endpoint == "" {
		endpoint = DefaultGoogleUserInfoURL
	}
	return &googleVerifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *googleVerifier) Verify(ctx context.Context, accessToken string) (domain.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.endpoint, nil)
	if err != nil {
		return domain.Identity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := v.client.Do(req)
	if err != nil {
		return domain.Identity{}, domain.Upstream("google userinfo", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.Identity{}, domain.Upstream("google userinfo", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest:
		return domain.Identity{}, domain.ErrIdentityRejected
	case resp.StatusCode != http.StatusOK:
		return domain.Identity{}, domain.Upstream("google userinfo", fmt.Errorf("status %d", resp.StatusCode))
	}

	if !gjson.ValidBytes(body) {
		return domain.Identity{}, domain.Upstream("google userinfo", fmt.Errorf("malformed response"))
	}

	res := gjson.ParseBytes(body)
	email := NormalizeEmail(res.Get("email").String())
	if email == "" || !strings.Contains(email, "@") {
		return domain.Identity{}, domain.ErrIdentityRejected
	}
	// email_verified arrives as a bool from userinfo and as a string from tokeninfo
	if verified := res.Get("email_verified"); verified.Exists() && !verified.Bool() {
		return domain.Identity{}, domain.ErrEmailNotVerified
	}

	name := res.Get("name").String()
	if name == "" {
		name = strings.Split(email, "@")[0]
	}

	return domain.Identity{
		Email:   email,
		Name:    name,
		Picture: res.Get("picture").String(),
	}, nil
}
