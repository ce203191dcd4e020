package oauth

import (
	"Recipe-Platform/internal/utils"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const (
	ProviderGoogle     = "google"
	googleUserInfoURL  = "https://openidconnect.googleapis.com/v1/userinfo"
	maxUserInfoPayload = 1 << 20
)

var ErrNotConfigured = errors.New("oauth provider not configured")

type (
	UserInfo struct {
		ID            string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}

	Provider interface {
		Name() string
		AuthCodeURL(state string) string
		Exchange(ctx context.Context, code string) (*UserInfo, error)
	}

	googleProvider struct {
		config      *oauth2.Config
		userInfoURL string
	}
)

// NewGoogleProvider returns nil when client credentials are missing.
func NewGoogleProvider() Provider {
	clientID := utils.GetConfig("GOOGLE_CLIENT_ID")
	clientSecret := utils.GetConfig("GOOGLE_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		return nil
	}

	return newGoogleProvider(&oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  utils.GetConfig("GOOGLE_REDIRECT_URL"),
		Endpoint:     endpoints.Google,
		Scopes:       []string{"openid", "email", "profile"},
	}, googleUserInfoURL)
}

func newGoogleProvider(config *oauth2.Config, userInfoURL string) *googleProvider {
	return &googleProvider{config: config, userInfoURL: userInfoURL}
}

func (g *googleProvider) Name() string {
	return ProviderGoogle
}

func (g *googleProvider) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (g *googleProvider) Exchange(ctx context.Context, code string) (*UserInfo, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUserInfoPayload))
	if err != nil {
		return nil, err
	}
	var info UserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if info.ID == "" || info.Email == "" {
		return nil, errors.New("userinfo missing subject or email")
	}
	return &info, nil
}
