package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"festreg/internal/config"
	"festreg/lib/sl"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Userinfo is the provider profile used to create the local user row.
type Userinfo struct {
	Id    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Client wraps the Google OAuth code flow: build the consent URL, exchange
// the callback code, fetch the profile.
type Client struct {
	conf *oauth2.Config
	log  *slog.Logger
}

func New(conf *config.Config, log *slog.Logger) *Client {
	return &Client{
		conf: &oauth2.Config{
			ClientID:     conf.OAuth.ClientID,
			ClientSecret: conf.OAuth.ClientSecret,
			RedirectURL:  conf.BaseURL + "/api/auth/callback",
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
		log: log.With(sl.Module("oauth")),
	}
}

func (c *Client) AuthURL(state string) string {
	return c.conf.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the callback code for tokens and returns the profile.
func (c *Client) Exchange(ctx context.Context, code string) (*Userinfo, error) {
	token, err := c.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	resp, err := c.conf.Client(ctx, token).Get(userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch userinfo: status %d", resp.StatusCode)
	}

	var info Userinfo
	if err = json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if info.Email == "" {
		return nil, fmt.Errorf("userinfo has no email")
	}

	c.log.With(
		slog.String("email", info.Email),
	).Debug("userinfo fetched")

	return &info, nil
}
