package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const Scope = "https://www.googleapis.com/auth/calendar"

// clientSecrets mirrors the credentials.json file downloaded from the
// Google Cloud console for either an installed or a web OAuth client.
type clientSecrets struct {
	Installed *clientSecretEntry `json:"installed"`
	Web       *clientSecretEntry `json:"web"`
}

type clientSecretEntry struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	AuthURI      string   `json:"auth_uri"`
	TokenURI     string   `json:"token_uri"`
	RedirectURIs []string `json:"redirect_uris"`
}

// storedToken is the authorized-user token layout, which carries the client
// id and secret alongside the refresh token.
type storedToken struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refresh_token"`
	TokenURI     string   `json:"token_uri,omitempty"`
	ClientID     string   `json:"client_id,omitempty"`
	ClientSecret string   `json:"client_secret,omitempty"`
	Scopes       []string `json:"scopes,omitempty"`
	Expiry       string   `json:"expiry,omitempty"`
}

var tokenExpiryLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999"}

func parseExpiry(raw string) time.Time {
	for _, layout := range tokenExpiryLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// ParseCredentials turns a credentials.json document into an oauth2 config.
func ParseCredentials(raw []byte) (*oauth2.Config, error) {
	var secrets clientSecrets
	if err := json.Unmarshal(raw, &secrets); err != nil {
		return nil, fmt.Errorf("decode credentials: %w", err)
	}

	entry := secrets.Installed
	if entry == nil {
		entry = secrets.Web
	}
	if entry == nil || entry.ClientID == "" {
		return nil, errors.New("credentials file has no installed or web client")
	}

	endpoint := endpoints.Google
	if entry.AuthURI != "" {
		endpoint.AuthURL = entry.AuthURI
	}
	if entry.TokenURI != "" {
		endpoint.TokenURL = entry.TokenURI
	}

	config := &oauth2.Config{
		ClientID:     entry.ClientID,
		ClientSecret: entry.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       []string{Scope},
	}
	if len(entry.RedirectURIs) > 0 {
		config.RedirectURL = entry.RedirectURIs[0]
	}
	return config, nil
}

// ParseToken reads an authorized-user token file. A token without a refresh
// token cannot outlive its first expiry and is rejected.
func ParseToken(raw []byte) (*oauth2.Token, error) {
	var stored storedToken
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	if stored.RefreshToken == "" && stored.Token == "" {
		return nil, errors.New("token file has neither access nor refresh token")
	}
	return &oauth2.Token{
		AccessToken:  stored.Token,
		RefreshToken: stored.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       parseExpiry(stored.Expiry),
	}, nil
}

func EncodeToken(config *oauth2.Config, token *oauth2.Token) ([]byte, error) {
	stored := storedToken{
		Token:        token.AccessToken,
		RefreshToken: token.RefreshToken,
		Scopes:       []string{Scope},
	}
	if !token.Expiry.IsZero() {
		stored.Expiry = token.Expiry.UTC().Format(time.RFC3339Nano)
	}
	if config != nil {
		stored.TokenURI = config.Endpoint.TokenURL
		stored.ClientID = config.ClientID
		stored.ClientSecret = config.ClientSecret
	}
	return json.MarshalIndent(stored, "", "  ")
}
