package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"

	"github.com/terraincognita07/freelancer-admin/internal/storage"
)

const (
	CredentialsKey = "credentials.json"
	TokenKey       = "token.json"
)

// Provider builds authenticated calendar clients from the OAuth client
// credentials and user token kept in the upload store.
type Provider struct {
	store      storage.Store
	baseURL    string
	httpClient *http.Client
}

func NewProvider(store storage.Store, baseURL string) *Provider {
	return &Provider{store: store, baseURL: baseURL}
}

// WithHTTPClient sets the transport used for token refreshes and API calls.
func (p *Provider) WithHTTPClient(client *http.Client) *Provider {
	p.httpClient = client
	return p
}

func (p *Provider) oauthContext(ctx context.Context) context.Context {
	ctx = context.WithoutCancel(ctx)
	if p.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	}
	return ctx
}

func (p *Provider) loadConfig(ctx context.Context) (*oauth2.Config, error) {
	raw, err := p.store.Get(ctx, CredentialsKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotConfigured
	}
	if err != nil {
		return nil, fmt.Errorf("load calendar credentials: %w", err)
	}
	config, err := ParseCredentials(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}
	return config, nil
}

// Client returns ErrNotConfigured when credentials or a usable token are
// missing. An expired token with a refresh token is refreshed on first use.
func (p *Provider) Client(ctx context.Context) (API, error) {
	config, err := p.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := p.store.Get(ctx, TokenKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotConfigured
	}
	if err != nil {
		return nil, fmt.Errorf("load calendar token: %w", err)
	}
	token, err := ParseToken(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}
	if !token.Valid() && token.RefreshToken == "" {
		return nil, ErrNotConfigured
	}

	oauthCtx := p.oauthContext(ctx)
	source := &persistingTokenSource{
		base:   oauth2.ReuseTokenSource(token, config.TokenSource(oauthCtx, token)),
		store:  p.store,
		config: config,
		last:   token.AccessToken,
	}
	client, err := NewClient(oauthCtx, oauth2.NewClient(oauthCtx, source), p.baseURL)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (p *Provider) HasCredentials(ctx context.Context) bool {
	_, err := p.loadConfig(ctx)
	return err == nil
}

func (p *Provider) HasToken(ctx context.Context) bool {
	_, err := p.store.Get(ctx, TokenKey)
	return err == nil
}

// SaveCredentials validates and stores an uploaded credentials.json.
func (p *Provider) SaveCredentials(ctx context.Context, raw []byte) error {
	if _, err := ParseCredentials(raw); err != nil {
		return err
	}
	return p.store.Put(ctx, CredentialsKey, raw, "application/json")
}

func (p *Provider) Disconnect(ctx context.Context) error {
	return p.store.Delete(ctx, TokenKey)
}

func (p *Provider) AuthCodeURL(ctx context.Context, redirectURL string, state string) (string, error) {
	config, err := p.loadConfig(ctx)
	if err != nil {
		return "", err
	}
	config.RedirectURL = redirectURL
	return config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// Exchange trades an authorization code for a token and stores it.
func (p *Provider) Exchange(ctx context.Context, redirectURL string, code string) error {
	config, err := p.loadConfig(ctx)
	if err != nil {
		return err
	}
	config.RedirectURL = redirectURL

	token, err := config.Exchange(p.oauthContext(ctx), code)
	if err != nil {
		return fmt.Errorf("exchange calendar authorization code: %w", err)
	}
	encoded, err := EncodeToken(config, token)
	if err != nil {
		return fmt.Errorf("encode calendar token: %w", err)
	}
	return p.store.Put(ctx, TokenKey, encoded, "application/json")
}

// persistingTokenSource writes refreshed tokens back to the store so the
// next process start does not refresh again.
type persistingTokenSource struct {
	base   oauth2.TokenSource
	store  storage.Store
	config *oauth2.Config

	mu   sync.Mutex
	last string
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token.AccessToken == s.last {
		return token, nil
	}
	s.last = token.AccessToken
	if encoded, err := EncodeToken(s.config, token); err == nil {
		_ = s.store.Put(context.Background(), TokenKey, encoded, "application/json")
	}
	return token, nil
}
