package oidc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Config carries the OIDC provider settings, supplied through the
// environment at startup.
type Config struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	JWKSURL      string
	// Domain, when set, overrides the issuer as the base for the OAuth2
	// endpoints. Some providers serve authorize/token from a dedicated
	// auth domain rather than the issuer host.
	Domain string
}

// Provider exposes OIDC configuration to the HTTP surface.
type Provider struct {
	config Config
}

// NewProvider creates a new OIDC provider manager
func NewProvider(config Config) *Provider {
	return &Provider{config: config}
}

// Config returns the provider settings.
func (p *Provider) Config() Config {
	return p.config
}

// GetLoginConfig returns the configuration needed for frontend OIDC login
func (p *Provider) GetLoginConfig(ctx context.Context) (*LoginConfig, error) {
	// Try to fetch the authorization endpoint from the OIDC discovery
	// document, falling back to issuer-derived endpoints.
	var authEndpoint string
	discoveryURL := strings.TrimSuffix(p.config.Issuer, "/") + "/.well-known/openid-configuration"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discoveryURL, nil)
	if err == nil {
		client := &http.Client{Timeout: 5 * time.Second}
		resp, err := client.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			var discovery struct {
				AuthorizationEndpoint string `json:"authorization_endpoint"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&discovery); err == nil && discovery.AuthorizationEndpoint != "" {
				authEndpoint = discovery.AuthorizationEndpoint
			}
			resp.Body.Close()
		} else if resp != nil {
			resp.Body.Close()
		}
	}

	base := strings.TrimSuffix(p.config.Issuer, "/")
	if p.config.Domain != "" {
		domain := p.config.Domain
		if !strings.HasPrefix(domain, "https://") {
			domain = "https://" + domain
		}
		base = strings.TrimSuffix(domain, "/")
		// A configured auth domain always wins over discovery.
		authEndpoint = base + "/oauth2/authorize"
	}

	if authEndpoint == "" {
		authEndpoint = base + "/oauth2/authorize"
	}
	tokenEndpoint := base + "/oauth2/token"

	if p.config.ClientID == "" {
		return nil, fmt.Errorf("OIDC client ID is not configured")
	}

	return &LoginConfig{
		AuthorizationEndpoint: authEndpoint,
		TokenEndpoint:         tokenEndpoint,
		ClientID:              p.config.ClientID,
		RedirectURI:           p.config.RedirectURI,
		Scope:                 "openid email profile",
	}, nil
}

// LoginConfig contains OIDC login configuration for frontend
type LoginConfig struct {
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	ClientID              string `json:"client_id"`
	RedirectURI           string `json:"redirect_uri"`
	Scope                 string `json:"scope"`
}
