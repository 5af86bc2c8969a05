package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"reservation-engine/internal/infra"
	"reservation-engine/internal/pkg/config"
)

// Client queries the member information system for the service
// entitlements granted to a member. It implements
// commands.EntitlementSource.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg config.IdentityConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

type memberInfo struct {
	Username string   `json:"username"`
	Services []string `json:"services"`
}

func (c *Client) EntitlementsFor(ctx context.Context, username string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/members/%s/services", c.baseURL, url.PathEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build entitlement request", err, infra.KindExternalFailure)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, infra.WrapRepoErr("entitlement request failed", err, infra.KindExternalFailure)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Unknown member holds no entitlements.
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, infra.WrapRepoErr("entitlement request rejected",
			fmt.Errorf("status %d: %s", resp.StatusCode, string(raw)), infra.KindExternalFailure)
	}

	var info memberInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, infra.WrapRepoErr("failed to decode entitlement response", err, infra.KindExternalFailure)
	}
	return info.Services, nil
}
