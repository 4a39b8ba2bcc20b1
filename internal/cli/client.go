// Package cli is the HTTP client side of the farmstead API, used by the
// player-facing subcommands. Responses are kept as loose maps; the commands
// print them, they do not compute with them.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	BaseURL  string
	PlayerID string
	HTTP     *http.Client
}

func NewClient(baseURL, playerID string) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		PlayerID: playerID,
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) Register(ctx context.Context, displayName string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/register", map[string]any{
		"display_name": displayName,
	}, &out)
	return out, err
}

func (c *Client) Profile(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/profile", nil, &out)
	return out, err
}

func (c *Client) Inventory(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/inventory", nil, &out)
	return out, err
}

func (c *Client) Upgrades(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/upgrades", nil, &out)
	return out, err
}

func (c *Client) Farm(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/farm", nil, &out)
	return out, err
}

// Sell liquidates one resource, or everything when resource is empty.
func (c *Client) Sell(ctx context.Context, resource string, amount int64) (map[string]any, error) {
	items := []map[string]any{}
	if resource != "" {
		items = append(items, map[string]any{"resource": resource, "amount": amount})
	}
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/sell", map[string]any{
		"items": items,
	}, &out)
	return out, err
}

func (c *Client) SellMilk(ctx context.Context, amount int64) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/sell/milk", map[string]any{
		"amount": amount,
	}, &out)
	return out, err
}

func (c *Client) SellTreasure(ctx context.Context, treasure string, amount int64) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/sell/treasure", map[string]any{
		"treasure": treasure,
		"amount":   amount,
	}, &out)
	return out, err
}

func (c *Client) BuyUpgrade(ctx context.Context, kind string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/shop/upgrade", map[string]any{
		"kind": kind,
	}, &out)
	return out, err
}

func (c *Client) BuyCow(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/shop/cow", nil, &out)
	return out, err
}

func (c *Client) CowStatus(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/cow", nil, &out)
	return out, err
}

func (c *Client) ToggleProduction(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/cow/production/toggle", nil, &out)
	return out, err
}

func (c *Client) CollectMilk(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/cow/collect", nil, &out)
	return out, err
}

func (c *Client) PrepareRebirth(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/rebirth", nil, &out)
	return out, err
}

func (c *Client) ConfirmRebirth(ctx context.Context, token string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/rebirth/confirm", map[string]any{
		"token": token,
	}, &out)
	return out, err
}

func (c *Client) ClaimDaily(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/daily", nil, &out)
	return out, err
}

func (c *Client) Gamble(ctx context.Context, stake int64) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/gamble", map[string]any{
		"stake": stake,
	}, &out)
	return out, err
}

func (c *Client) Coinflip(ctx context.Context, call string, stake int64) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/coinflip", map[string]any{
		"call":  call,
		"stake": stake,
	}, &out)
	return out, err
}

func (c *Client) Leaderboard(ctx context.Context, category string, limit int) (map[string]any, error) {
	path := "/v1/leaderboard/" + url.PathEscape(category)
	if limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Player-ID", c.PlayerID)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
