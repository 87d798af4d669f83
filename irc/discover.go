package irc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultHost is the chat host used when discovery fails.
const DefaultHost = "irc.twitch.tv"

const discoverBase = "https://tmi.twitch.tv"

// Resolver queries the chat-server discovery endpoint for the host
// serving a channel. The zero value targets the production endpoint.
type Resolver struct {
	// BaseURL overrides the discovery endpoint, for tests.
	BaseURL string
	// HTTPClient overrides the transport; the default carries a
	// 10-second timeout.
	HTTPClient *http.Client
}

// Resolve returns the first advertised chat host for channel (leading
// "#" stripped). Discovery is advisory: any failure, whether
// transport, status, or response shape, falls back to DefaultHost and
// is never surfaced to the caller.
func (r *Resolver) Resolve(ctx context.Context, channel string) string {
	base := r.BaseURL
	if base == "" {
		base = discoverBase
	}
	client := r.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	channel = strings.TrimPrefix(channel, "#")
	endpoint := fmt.Sprintf("%s/servers?channel=%s", base, url.QueryEscape(channel))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return DefaultHost
	}
	resp, err := client.Do(req)
	if err != nil {
		slog.Debug("chat server discovery failed", slog.Any("err", err))
		return DefaultHost
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("chat server discovery failed", slog.Int("status", resp.StatusCode))
		return DefaultHost
	}

	var payload struct {
		Servers []string `json:"servers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return DefaultHost
	}
	if len(payload.Servers) == 0 {
		return DefaultHost
	}

	host, _, _ := strings.Cut(payload.Servers[0], ":")
	if host == "" {
		return DefaultHost
	}
	return host
}
