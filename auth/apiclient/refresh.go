package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	Token string `json:"token"`
}

// refreshAccessToken exchanges the stored refresh credential for a new
// access token. It runs at most once per logical request and is never
// itself retried. The result lands in the flat token slot, not in the
// per-role table.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	refresh := c.sessions.RefreshToken()
	if refresh == "" {
		c.metrics.refreshes.WithLabelValues(refreshFailure).Inc()
		return "", ErrNoRefreshToken
	}

	payload, err := json.Marshal(refreshRequest{RefreshToken: refresh})
	if err != nil {
		return "", err
	}

	status, _, body, err := c.send(ctx, http.MethodPost, c.cfg.BaseURL+c.cfg.RefreshPath, payload, "application/json", "", c.cfg.Timeout)
	if err != nil {
		c.metrics.refreshes.WithLabelValues(refreshFailure).Inc()
		return "", err
	}
	if status < 200 || status >= 300 {
		c.metrics.refreshes.WithLabelValues(refreshFailure).Inc()
		return "", &StatusError{StatusCode: status, Body: body}
	}

	var out refreshResponse
	if err := json.Unmarshal(body, &out); err != nil {
		c.metrics.refreshes.WithLabelValues(refreshFailure).Inc()
		return "", err
	}
	if strings.TrimSpace(out.Token) == "" {
		c.metrics.refreshes.WithLabelValues(refreshFailure).Inc()
		return "", errors.New("refresh response missing token")
	}

	c.sessions.SetAccessToken(out.Token)
	c.metrics.refreshes.WithLabelValues(refreshSuccess).Inc()
	return out.Token, nil
}
