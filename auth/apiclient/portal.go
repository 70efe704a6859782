package apiclient

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"internhub/auth/session"
)

// Credentials are the portal login inputs. Role is what the user asked to
// log in as; the server's answer is authoritative.
type Credentials struct {
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Role     session.Role `json:"role"`
}

type loginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	UserID       int64  `json:"user_id"`
	Role         string `json:"role"`
	SessionID    string `json:"session_id"`
}

// Login authenticates against the portal and stores the resulting session:
// the per-role record becomes active and the flat access/refresh
// credentials are replaced. The login request itself flows through the
// normal pipeline, so it shares its retry behavior.
func (c *Client) Login(ctx context.Context, creds Credentials) (session.Record, error) {
	if creds.Role != session.RoleNone && !creds.Role.Valid() {
		return session.Record{}, session.ErrInvalidRole
	}

	resp, err := c.Post(ctx, c.cfg.LoginPath, creds)
	if err != nil {
		return session.Record{}, err
	}

	var out loginResponse
	if err := resp.Decode(&out); err != nil {
		return session.Record{}, err
	}
	if strings.TrimSpace(out.Token) == "" {
		return session.Record{}, errors.New("login response missing token")
	}
	role, err := session.ParseRole(out.Role)
	if err != nil {
		return session.Record{}, err
	}

	rec, err := c.sessions.Login(role, out.Token, strconv.FormatInt(out.UserID, 10), out.SessionID)
	if err != nil {
		return session.Record{}, err
	}

	c.sessions.SetAccessToken(out.Token)
	if out.RefreshToken != "" {
		c.sessions.SetRefreshToken(out.RefreshToken)
	}
	return rec, nil
}

// Health checks the portal API health endpoint through the pipeline.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.Get(ctx, "/health")
	return err
}
