// Package main provides a CI-friendly smoke test for the portal API client.
//
// It validates:
//   - login + session storage for one or more roles
//   - multi-role isolation and role switching on the stored tokens
//   - an authenticated health check through the request pipeline
//   - auth change events reaching subscribers
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"internhub/auth/apiclient"
	"internhub/auth/session"
)

func main() {
	var (
		baseURL  = flag.String("base-url", "http://127.0.0.1:5000", "Portal API base URL")
		email    = flag.String("email", "", "Login email")
		password = flag.String("password", "", "Login password")
		roles    = flag.String("roles", "student", "Comma-separated roles to log in as")
		timeout  = flag.Duration("timeout", 10*time.Second, "Per-step timeout")
		logLevel = flag.String("log-level", "warn", "Log level (debug|info|warn|error)")
	)
	flag.Parse()

	if strings.TrimSpace(*email) == "" || *password == "" {
		fatalf("missing -email or -password")
	}

	wanted, err := parseRoles(*roles)
	if err != nil {
		fatalf("invalid -roles: %v", err)
	}

	log := newLogger(*logLevel)

	cfg := apiclient.DefaultConfig()
	cfg.BaseURL = *baseURL

	mgr := session.NewManager(log, nil, nil)
	unsubscribe := mgr.Subscribe(func(ev session.Event) {
		fmt.Printf("event: type=%s role=%s session_id=%s\n", ev.Type, ev.Role, ev.SessionID)
	})
	defer unsubscribe()

	client, err := apiclient.New(log, cfg, mgr)
	if err != nil {
		fatalf("client: %v", err)
	}

	root := context.Background()

	for _, role := range wanted {
		ctx, cancel := context.WithTimeout(root, *timeout)
		rec, err := client.Login(ctx, apiclient.Credentials{
			Email:    *email,
			Password: *password,
			Role:     role,
		})
		cancel()
		if err != nil {
			fatalf("login %s: %v", role, err)
		}
		fmt.Printf("login: role=%s user_id=%s session_id=%s\n", rec.Role, rec.UserID, rec.SessionID)
	}

	if !mgr.IsAuthenticated() {
		fatalf("expected an authenticated active role after login")
	}
	fmt.Printf("roles: %v active=%s\n", mgr.AvailableRoles(), mgr.ActiveRole())

	// Switch back to the first role and confirm its stored token is reused.
	first := wanted[0]
	rec, err := mgr.SwitchActiveRole(first)
	if err != nil {
		fatalf("switch to %s: %v", first, err)
	}
	tok, ok := mgr.CurrentToken(session.RoleNone)
	if !ok || tok != rec.Token {
		fatalf("switch to %s did not expose the stored token", first)
	}

	ctx, cancel := context.WithTimeout(root, *timeout)
	err = client.Health(ctx)
	cancel()
	if err != nil {
		fatalf("health: %v", err)
	}

	fmt.Printf("OK: roles=%v active=%s\n", mgr.AvailableRoles(), mgr.ActiveRole())
}

func parseRoles(raw string) ([]session.Role, error) {
	parts := strings.Split(raw, ",")
	out := make([]session.Role, 0, len(parts))
	for _, p := range parts {
		role, err := session.ParseRole(p)
		if err != nil {
			return nil, fmt.Errorf("role %q: %w", p, err)
		}
		out = append(out, role)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no roles given")
	}
	return out, nil
}

func newLogger(level string) *slog.Logger {
	lvl := slog.LevelWarn

	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "FAIL: "+format+"\n", args...)
	os.Exit(1)
}
