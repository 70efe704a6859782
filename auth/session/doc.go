// Package session implements the portal's client-side multi-role session model.
//
// One browsing context may hold an authenticated session for each role
// (admin, mentor, student) at the same time, with at most one live session
// per role. A single "active" role supplies the default credential for
// outbound API calls; the others stay stored and can be switched to without
// re-authenticating.
//
// Sessions live exactly as long as the owning context. There is no
// client-side expiry and no synchronization between contexts.
package session
