// Package apiclient is the portal's resilient HTTP request pipeline.
//
// Every outbound call resolves a bearer credential from the session manager
// (an explicit role override or the active role, falling back to the flat
// access token) and then applies two independent recovery policies: a single
// silent refresh-and-resend on 401 and a single blind retry on transient
// network failure. Callers only ever see a final, classified result; whether
// a retry happened never leaks.
//
// The pipeline signals loss of authentication through the session manager's
// notifier. It never performs navigation itself.
package apiclient
