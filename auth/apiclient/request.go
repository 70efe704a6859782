package apiclient

import (
	"encoding/json"
	"net/http"

	"internhub/auth/session"
)

// RequestOption customizes a single pipeline call.
type RequestOption func(*requestOptions)

type requestOptions struct {
	role session.Role
}

// WithRole pins the call to a specific role's credential instead of the
// active role.
func WithRole(role session.Role) RequestOption {
	return func(o *requestOptions) { o.role = role }
}

// attempt tracks how many times each recovery policy has fired for one
// logical request. Each policy fires at most once, so a request is sent at
// most three times (initial + one network retry + one auth retry).
type attempt struct {
	network int
	auth    int

	// retryToken carries the refreshed credential for the auth resend so it
	// uses exactly the token the refresh endpoint returned.
	retryToken string
}

// Response is the final outcome of a successful pipeline call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON response body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

func encodeJSON(body any) ([]byte, string, error) {
	if body == nil {
		return nil, "", nil
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, "", err
	}
	return b, "application/json", nil
}
