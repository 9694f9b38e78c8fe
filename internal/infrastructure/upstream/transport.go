package upstream

import (
	"context"
	"net/http"
)

type tokenKey struct{}

// withToken stashes the bearer token for one outgoing request. The transport
// below picks it up; callers never touch headers directly.
func withToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// bearerTransport attaches "Authorization: Bearer <token>" to every request
// whose context carries a token. A missing token is not an error at this
// layer; the upstream endpoint rejects unauthenticated calls itself.
type bearerTransport struct {
	next http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if token := tokenFromContext(req.Context()); token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return t.next.RoundTrip(req)
}
