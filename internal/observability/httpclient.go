package observability

import (
	"fmt"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewHTTPClient returns a client whose transport emits a client span per
// request, named "<provider> METHOD host". Deadlines come from the request
// context, so the client itself has no timeout.
func NewHTTPClient(provider string) *http.Client {
	transport := otelhttp.NewTransport(http.DefaultTransport,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return fmt.Sprintf("%s %s %s", provider, r.Method, r.URL.Host)
		}),
	)
	return &http.Client{Transport: transport}
}
