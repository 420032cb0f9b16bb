package gql

import (
	"log"
	"net/http"
	"time"

	genqlientgraphql "github.com/Khan/genqlient/graphql"
	"github.com/motemen/go-loghttp"
	"postviewer/internal/config"
)

func NewClient(cfg config.Config) genqlientgraphql.Client {
	return genqlientgraphql.NewClient(cfg.APIEndpoint, NewHTTPClient(cfg))
}

func NewHTTPClient(cfg config.Config) *http.Client {
	timeout := time.Duration(cfg.APITimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	var base http.RoundTripper = http.DefaultTransport
	if cfg.APILogHTTP {
		base = &loghttp.Transport{
			Transport:   base,
			LogRequest:  logRequest,
			LogResponse: logResponse,
		}
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &authTransport{
			base:  base,
			token: cfg.APIAuthToken,
		},
	}
}

type authTransport struct {
	base  http.RoundTripper
	token string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token == "" {
		return t.base.RoundTrip(req)
	}

	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+t.token)
	return t.base.RoundTrip(clone)
}

// Headers are left out so the API token never reaches the log.
func logRequest(req *http.Request) {
	log.Printf("post api request: %s %s", req.Method, req.URL)
}

func logResponse(resp *http.Response) {
	log.Printf("post api response: %d %s", resp.StatusCode, resp.Request.URL)
}
