// Package gateway is the outer tier: it checks request shape and rate limits,
// then forwards valid traffic to the server tier unchanged.
package gateway

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Client forwards a validated request to the server tier and relays the
// response verbatim.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zerolog.Logger
}

func NewClient(baseURL string, logger *zerolog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

func (c *Client) Forward(w http.ResponseWriter, r *http.Request) {
	target := c.baseURL + r.URL.RequestURI()
	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, r.Body)
	if err != nil {
		c.logger.Error().Err(err).Str("target", target).Msg("build upstream request error")
		writeBadGateway(w)
		return
	}
	req.Header = r.Header.Clone()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("target", target).Msg("upstream request error")
		writeBadGateway(w)
		return
	}
	defer resp.Body.Close()

	for key, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		c.logger.Warn().Err(err).Msg("relay response error")
	}
}

func writeBadGateway(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	fmt.Fprint(w, `{"message":"upstream unavailable","error":"BAD_GATEWAY"}`)
}
