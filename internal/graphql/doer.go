package graphql

import (
	"io"
	"net/http"
	"strings"
	"time"
)

const maxErrorBody = 4 << 10

// pacedDoer is the transport handed to genqlient for one endpoint. It waits for
// the endpoint's pacing slot and turns 429 and other non-2xx answers into errors.
type pacedDoer struct {
	endpoint string
	client   *http.Client
	pacer    *Pacer
	now      func() time.Time
}

func (d *pacedDoer) Do(req *http.Request) (*http.Response, error) {
	if err := d.pacer.Wait(req.Context(), d.endpoint); err != nil {
		return nil, err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"), d.now())
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		return nil, &tooManyRequestsError{RetryAfter: retryAfter}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		return nil, &StatusError{
			Endpoint:   d.endpoint,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	// genqlient only accepts 200.
	resp.StatusCode = http.StatusOK
	return resp, nil
}
