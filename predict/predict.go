// Package predict calls the external holding-duration service. The
// model behind it is a black box; this package only speaks its HTTP
// contract.
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/libsys-io/libsys/errors"
	"github.com/libsys-io/libsys/internal/httpclient"
)

// DefaultTimeout bounds one prediction request.
const DefaultTimeout = 5 * time.Second

// ErrUnavailable marks transport-level failures, as opposed to the
// service answering with an error. Lending treats both the same way
// but logs them differently.
var ErrUnavailable = errors.New("prediction service unavailable")

// Request is one prediction input.
type Request struct {
	MemberID string `json:"member_id"`
	BookID   string `json:"book_id"`
	Pages    int    `json:"pages"`
	Role     string `json:"role"`
	Category string `json:"category"`
}

type response struct {
	PredictedDays float64 `json:"predicted_days"`
}

// Client calls the prediction service.
type Client struct {
	baseURL    string
	httpClient *httpclient.Client
	logger     *zap.SugaredLogger
}

// NewClient creates a prediction client for baseURL. A timeout of 0
// uses the default; a nil logger disables logging. The service
// typically runs on localhost, so the underlying client permits
// private addresses.
func NewClient(baseURL string, timeout time.Duration, logger *zap.SugaredLogger) *Client {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpclient.New(timeout, httpclient.Options{AllowPrivate: true}),
		logger:     logger,
	}
}

// HoldingDays predicts how many days the member will keep the book.
// Callers decide what an unreachable service means; lending proceeds
// with a prediction of zero.
func (c *Client) HoldingDays(ctx context.Context, req Request) (float64, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return 0, errors.Wrap(err, "failed to encode prediction request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return 0, errors.Wrap(err, "failed to build prediction request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, errors.Mark(errors.Wrap(err, "prediction request failed"), ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, errors.Newf("prediction service returned %d: %s",
			resp.StatusCode, string(payload))
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, errors.Wrap(err, "failed to decode prediction response")
	}

	c.logger.Debugw("prediction received",
		"member_id", req.MemberID,
		"book_id", req.BookID,
		"predicted_days", out.PredictedDays,
		"time_ms", time.Since(start).Milliseconds(),
	)
	return out.PredictedDays, nil
}
