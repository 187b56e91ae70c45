package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/turtacn/cytodyn/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/cytodyn/pkg/errors"
)

const defaultRemoteTimeout = 5 * time.Second

// Remote proxies prediction queries to an external inference service over
// HTTP JSON.  Every failure mode (connection, status, malformed body) maps
// to PredictorUnavailable so callers can degrade uniformly.
type Remote struct {
	baseURL string
	client  *http.Client
	log     logging.Logger
}

// NewRemote builds a remote predictor against baseURL.  A zero timeout gets
// the default of 5 seconds; a nil logger disables logging.
func NewRemote(baseURL string, timeout time.Duration, log logging.Logger) *Remote {
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log.Named("predictor.remote"),
	}
}

// Predict posts f to the remote service's /predict endpoint.
func (r *Remote) Predict(ctx context.Context, f Features) (*Prediction, error) {
	body, err := json.Marshal(f)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePredictorUnavailable, "encoding prediction features")
	}

	url := fmt.Sprintf("%s/predict", r.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePredictorUnavailable, "building prediction request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.log.Warn("prediction service unreachable",
			logging.String("url", url), logging.Err(err))
		return nil, errors.Wrap(err, errors.ErrCodePredictorUnavailable, "calling prediction service")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Read a bounded slice of the body for the log line only.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		r.log.Warn("prediction service error",
			logging.String("url", url),
			logging.Int("status", resp.StatusCode),
			logging.String("body", string(snippet)))
		return nil, errors.Newf(errors.ErrCodePredictorUnavailable,
			"prediction service returned status %d", resp.StatusCode)
	}

	var p Prediction
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePredictorUnavailable, "decoding prediction response")
	}
	return &p, nil
}
