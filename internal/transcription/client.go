// Package transcription fetches call transcripts from the external
// transcription service. It publishes a recording link, polls until the
// transcript is ready and downloads its text.
package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"interaction-quality-go/internal/logger"
)

var (
	ErrNotConfigured = errors.New("transcription service URL not set")
	ErrFailed        = errors.New("transcription failed")
	ErrTimeout       = errors.New("transcription did not complete")
)

// MockTranscript is returned in mock mode.
const MockTranscript = "🔵 Atendente 10:00: Bom dia, como posso ajudar?\n" +
	"🟢 Cliente 10:02: Minha fatura veio com erro, é urgente\n" +
	"🔵 Atendente 10:05: Vou verificar, aguarde um momento\n" +
	"🟢 Cliente 10:09: Obrigado, ficou resolvido"

type PublishResponse struct {
	Code   int    `json:"Code"`
	Status string `json:"Status"`
	Data   struct {
		MediaID          string `json:"MediaId"`
		Status           string `json:"Status"`
		LanguageID       int    `json:"LanguageId"`
		TranscriptionURL string `json:"TranscriptionURL"`
		WordsCount       int    `json:"WordsCount"`
	} `json:"Data"`
	Reason   string `json:"Reason,omitempty"`
	UniqueID string `json:"UniqueId,omitempty"`
}

type StatusResponse struct {
	Code   int    `json:"Code"`
	Status string `json:"Status"`
	Data   struct {
		AudioURL             string `json:"AudioURL"`
		LanguageID           int    `json:"LanguageId"`
		Status               string `json:"Status"` // Success, Queued, Processing, Failed
		TranscriptionTextURL string `json:"TranscriptionTextURL"`
		WordsCount           int    `json:"WordsCount"`
	} `json:"Data"`
	Reason   string `json:"Reason,omitempty"`
	UniqueID string `json:"UniqueId,omitempty"`
}

type Client struct {
	baseURL      string
	mock         bool
	httpClient   *http.Client
	callType     string
	pollInterval time.Duration
	maxPolls     int
	retryInitial time.Duration
	retryWindow  time.Duration
	log          *logrus.Entry
}

type Option func(*Client)

func WithMock(mock bool) Option { return func(c *Client) { c.mock = mock } }

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpClient = h } }

func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = logger.OrNew(l).Component("transcription") }
}

// WithPolling sets the status poll interval and the number of polls before
// giving up.
func WithPolling(interval time.Duration, maxPolls int) Option {
	return func(c *Client) {
		c.pollInterval = interval
		c.maxPolls = maxPolls
	}
}

// WithRetry sets the first backoff interval and the total retry window of a
// single HTTP exchange.
func WithRetry(initial, window time.Duration) Option {
	return func(c *Client) {
		c.retryInitial = initial
		c.retryWindow = window
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 12 * time.Second},
		callType:     "PNS",
		pollInterval: 1500 * time.Millisecond,
		maxPolls:     40,
		retryInitial: 500 * time.Millisecond,
		retryWindow:  12 * time.Second,
		log:          logger.New().Component("transcription"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Enabled reports whether Transcript can produce text.
func (c *Client) Enabled() bool { return c.mock || c.baseURL != "" }

// Transcript returns the text of the recording at callURL.
func (c *Client) Transcript(ctx context.Context, callURL string) (string, error) {
	if c.mock {
		return MockTranscript, nil
	}
	if c.baseURL == "" {
		return "", ErrNotConfigured
	}
	log := c.log.WithField("call_url", callURL)
	log.Info("starting transcription")

	mediaID, existingURL, err := c.publish(ctx, callURL)
	if err != nil {
		return "", err
	}
	if existingURL != "" {
		log.WithField("existing_url", existingURL).Info("transcription already exists")
		return c.download(ctx, existingURL)
	}

	finalURL, err := c.poll(ctx, mediaID)
	if err != nil {
		return "", err
	}
	log.WithField("final_url", finalURL).Info("download final transcript")
	return c.download(ctx, finalURL)
}

func (c *Client) publish(ctx context.Context, callURL string) (string, string, error) {
	build := func() (*http.Request, error) {
		var b bytes.Buffer
		w := multipart.NewWriter(&b)
		if err := w.WriteField("callRecordingLink", callURL); err != nil {
			return nil, err
		}
		if err := w.WriteField("callType", c.callType); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcribe", &b)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", w.FormDataContentType())
		return req, nil
	}

	var resp PublishResponse
	if err := c.doJSON(ctx, build, &resp); err != nil {
		return "", "", fmt.Errorf("transcribe publish: %w", err)
	}
	if resp.Code != http.StatusOK {
		return "", "", fmt.Errorf("transcribe publish error: code=%d reason=%s", resp.Code, resp.Reason)
	}
	if resp.Data.TranscriptionURL != "" && strings.EqualFold(strings.TrimSpace(resp.Data.Status), "success") {
		return "", resp.Data.TranscriptionURL, nil
	}
	return resp.Data.MediaID, "", nil
}

func (c *Client) poll(ctx context.Context, mediaID string) (string, error) {
	u, err := url.Parse(c.baseURL + "/getstatus")
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("mediaId", mediaID)
	u.RawQuery = q.Encode()
	build := func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for i := 0; i < c.maxPolls; i++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}

		var s StatusResponse
		if err := c.doJSON(ctx, build, &s); err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			c.log.WithError(err).Warn("polling failed")
			continue
		}
		c.log.WithFields(logrus.Fields{"media_id": mediaID, "status": s.Data.Status}).Debug("polling transcription")

		switch s.Data.Status {
		case "Success":
			return s.Data.TranscriptionTextURL, nil
		case "Failed":
			return "", fmt.Errorf("%w: %s", ErrFailed, s.Reason)
		}
	}
	return "", ErrTimeout
}

func (c *Client) download(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download transcript: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("download transcript: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("download transcript: status %d: %s", resp.StatusCode, body)
	}
	return string(body), nil
}

// doJSON retries server errors and transport failures with exponential
// backoff. Client errors are not retried.
func (c *Client) doJSON(ctx context.Context, build func() (*http.Request, error), target interface{}) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInitial
	bo.MaxElapsedTime = c.retryWindow

	op := func() error {
		req, err := build()
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		switch {
		case resp.StatusCode >= 500:
			return fmt.Errorf("server error: status %d: %s", resp.StatusCode, body)
		case resp.StatusCode >= 400:
			return backoff.Permanent(fmt.Errorf("client error: status %d: %s", resp.StatusCode, body))
		case len(body) == 0:
			return errors.New("empty body")
		}
		if err := json.Unmarshal(body, target); err != nil {
			return backoff.Permanent(fmt.Errorf("json decode error: %w body=%s", err, body))
		}
		return nil
	}
	return backoff.Retry(op, backoff.WithContext(bo, ctx))
}
