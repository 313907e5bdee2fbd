package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/lixenwraith/cfart/config"
)

// SessionHeader carries a per-submission id so the collector can drop duplicates
const SessionHeader = "X-Session-ID"

// RemoteConfig holds settings for summary submission
type RemoteConfig struct {
	// Endpoint receives the POSTed summary JSON. Required.
	Endpoint string

	// Timeout bounds the whole submission including retries.
	// Defaults to 10 seconds if zero.
	Timeout time.Duration

	// MaxRetries is the number of retries after the first attempt.
	MaxRetries uint64

	// RetryBase is the initial backoff delay.
	// Defaults to 500 milliseconds if zero.
	RetryBase time.Duration

	// HTTPClient allows injecting a custom HTTP client (useful for testing).
	HTTPClient *http.Client

	// UserAgent overrides the User-Agent header. Optional.
	UserAgent string
}

// StatusError is a non-2xx response from the collector
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sink: collector returned %d: %s", e.StatusCode, e.Body)
}

// RemoteSink saves reports like FileSink and POSTs summaries in the background
type RemoteSink struct {
	*FileSink
	cfg  RemoteConfig
	http *http.Client
	wg   sync.WaitGroup
}

// NewRemoteSink creates a remote sink writing files under dir
func NewRemoteSink(dir string, cfg RemoteConfig, log *zap.Logger) *RemoteSink {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RetryBase == 0 {
		cfg.RetryBase = 500 * time.Millisecond
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &RemoteSink{
		FileSink: NewFileSink(dir, log),
		cfg:      cfg,
		http:     httpClient,
	}
}

// Submit starts a one-shot background POST of payload and returns true.
// The outcome is only logged.
func (s *RemoteSink) Submit(payload []byte) bool {
	body := bytes.Clone(payload)
	id := uuid.NewString()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
		defer cancel()

		if err := s.post(ctx, id, body); err != nil {
			s.log.Warn("summary submission failed",
				zap.String("session", id),
				zap.String("endpoint", s.cfg.Endpoint),
				zap.Error(err))
			return
		}
		s.log.Info("summary submitted", zap.String("session", id))
	}()
	return true
}

// Wait blocks until in-flight submissions finish or timeout elapses.
// Reports whether everything finished.
func (s *RemoteSink) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (s *RemoteSink) post(ctx context.Context, id string, body []byte) error {
	backoff := retry.WithMaxRetries(s.cfg.MaxRetries, retry.NewExponential(s.cfg.RetryBase))

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := s.send(ctx, id, body)
		if err == nil {
			return nil
		}
		s.log.Debug("submission attempt failed", zap.Int("attempt", attempt), zap.Error(err))
		if retryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (s *RemoteSink) send(ctx context.Context, id string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sink: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionHeader, id)
	if s.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", s.cfg.UserAgent)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("sink: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(msg)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// retryable reports whether a failed attempt is worth repeating: transport
// errors, 429 and 5xx
func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= 500
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Sink is the common surface of FileSink and RemoteSink
type Sink interface {
	Save(name string, data []byte) error
	Submit(payload []byte) bool
	Wait(timeout time.Duration) bool
}

// New builds the sink selected by cfg.Mode
func New(cfg config.ExportConfig, log *zap.Logger) (Sink, error) {
	switch cfg.Mode {
	case config.ModeFile, "":
		return NewFileSink(cfg.Directory, log), nil
	case config.ModeRemote:
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("sink: remote mode requires an endpoint")
		}
		return NewRemoteSink(cfg.Directory, RemoteConfig{
			Endpoint:   cfg.Endpoint,
			Timeout:    cfg.Timeout,
			MaxRetries: uint64(cfg.MaxRetries),
			RetryBase:  cfg.RetryBase,
			UserAgent:  "cfart",
		}, log), nil
	default:
		return nil, fmt.Errorf("sink: unknown export mode %q", cfg.Mode)
	}
}
