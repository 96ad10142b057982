// Package fetch retrieves source pages with a rotating client identity,
// per-source timeouts and a bounded retry policy, and classifies every
// outcome so the orchestrator can tell a blocked source from a broken one.
package fetch

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/radarlegislativo/ingest/internal/source"
)

// Status classifies a fetch outcome.
type Status string

// Fetch outcome classes. NotFound and Forbidden are terminal on first
// occurrence: they signal URL or policy problems retries cannot fix.
const (
	StatusSuccess   Status = "success"
	StatusNotFound  Status = "not_found"
	StatusForbidden Status = "forbidden"
	StatusTransient Status = "transient"
	StatusFatal     Status = "fatal"
)

const defaultTimeout = 15 * time.Second

// Result is the classified outcome of fetching one source.
type Result struct {
	Status     Status
	StatusCode int
	Body       []byte
	Attempts   int
	Err        error
}

// Renderer executes JavaScript-heavy pages in a real browser and returns the
// rendered DOM. Optional; sources flagged RenderJS fall back to the plain
// fetcher when no renderer is configured.
type Renderer interface {
	Render(ctx context.Context, url, userAgent string) ([]byte, error)
	Close()
}

// Config controls fetcher behavior.
type Config struct {
	Timeout        time.Duration
	MaxRetries     int
	BackoffInitial time.Duration
	BackoffMax     time.Duration
	UserAgents     []string
}

// Fetcher performs classified HTTP fetches of registry sources.
type Fetcher struct {
	cfg        Config
	identities *identityPool
	backoff    *backoffPolicy
	renderer   Renderer
	logger     *zap.Logger
}

// New builds a Fetcher. renderer may be nil.
func New(cfg Config, renderer Renderer, logger *zap.Logger) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	return &Fetcher{
		cfg:        cfg,
		identities: newIdentityPool(cfg.UserAgents),
		backoff:    newBackoffPolicy(cfg.BackoffInitial, cfg.BackoffMax),
		renderer:   renderer,
		logger:     logger,
	}
}

// Fetch retrieves src's page. Only transient outcomes are retried; after the
// retry budget is spent the result degrades to Fatal and the caller records
// zero new documents for the source.
func (f *Fetcher) Fetch(ctx context.Context, src source.Source) Result {
	var last Result
	for attempt := 0; attempt < f.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := pause(ctx, f.backoff.Backoff(attempt-1)); err != nil {
				last.Err = err
				last.Status = StatusFatal
				return last
			}
		}
		last = f.attempt(ctx, src)
		last.Attempts = attempt + 1
		if last.Status != StatusTransient {
			return last
		}
		f.logger.Debug("transient fetch failure, retrying",
			zap.String("source", src.ID),
			zap.Int("attempt", attempt+1),
			zap.Error(last.Err),
		)
	}
	// Retries exhausted on a transient failure.
	last.Status = StatusFatal
	return last
}

func (f *Fetcher) attempt(ctx context.Context, src source.Source) Result {
	identity := f.identities.Next()
	if src.RenderJS && f.renderer != nil {
		return f.renderAttempt(ctx, src, identity)
	}
	return f.collyAttempt(ctx, src, identity)
}

func (f *Fetcher) renderAttempt(ctx context.Context, src source.Source, identity string) Result {
	body, err := f.renderer.Render(ctx, src.URL, identity)
	if err != nil {
		return classifyError(err)
	}
	return Result{Status: StatusSuccess, StatusCode: http.StatusOK, Body: body}
}

func (f *Fetcher) collyAttempt(ctx context.Context, src source.Source, identity string) Result {
	collector := colly.NewCollector()
	collector.UserAgent = identity
	collector.IgnoreRobotsTxt = true
	collector.SetRequestTimeout(f.timeoutFor(src))
	collector.WithTransport(f.transportFor(src))

	var (
		body       []byte
		statusCode int
		fetchErr   error
	)
	collector.OnResponse(func(r *colly.Response) {
		statusCode = r.StatusCode
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			statusCode = r.StatusCode
		}
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(src.URL)
	}()
	select {
	case <-ctx.Done():
		return Result{Status: StatusFatal, Err: fmt.Errorf("fetch canceled: %w", ctx.Err())}
	case err := <-done:
		if err != nil && fetchErr == nil {
			fetchErr = err
		}
	}
	return classify(statusCode, body, fetchErr)
}

func (f *Fetcher) timeoutFor(src source.Source) time.Duration {
	if src.Timeout > 0 {
		return src.Timeout
	}
	return f.cfg.Timeout
}

func (f *Fetcher) transportFor(src source.Source) *http.Transport {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConns:          16,
		IdleConnTimeout:       30 * time.Second,
		ResponseHeaderTimeout: f.timeoutFor(src),
	}
	if src.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 -- per-source escape hatch
	}
	return transport
}

// classify maps an HTTP status plus transport error into the fetch outcome
// taxonomy.
func classify(statusCode int, body []byte, err error) Result {
	switch {
	case statusCode == http.StatusNotFound:
		return Result{Status: StatusNotFound, StatusCode: statusCode, Err: err}
	case statusCode == http.StatusForbidden:
		return Result{Status: StatusForbidden, StatusCode: statusCode, Err: err}
	case statusCode == http.StatusRequestTimeout,
		statusCode == http.StatusTooManyRequests,
		statusCode >= 500:
		return Result{Status: StatusTransient, StatusCode: statusCode, Err: err}
	}
	if err != nil {
		res := classifyError(err)
		res.StatusCode = statusCode
		return res
	}
	return Result{Status: StatusSuccess, StatusCode: statusCode, Body: body}
}

func classifyError(err error) Result {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Result{Status: StatusFatal, Err: err}
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return Result{Status: StatusTransient, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Result{Status: StatusTransient, Err: err}
	}
	return Result{Status: StatusFatal, Err: err}
}

// pause waits for delay or until the context finishes.
func pause(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
