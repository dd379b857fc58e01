// Package roster loads the ordered candidate list from a file, an HTTP
// endpoint, or the SQLite store.
package roster

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/abelbrown/duo/internal/candidate"
	"github.com/abelbrown/duo/internal/store"
	"golang.org/x/time/rate"
)

// maxBody caps HTTP roster responses.
const maxBody = 10 << 20

// Kind identifies where a roster comes from.
type Kind int

const (
	KindStore Kind = iota
	KindFile
	KindHTTP
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindHTTP:
		return "http"
	default:
		return "sqlite"
	}
}

// Loader fetches a roster once. Safe to call Load repeatedly (reload).
type Loader struct {
	kind    Kind
	target  string // path, URL, or database path
	client  *http.Client
	limiter *rate.Limiter
	st      *store.Store // optional pre-opened store for KindStore
}

// Option configures a Loader.
type Option func(*Loader)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.client.Timeout = d
		}
	}
}

// WithRate limits HTTP requests to rps per second.
func WithRate(rps float64) Option {
	return func(l *Loader) {
		if rps > 0 {
			l.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithStore makes sqlite sources read from an already open store
// instead of opening the path themselves.
func WithStore(st *store.Store) Option {
	return func(l *Loader) {
		l.st = st
	}
}

// New parses source and returns a Loader for it.
//
//	/path/to/roster.json       file
//	http(s)://host/roster      HTTP GET, JSON array
//	sqlite:/path/to/duo.db     store
//
// An empty source reads defaultDB through the store.
func New(source, defaultDB string, opts ...Option) (*Loader, error) {
	l := &Loader{
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
	}

	switch {
	case source == "":
		if defaultDB == "" {
			return nil, fmt.Errorf("roster: no source configured")
		}
		l.kind, l.target = KindStore, defaultDB
	case strings.HasPrefix(source, "sqlite:"):
		l.kind, l.target = KindStore, strings.TrimPrefix(source, "sqlite:")
		if l.target == "" {
			return nil, fmt.Errorf("roster: empty sqlite path in %q", source)
		}
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		l.kind, l.target = KindHTTP, source
	default:
		l.kind, l.target = KindFile, source
	}

	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Kind reports the source kind.
func (l *Loader) Kind() Kind { return l.kind }

// Source returns a printable description, e.g. "http https://x/roster".
func (l *Loader) Source() string {
	return l.kind.String() + " " + l.target
}

// Load returns the roster in order.
func (l *Loader) Load(ctx context.Context) ([]candidate.Candidate, error) {
	switch l.kind {
	case KindFile:
		return l.loadFile()
	case KindHTTP:
		return l.loadHTTP(ctx)
	default:
		return l.loadStore()
	}
}

func (l *Loader) loadFile() ([]candidate.Candidate, error) {
	f, err := os.Open(l.target)
	if err != nil {
		return nil, fmt.Errorf("roster: open %s: %w", l.target, err)
	}
	defer f.Close()

	cs, err := candidate.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("roster: %s: %w", l.target, err)
	}
	return cs, nil
}

func (l *Loader) loadStore() ([]candidate.Candidate, error) {
	st := l.st
	if st == nil {
		var err error
		st, err = store.Open(l.target)
		if err != nil {
			return nil, fmt.Errorf("roster: %w", err)
		}
		defer st.Close()
	}

	cs, err := st.Profiles()
	if err != nil {
		return nil, fmt.Errorf("roster: read profiles: %w", err)
	}
	return cs, nil
}

// loadHTTP GETs the roster. Retries once on 429 or 5xx, honoring
// Retry-After up to 10s.
func (l *Loader) loadHTTP(ctx context.Context) ([]candidate.Candidate, error) {
	const maxRetries = 1

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := l.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("roster: rate limiter wait failed: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.target, nil)
		if err != nil {
			return nil, fmt.Errorf("roster: create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := l.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("roster: request cancelled: %w", ctx.Err())
			}
			return nil, fmt.Errorf("roster: request failed: %w", err)
		}

		if resp.StatusCode == http.StatusOK {
			cs, err := candidate.Decode(io.LimitReader(resp.Body, maxBody))
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("roster: %s: %w", l.target, err)
			}
			return cs, nil
		}

		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		lastErr = fmt.Errorf("roster: %s returned status %d: %s", l.target, resp.StatusCode, strings.TrimSpace(string(body)))

		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		if !retryable || attempt == maxRetries {
			break
		}

		delay := time.Second
		if s := resp.Header.Get("Retry-After"); s != "" {
			if secs, err := strconv.Atoi(s); err == nil && secs >= 0 {
				delay = min(time.Duration(secs)*time.Second, 10*time.Second)
			}
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("roster: request cancelled during retry: %w", ctx.Err())
		case <-time.After(delay):
		}
	}
	return nil, lastErr
}
