package resource

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Loader fetches and parses the resource document at one configured
// location. A Loader holds no per-load state and is safe for concurrent use;
// every call produces fresh values owned by the caller.
type Loader struct {
	location string
	fetcher  Fetcher
	logger   *zap.Logger
}

// NewLoader builds a Loader for location, choosing the fetcher by scheme.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a non-nil Loader, or a *FetchError if location is
// empty or its scheme is unsupported.
func NewLoader(location string, logger *zap.Logger, opts ...FetchOption) (*Loader, error) {
	f, err := NewFetcher(location, opts...)
	if err != nil {
		return nil, err
	}
	return NewLoaderWithFetcher(location, f, logger), nil
}

// NewLoaderWithFetcher builds a Loader around an existing Fetcher. location
// is used for logging only.
//
// Precondition: f and logger must be non-nil.
func NewLoaderWithFetcher(location string, f Fetcher, logger *zap.Logger) *Loader {
	return &Loader{location: location, fetcher: f, logger: logger}
}

// Location returns the configured source location.
func (l *Loader) Location() string { return l.location }

// Load performs one fetch and one parse. There are no retries.
//
// Postcondition: Returns a non-nil *Resources, or a *FetchError / *ParseError.
func (l *Loader) Load(ctx context.Context) (*Resources, error) {
	start := time.Now()
	log := l.logger.With(
		zap.String("load_id", uuid.NewString()),
		zap.String("location", l.location),
	)
	log.Debug("fetching resources")

	data, err := l.fetcher.Fetch(ctx)
	if err != nil {
		log.Warn("resource fetch failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil, err
	}
	res, err := Parse(data)
	if err != nil {
		log.Warn("resource parse failed",
			zap.Error(err),
			zap.Int("bytes", len(data)),
			zap.Duration("elapsed", time.Since(start)),
		)
		return nil, err
	}
	log.Info("resources loaded",
		zap.Int("bytes", len(data)),
		zap.Int("actions", res.Actions.Len()),
		zap.Int("deferred", res.Deferred.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

// LoadPayload loads the document, indexes it and merges both.
//
// Postcondition: Returns a complete Payload, or the error from Load and no payload.
func (l *Loader) LoadPayload(ctx context.Context) (Payload, error) {
	res, err := l.Load(ctx)
	if err != nil {
		return Payload{}, err
	}
	return NewPayload(res, Index(res)), nil
}

// Load is the one-shot form of Loader.Load for callers that do not need
// logging or fetch options.
//
// Postcondition: Returns a non-nil *Resources, or a *FetchError / *ParseError.
func Load(ctx context.Context, location string) (*Resources, error) {
	l, err := NewLoader(location, zap.NewNop())
	if err != nil {
		return nil, err
	}
	return l.Load(ctx)
}
