package catalog

import (
	"context"
	"log/slog"

	"github.com/go-faster/errors"

	"github.com/derickschaefer/storefront/internal/model"
)

// ErrEmptyCatalog is the cause recorded when the source returns no products.
var ErrEmptyCatalog = errors.New("no products found")

// FailureKind classifies a failed load.
type FailureKind int

const (
	// TransportFailure is a network or request-level error reaching the source.
	TransportFailure FailureKind = iota + 1
	// EmptyOrMalformedResponse is a response that is not a non-empty
	// sequence of product records.
	EmptyOrMalformedResponse
)

func (k FailureKind) String() string {
	switch k {
	case TransportFailure:
		return "transport_failure"
	case EmptyOrMalformedResponse:
		return "empty_or_malformed_response"
	default:
		return "unknown"
	}
}

// LoadError is returned by Load when the fetch fails.
type LoadError struct {
	Kind FailureKind
	Err  error
}

func (e *LoadError) Error() string {
	return FailureReason + " (" + e.Kind.String() + ": " + e.Err.Error() + ")"
}

func (e *LoadError) Unwrap() error { return e.Err }

// Source fetches the product collection.
type Source interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
}

// MalformedError marks a source error as a bad response rather than a
// transport failure. Sources return an error satisfying errors.As for this
// interface when the body was received but had the wrong shape.
type MalformedError interface {
	error
	Malformed() bool
}

// Loader performs the single product fetch of a session.
type Loader struct {
	src Source
	log *slog.Logger
}

// NewLoader returns a Loader reading from src. A nil logger falls back to
// slog.Default().
func NewLoader(src Source, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{src: src, log: log}
}

// Load moves st from Idle to Loading, fetches once, then moves it to Loaded
// or Failed. It refuses to run on a state that has already left Idle.
//
// If ctx is done by the time the source returns, the result is discarded:
// st stays Loading and the context error is returned.
func (l *Loader) Load(ctx context.Context, st *State) error {
	if _, ok := st.status.(Idle); !ok {
		return ErrAlreadyLoaded
	}
	st.status = Loading{}

	products, err := l.src.ListProducts(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		l.log.Debug("discarding product fetch result", "reason", ctxErr)
		return ctxErr
	}

	if err == nil && len(products) == 0 {
		err = ErrEmptyCatalog
	}
	if err != nil {
		kind := classify(err)
		l.log.Error("error fetching products", "kind", kind.String(), "error", err)
		st.status = Failed{Kind: kind, Reason: FailureReason, Err: err}
		return &LoadError{Kind: kind, Err: err}
	}

	l.log.Debug("products loaded", "count", len(products))
	st.status = Loaded{Products: products}
	return nil
}

func classify(err error) FailureKind {
	if errors.Is(err, ErrEmptyCatalog) {
		return EmptyOrMalformedResponse
	}
	var m MalformedError
	if errors.As(err, &m) && m.Malformed() {
		return EmptyOrMalformedResponse
	}
	return TransportFailure
}
