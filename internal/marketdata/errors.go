package marketdata

import (
	"errors"
	"fmt"
)

// ErrorKind classifies provider failures so the fallback walk can
// distinguish "skip silently" from "log and keep trying" from "stop".
type ErrorKind int

const (
	// KindUnavailable means the provider is not configured (missing
	// credentials). Excluded from candidate lists, not logged as error.
	KindUnavailable ErrorKind = iota

	// KindTransient means a network or parsing failure from a
	// configured provider. Logged as a warning, walk continues.
	KindTransient

	// KindHard means the failure must stop the walk and propagate.
	KindHard
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindTransient:
		return "transient"
	case KindHard:
		return "hard"
	default:
		return "unknown"
	}
}

// ErrNoData is returned by providers that answered successfully but
// have nothing for the requested symbol.
var ErrNoData = errors.New("no data")

// ErrChainUnavailable is returned when every chain provider has been
// exhausted. Unlike price lookups there is no safe empty default for
// downstream Greeks work, so this propagates to the caller.
var ErrChainUnavailable = errors.New("option chain unavailable from all providers")

// ProviderError wraps a failure from a named provider with its kind.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("provider %s: %s", e.Provider, e.Kind)
	}
	return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Unavailable builds a KindUnavailable error for a provider.
func Unavailable(provider string) error {
	return &ProviderError{Provider: provider, Kind: KindUnavailable}
}

// Transient wraps err as a KindTransient failure of a provider.
func Transient(provider string, err error) error {
	return &ProviderError{Provider: provider, Kind: KindTransient, Err: err}
}

// KindOf extracts the error kind from err. Chain exhaustion is the
// one hard failure; anything else that is not a ProviderError is
// treated as transient, so unknown failures keep the fallback walk
// moving rather than aborting it.
func KindOf(err error) ErrorKind {
	if errors.Is(err, ErrChainUnavailable) {
		return KindHard
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindTransient
}
