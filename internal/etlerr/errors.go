// Package etlerr holds the error kinds shared by every stage of a load run.
// Stages wrap one of these sentinels so callers can classify a failure with errors.Is.
package etlerr

import "errors"

var (
	// ErrConfig marks a missing or invalid setting. Fatal before any network or DB work.
	ErrConfig = errors.New("config error")
	// ErrAPI marks a provider-reported failure or a malformed provider response.
	ErrAPI = errors.New("weather api error")
	// ErrNetwork marks a transport-level failure talking to the provider.
	ErrNetwork = errors.New("network error")
	// ErrNormalization marks a response whose shape cannot be turned into a row.
	ErrNormalization = errors.New("normalization error")
	// ErrStorage marks a schema, connectivity or constraint failure on the database.
	ErrStorage = errors.New("storage error")
)

// Kind returns the sentinel err belongs to, or nil when it is unclassified.
func Kind(err error) error {
	for _, kind := range []error{ErrConfig, ErrAPI, ErrNetwork, ErrNormalization, ErrStorage} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
