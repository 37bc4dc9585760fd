package shell

import (
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

// BridgeOption is a functional option for configuring a Bridge via NewBridge.
type BridgeOption func(*bridge)

// WithRateLimit sets the per-client command rate. Commands over the limit are answered with an
// error event and dropped.
//
// Parameters:
//   - perSecond: sustained commands per second
//   - burst: commands allowed at once before the rate applies
//
// Returns:
//   - BridgeOption: a function that applies the rate limit to a bridge
func WithRateLimit(perSecond float64, burst int) BridgeOption {
	return func(b *bridge) {
		b.commandRate = rate.Limit(perSecond)
		b.commandBurst = max(burst, 1)
	}
}

// WithRegistry registers the bridge's metrics with reg and serves reg at /metrics.
//
// Parameters:
//   - reg: the Prometheus registry
//
// Returns:
//   - BridgeOption: a function that applies the registry to a bridge
func WithRegistry(reg *prometheus.Registry) BridgeOption {
	return func(b *bridge) {
		b.registerer = reg
		b.gatherer = reg
	}
}

// WithAllowedOrigins lets browser pages from the given origins open the websocket. Requests
// without an Origin header and requests from the bridge's own host are always accepted.
//
// Parameters:
//   - origins: origins such as "http://localhost:5173"
//
// Returns:
//   - BridgeOption: a function that applies the allowed origins to a bridge
func WithAllowedOrigins(origins ...string) BridgeOption {
	return func(b *bridge) {
		for _, o := range origins {
			b.origins[normalizeOrigin(o)] = struct{}{}
		}
	}
}
