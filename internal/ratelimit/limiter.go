package ratelimit

import "context"

// Limiter bounds how often an action keyed by one caller may run inside
// the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
