package auth

import (
	"context"
	"time"
)

// SetSleep replaces the polling sleep so tests can observe cadence without
// real delays.
func (f *Flow) SetSleep(fn func(ctx context.Context, d time.Duration) error) {
	f.sleep = fn
}

// MapOIDCError exposes the provider error translation to tests.
var MapOIDCError = mapOIDCError
