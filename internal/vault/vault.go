// Package vault selects a usable API credential from an ordered pool.
//
// Credentials are loaded once from configuration and never mutated. Each
// acquire scans the pool in priority order and returns the first credential
// for which a client handle can be constructed locally. A credential that
// fails construction stays in the pool and is retried on the next acquire.
package vault

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pvlkh/rostrum/internal/core"
)

// Caller is a bound client handle, ready to submit one or more requests
// under the directive it was constructed with.
type Caller interface {
	// Generate submits a prompt plus optional binary documents and returns
	// the model's text response.
	Generate(ctx context.Context, prompt string, docs []core.Document) (string, error)
}

// Factory constructs a client handle for a credential bound to a behavioral
// directive. Construction must be local validation only: it never performs
// network I/O, so a handle that constructs can still be rejected by the
// remote service at call time.
type Factory interface {
	New(ctx context.Context, key, directive string) (Caller, error)
}

// Pool holds an ordered, immutable sequence of credentials. Index order is
// trial priority: the operator controls which account absorbs traffic first
// by list position.
type Pool struct {
	keys    []string
	factory Factory
}

// NewPool creates a pool over the given credentials. A nil or empty key list
// is valid and means no pool is configured.
func NewPool(keys []string, factory Factory) *Pool {
	return &Pool{
		keys:    append([]string(nil), keys...),
		factory: factory,
	}
}

// Size returns the number of configured credentials.
func (p *Pool) Size() int {
	return len(p.keys)
}

// Configured reports whether the pool has at least one credential.
func (p *Pool) Configured() bool {
	return len(p.keys) > 0
}

// Acquire returns a handle bound to the given directive, using the first
// credential that constructs successfully. The manual key, if non-empty, is
// treated as a pool of size one and tried only when the configured pool is
// entirely absent or exhausted.
//
// Failures are typed: ErrNoPoolConfigured when there is nothing to try at
// all, *ExhaustedError when every candidate failed construction. Acquire
// never mutates the pool, so repeated calls with the same pool state yield
// the same outcome.
func (p *Pool) Acquire(ctx context.Context, directive, manualKey string) (Caller, error) {
	if len(p.keys) == 0 && manualKey == "" {
		return nil, ErrNoPoolConfigured
	}

	var attempts []Attempt
	for i, key := range p.keys {
		handle, err := p.factory.New(ctx, key, directive)
		if err == nil {
			slog.Debug("Acquired credential", "index", i, "key", MaskKey(key))
			return handle, nil
		}
		slog.Debug("Credential failed construction", "index", i, "key", MaskKey(key), "error", err)
		attempts = append(attempts, Attempt{Index: i, Key: MaskKey(key), Err: err})
	}

	if manualKey != "" {
		handle, err := p.factory.New(ctx, manualKey, directive)
		if err == nil {
			slog.Debug("Acquired manual credential", "key", MaskKey(manualKey))
			return handle, nil
		}
		attempts = append(attempts, Attempt{Index: len(p.keys), Key: MaskKey(manualKey), Manual: true, Err: err})
	}

	return nil, &ExhaustedError{Attempts: attempts}
}

// MaskKey returns a credential safe for logs: the first four characters
// followed by an ellipsis. Short keys are fully masked.
func MaskKey(key string) string {
	key = strings.TrimSpace(key)
	if len(key) <= 4 {
		return "****"
	}
	return fmt.Sprintf("%s...", key[:4])
}
