package secret

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Resolver resolves "secretref:<provider>:<ref>" values through registered
// providers. A value without the prefix is returned unchanged: this daemon
// has no mandated secret manager, so a literal token is valid input.
type Resolver struct {
	providers map[string]Provider
}

// NewResolver creates a Resolver with the given providers registered by
// their Name().
func NewResolver(providers ...Provider) *Resolver {
	r := &Resolver{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		if p == nil {
			continue
		}
		r.providers[p.Name()] = p
	}
	return r
}

// Register adds a provider after construction.
func (r *Resolver) Register(p Provider) {
	if p == nil {
		return
	}
	r.providers[p.Name()] = p
}

// ParseSecretRef splits "secretref:<provider>:<ref>" into its parts.
func ParseSecretRef(value string) (provider, ref string, ok bool) {
	const prefix = "secretref:"
	if !strings.HasPrefix(value, prefix) {
		return "", "", false
	}
	parts := strings.SplitN(strings.TrimPrefix(value, prefix), ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// Resolve resolves value: a secretref: value is dereferenced through the
// matching provider, anything else is returned as-is.
func (r *Resolver) Resolve(ctx context.Context, value string) (string, error) {
	providerName, ref, ok := ParseSecretRef(value)
	if !ok {
		return value, nil
	}
	if r == nil {
		return "", errors.New("secret: no resolver configured for a secretref value")
	}
	p, ok := r.providers[providerName]
	if !ok {
		return "", fmt.Errorf("secret: provider %q is not registered", providerName)
	}
	resolved, err := p.Resolve(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("secret: resolve %q via %q: %w", ref, providerName, err)
	}
	return resolved, nil
}
