package auth

import "sync"

// Registry is the server-side set of refresh tokens that are still valid.
// A refresh token absent from the registry is rejected even when its
// signature and expiry check out; removing a token here is how the server
// expresses revocation for otherwise self-verifying credentials.
type Registry struct {
	mu     sync.Mutex
	tokens map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tokens: make(map[string]struct{})}
}

// Add registers a freshly issued refresh token.
func (r *Registry) Add(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = struct{}{}
}

// Contains reports whether the token is still registered.
func (r *Registry) Contains(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tokens[token]
	return ok
}

// Remove deletes a token and reports whether it was present. Removing an
// absent token is a no-op, not an error.
func (r *Registry) Remove(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tokens[token]
	delete(r.tokens, token)
	return ok
}

// Snapshot returns the registered tokens at this instant. Callers may scan
// the copy without holding the registry lock.
func (r *Registry) Snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.tokens))
	for t := range r.tokens {
		out = append(out, t)
	}
	return out
}

// Len reports the number of registered tokens.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}
