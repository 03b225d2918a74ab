package backend

import (
	"context"
	"time"

	"payoutrecon/internal/ports"
)

// Factory creates providers based on configuration
type Factory interface {
	// CreateProvider creates a provider instance based on the provided config
	CreateProvider(ctx context.Context, config Config) (ports.Provider, error)
}

// Config holds configuration for provider creation
type Config struct {
	// Backend type
	Type BackendType

	// Stripe specific
	StripeSecretKey         string
	StripeMaxNetworkRetries int
	ProductCacheSize        int
	ProductCacheTTL         time.Duration

	// Memory backend specific
	FixturePath string
}

// BackendType represents the type of backend
type BackendType string

const (
	StripeBackend BackendType = "stripe"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case StripeBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
