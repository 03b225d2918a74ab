package backend

import (
	"context"
	"fmt"

	"payoutrecon/internal/log"
	"payoutrecon/internal/ports"
	"payoutrecon/internal/provider/memory"
	"payoutrecon/internal/provider/stripe"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateProvider implements Factory.CreateProvider
func (f *DefaultFactory) CreateProvider(ctx context.Context, config Config) (ports.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case StripeBackend:
		return f.createStripeProvider(ctx, config)
	case MemoryBackend:
		return f.createMemoryProvider(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createStripeProvider(ctx context.Context, config Config) (ports.Provider, error) {
	client, err := stripe.NewClient(stripe.Config{
		SecretKey:         config.StripeSecretKey,
		MaxNetworkRetries: config.StripeMaxNetworkRetries,
		ProductCacheSize:  config.ProductCacheSize,
		ProductCacheTTL:   config.ProductCacheTTL,
		Logger:            f.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Stripe client: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized Stripe provider",
		log.FieldBackend, config.Type.String(),
		"max_network_retries", config.StripeMaxNetworkRetries,
		"product_cache_size", config.ProductCacheSize)

	return client, nil
}

func (f *DefaultFactory) createMemoryProvider(ctx context.Context, config Config) (ports.Provider, error) {
	store, err := memory.LoadFixture(config.FixturePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixture: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized memory provider",
		log.FieldBackend, config.Type.String(),
		"fixture_path", config.FixturePath)

	return store, nil
}
