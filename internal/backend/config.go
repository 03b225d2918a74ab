package backend

import (
	"fmt"

	"payoutrecon/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type: backendType,

		StripeSecretKey:         appConfig.StripeSecretKey,
		StripeMaxNetworkRetries: appConfig.StripeMaxNetworkRetries,
		ProductCacheSize:        appConfig.ProductCacheSize,
		ProductCacheTTL:         appConfig.ProductCacheTTL,

		FixturePath: appConfig.FixturePath,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case StripeBackend:
		if c.StripeSecretKey == "" {
			return fmt.Errorf("stripe secret key is required for stripe backend")
		}
	case MemoryBackend:
		if c.FixturePath == "" {
			return fmt.Errorf("fixture path is required for memory backend")
		}
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{StripeBackend, MemoryBackend}
}

// GetBackendTypeStrings returns all valid backend type strings
func GetBackendTypeStrings() []string {
	types := GetBackendTypes()
	strings := make([]string, len(types))
	for i, t := range types {
		strings[i] = t.String()
	}
	return strings
}
