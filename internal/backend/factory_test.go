package backend

import (
	"context"
	"strings"
	"testing"
	"time"

	"payoutrecon/internal/config"
	"payoutrecon/internal/provider/memory"
	"payoutrecon/internal/provider/stripe"
)

const fixturePath = "../provider/memory/testdata/may2024.json"

func TestBackendType_IsValid(t *testing.T) {
	tests := []struct {
		in   BackendType
		want bool
	}{
		{StripeBackend, true},
		{MemoryBackend, true},
		{BackendType("sqlite"), false},
		{BackendType(""), false},
	}
	for _, tt := range tests {
		if got := tt.in.IsValid(); got != tt.want {
			t.Errorf("BackendType(%q).IsValid() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := strings.Join(GetBackendTypeStrings(), ",")
	if got != "stripe,memory" {
		t.Errorf("GetBackendTypeStrings() = %s", got)
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}

	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Error("expected error for unknown backend")
	}

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:             "stripe",
		StripeSecretKey:         "sk_test_123",
		StripeMaxNetworkRetries: 2,
		ProductCacheSize:        10,
		ProductCacheTTL:         time.Minute,
	})
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if cfg.Type != StripeBackend || cfg.StripeSecretKey != "sk_test_123" || cfg.StripeMaxNetworkRetries != 2 {
		t.Errorf("unexpected backend config: %+v", cfg)
	}
	if cfg.ProductCacheSize != 10 || cfg.ProductCacheTTL != time.Minute {
		t.Errorf("cache settings not carried over: %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"stripe with key", Config{Type: StripeBackend, StripeSecretKey: "sk"}, false},
		{"stripe without key", Config{Type: StripeBackend}, true},
		{"memory with fixture", Config{Type: MemoryBackend, FixturePath: fixturePath}, false},
		{"memory without fixture", Config{Type: MemoryBackend}, true},
		{"unknown type", Config{Type: "ftp"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateProvider(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(nil)

	t.Run("memory", func(t *testing.T) {
		p, err := f.CreateProvider(ctx, Config{Type: MemoryBackend, FixturePath: fixturePath})
		if err != nil {
			t.Fatalf("CreateProvider: %v", err)
		}
		if _, ok := p.(*memory.Store); !ok {
			t.Errorf("expected *memory.Store, got %T", p)
		}
		if _, err := p.Product(ctx, "p1"); err != nil {
			t.Errorf("fixture product missing: %v", err)
		}
	})

	t.Run("stripe", func(t *testing.T) {
		p, err := f.CreateProvider(ctx, Config{Type: StripeBackend, StripeSecretKey: "sk_test_123"})
		if err != nil {
			t.Fatalf("CreateProvider: %v", err)
		}
		if _, ok := p.(*stripe.Client); !ok {
			t.Errorf("expected *stripe.Client, got %T", p)
		}
	})

	t.Run("missing fixture file", func(t *testing.T) {
		if _, err := f.CreateProvider(ctx, Config{Type: MemoryBackend, FixturePath: "missing.json"}); err == nil {
			t.Error("expected error for missing fixture")
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		if _, err := f.CreateProvider(ctx, Config{Type: StripeBackend}); err == nil {
			t.Error("expected error for missing secret key")
		}
	})
}
