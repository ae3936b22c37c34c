package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{"JWT_SECRET": "s3cret"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "production" || cfg.IsDevelopment() {
		t.Errorf("unexpected server defaults: %+v", cfg)
	}
	if cfg.Mongo.Database != "movers_portal" || cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("unexpected store defaults: %+v %+v", cfg.Mongo, cfg.Redis)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour || cfg.ShutdownTimeout != 15*time.Second {
		t.Errorf("unexpected durations: ttl=%s shutdown=%s", cfg.Auth.TokenTTL, cfg.ShutdownTimeout)
	}
	if cfg.Auth.JWTSecret != "s3cret" || cfg.Auth.DevSecret {
		t.Errorf("unexpected secret handling: %+v", cfg.Auth)
	}
	if cfg.Dispatcher.Workers != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.Dispatcher.Workers)
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":          "9000",
		"ENV":           "production",
		"JWT_SECRET":    "s3cret",
		"TOKEN_TTL":     "90m",
		"EVENT_WORKERS": "3",
		"TEMPLATES_DIR": "/srv/templates",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9000" || cfg.Auth.JWTSecret != "s3cret" || cfg.Auth.TokenTTL != 90*time.Minute {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Dispatcher.Workers != 3 || cfg.Documents.TemplatesDir != "/srv/templates" {
		t.Errorf("overrides not applied: %+v %+v", cfg.Dispatcher, cfg.Documents)
	}
}

func TestLoadWith_ProductionRequiresSecret(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{"ENV": "production"}))
	if err == nil {
		t.Fatal("expected error without JWT_SECRET in production")
	}
}

func TestLoadWith_EmptyEnvironmentFails(t *testing.T) {
	for name, env := range map[string]map[string]string{
		"empty":      {},
		"only mongo": {"MONGO_URI": "mongodb://prod-db:27017"},
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadWith(context.Background(), envconfig.MapLookuper(env)); err == nil {
				t.Fatal("expected error without JWT_SECRET")
			}
		})
	}
}

func TestLoadWith_DevelopmentFillsSecret(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{"ENV": "development"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Auth.JWTSecret == "" || !cfg.Auth.DevSecret {
		t.Errorf("expected development secret, got %+v", cfg.Auth)
	}
}

func TestLoadWith_RejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"zero workers": {"JWT_SECRET": "s3cret", "EVENT_WORKERS": "0"},
		"bad duration": {"JWT_SECRET": "s3cret", "TOKEN_TTL": "soon"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadWith(context.Background(), envconfig.MapLookuper(env)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
