package testsupport

import (
	"path/filepath"
	"testing"

	"notemill/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.VaultDir = filepath.Join(base, "vault")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithOrganizationMode overrides the folder layout mode on the test config.
func WithOrganizationMode(mode string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organization.Mode = mode
	}
}

// WithCollisionPolicy overrides the collision policy on the test config.
func WithCollisionPolicy(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organization.CollisionPolicy = policy
	}
}

// WithSyncDisabled turns off the migration history for the test config.
func WithSyncDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sync.Enabled = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.VaultDir)
}
