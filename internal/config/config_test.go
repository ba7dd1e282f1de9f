// AngelaMos | 2026
// config_test.go

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentsEnabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  PaymentsConfig
		want bool
	}{
		{name: "secret present", cfg: PaymentsConfig{SecretKey: "sk_test_123"}, want: true},
		{name: "secret missing", cfg: PaymentsConfig{}, want: false},
		{name: "blank secret", cfg: PaymentsConfig{SecretKey: "   "}, want: false},
		{
			name: "explicitly disabled",
			cfg:  PaymentsConfig{SecretKey: "sk_test_123", Disabled: true},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Enabled())
		})
	}
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
database:
  url: postgres://localhost/recruitments
redis:
  url: redis://localhost:6379/0
payments:
  currency: EUR
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("STRIPE_SECRET_KEY", "sk_test_abc")
	t.Setenv("PORT", "9090")

	c, err := load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/recruitments", c.Database.URL)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "eur", c.Payments.Currency)
	assert.True(t, c.Payments.Enabled())
	assert.True(t, c.Database.AutoMigrate)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	_, err := load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestValidateRejectsBadSuccessURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/recruitments")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_abc")
	t.Setenv("PAYMENT_SUCCESS_URL", "http://localhost:3000/done")

	_, err := load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHECKOUT_SESSION_ID")
}

func TestValidateSkipsPaymentChecksWhenDisabled(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/recruitments")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("PAYMENTS_DISABLED", "true")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_abc")
	t.Setenv("PAYMENT_SUCCESS_URL", "http://localhost:3000/done")

	c, err := load("")
	require.NoError(t, err)
	assert.False(t, c.Payments.Enabled())
}
