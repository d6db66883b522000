// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/restok/internal/app/system/normalize"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for Restok.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: RESTOK_MONGO_URI, RESTOK_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "restok", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Bearer token verification
	{Name: "jwt_secret", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "HMAC secret for bearer token verification (must be strong in production)"},

	// Identity provider admin API
	{Name: "identity_base_url", Default: "http://localhost:9000", Desc: "Identity provider admin API base URL"},
	{Name: "identity_api_key", Default: "", Desc: "Identity provider admin API key"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@restok.app", Desc: "From email address"},
	{Name: "mail_from_name", Default: "Restok", Desc: "From display name"},
	{Name: "support_email", Default: "support@restok.app", Desc: "Destination for contact form submissions"},

	// Base URL for email links (setup links, dashboard links)
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for email links"},
	{Name: "site_name", Default: "Restok", Desc: "Display name used in mail subjects and bodies"},

	// Member invite settings
	{Name: "setup_token_expiry", Default: "24h", Desc: "Invite setup link expiry (e.g., 24h, 90m)"},

	// Stripe
	{Name: "stripe_webhook_secret", Default: "", Desc: "Stripe webhook signing secret (whsec_...)"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_billing", Default: "all", Desc: "Billing event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Reorder reminder job
	{Name: "reminder_schedule", Default: "0 13 * * *", Desc: "Cron schedule for the reorder reminder digest (UTC)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// CoreConfig comes from the shared WAFFLE layer; AppConfig is specific
// to this app and can be extended as the app grows.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, RESTOK_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "RESTOK", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret: appValues.String("jwt_secret"),

		IdentityBaseURL: appValues.String("identity_base_url"),
		IdentityAPIKey:  appValues.String("identity_api_key"),

		// Email/SMTP
		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),
		SupportEmail: normalize.Email(appValues.String("support_email")),

		BaseURL:  appValues.String("base_url"),
		SiteName: appValues.String("site_name"),

		SetupTokenExpiry: appValues.Duration("setup_token_expiry", 24*time.Hour),

		StripeWebhookSecret: appValues.String("stripe_webhook_secret"),

		// Audit logging
		AuditLogAuth:    appValues.String("audit_log_auth"),
		AuditLogAdmin:   appValues.String("audit_log_admin"),
		AuditLogBilling: appValues.String("audit_log_billing"),

		ReminderSchedule: appValues.String("reminder_schedule"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// This is the right place to enforce required fields or invariants that
// involve both the core and app configs.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if coreCfg.Env == "prod" {
		if appCfg.JWTSecret == "" || appCfg.JWTSecret == "dev-only-change-me-please-0123456789ABCDEF" {
			return fmt.Errorf("jwt_secret must be set to a strong value in production")
		}
		if appCfg.StripeWebhookSecret == "" {
			return fmt.Errorf("stripe_webhook_secret must be set in production")
		}
		if appCfg.IdentityAPIKey == "" {
			return fmt.Errorf("identity_api_key must be set in production")
		}
	}

	if appCfg.SetupTokenExpiry < time.Minute {
		return fmt.Errorf("setup_token_expiry must be at least one minute")
	}

	// Catch a broken cron expression at startup rather than when the
	// worker first tries to schedule it.
	if _, err := cron.ParseStandard(appCfg.ReminderSchedule); err != nil {
		return fmt.Errorf("invalid reminder_schedule %q: %w", appCfg.ReminderSchedule, err)
	}

	return nil
}
