// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//   - Database connection timeouts
//
// AppConfig is where you put everything specific to YOUR application.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Bearer token verification
	JWTSecret string // HMAC secret shared with the identity provider

	// Identity provider admin API (account create/delete/password)
	IdentityBaseURL string
	IdentityAPIKey  string

	// Email/SMTP configuration
	MailSMTPHost string // SMTP server host (e.g., localhost for Mailpit, email-smtp.us-east-1.amazonaws.com for SES)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username (empty for Mailpit, SES SMTP credentials for AWS)
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address (e.g., noreply@restok.app)
	MailFromName string // From display name (e.g., Restok)

	// Contact form destination
	SupportEmail string

	// Base URL for email links (setup links, dashboard links)
	BaseURL  string // e.g., "https://restok.app" or "http://localhost:3000"
	SiteName string // display name used in mail subjects and bodies

	// Setup token lifetime for invited members
	SetupTokenExpiry time.Duration

	// Stripe webhook signature verification
	StripeWebhookSecret string

	// Audit logging modes per category: "all", "db", "log", or "off"
	AuditLogAuth    string
	AuditLogAdmin   string
	AuditLogBilling string

	// Reorder reminder job
	ReminderSchedule string // cron expression, e.g. "0 13 * * *"
}
