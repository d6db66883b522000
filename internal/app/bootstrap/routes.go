// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	authapifeature "github.com/dalemusser/restok/internal/app/features/authapi"
	billingfeature "github.com/dalemusser/restok/internal/app/features/billing"
	contactfeature "github.com/dalemusser/restok/internal/app/features/contact"
	healthfeature "github.com/dalemusser/restok/internal/app/features/health"
	internalapifeature "github.com/dalemusser/restok/internal/app/features/internalapi"
	orgapifeature "github.com/dalemusser/restok/internal/app/features/orgapi"
	suppliesfeature "github.com/dalemusser/restok/internal/app/features/supplies"
	"github.com/dalemusser/restok/internal/app/membership"
	auditstore "github.com/dalemusser/restok/internal/app/store/audit"
	organizationstore "github.com/dalemusser/restok/internal/app/store/organizations"
	setuptokenstore "github.com/dalemusser/restok/internal/app/store/setuptokens"
	supplystore "github.com/dalemusser/restok/internal/app/store/supplies"
	userstore "github.com/dalemusser/restok/internal/app/store/users"
	"github.com/dalemusser/restok/internal/app/system/auditlog"
	"github.com/dalemusser/restok/internal/app/system/identity"
	"github.com/dalemusser/restok/internal/app/system/mailer"
	"github.com/dalemusser/restok/internal/app/system/txn"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// Restok wires the membership engine over its Mongo directory and mounts
// the JSON API surfaces: org membership management, invite signup, the
// internal admin API, the Stripe billing webhook, supply item CRUD, the
// public contact form, and the health check.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.RestokMongoDatabase

	verifier, err := identity.NewVerifier(appCfg.JWTSecret)
	if err != nil {
		logger.Error("token verifier init failed", zap.Error(err))
		return nil, err
	}

	users := userstore.New(db)
	orgs := organizationstore.New(db)
	supplies := supplystore.New(db)
	tokens := setuptokenstore.New(db, appCfg.SetupTokenExpiry)

	sender := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		User:     appCfg.MailSMTPUser,
		Pass:     appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	}, logger)

	auditor := auditlog.New(auditstore.New(db), logger, auditlog.Config{
		Auth:    appCfg.AuditLogAuth,
		Admin:   appCfg.AuditLogAdmin,
		Billing: appCfg.AuditLogBilling,
	})

	dir := membership.NewMongoDirectory(users, orgs, txn.NewRunner(deps.RestokMongoClient, logger))
	ids := identity.NewAdminClient(appCfg.IdentityBaseURL, appCfg.IdentityAPIKey)
	engine := membership.NewEngine(dir, ids, tokens, sender, auditor, logger, membership.Config{
		SiteName: appCfg.SiteName,
		BaseURL:  appCfg.BaseURL,
	})

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.RestokMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Membership management (bearer-authenticated)
	orgHandler := orgapifeature.NewHandler(engine, logger)
	r.Mount("/org", orgapifeature.Routes(orgHandler, verifier, logger))

	// Invite signup (the setup token is the credential)
	authHandler := authapifeature.NewHandler(engine, logger)
	r.Mount("/auth", authapifeature.Routes(authHandler))

	// Internal admin API (internalAdmin-gated)
	internalHandler := internalapifeature.NewHandler(engine, logger)
	r.Mount("/internal", internalapifeature.Routes(internalHandler, verifier, logger))

	// Stripe billing webhook (signature-verified, unauthenticated)
	billingHandler := billingfeature.NewHandler(engine, appCfg.StripeWebhookSecret, logger)
	r.Mount("/billing", billingfeature.Routes(billingHandler))

	// Supply item CRUD (bearer-authenticated, org-scoped)
	suppliesHandler := suppliesfeature.NewHandler(supplies, engine, logger)
	r.Mount("/supplies", suppliesfeature.Routes(suppliesHandler, verifier, logger))

	// Public contact form
	contactHandler := contactfeature.NewHandler(sender, auditor, appCfg.SiteName, appCfg.SupportEmail, logger)
	r.Mount("/contact", contactfeature.Routes(contactHandler))

	return r, nil
}
