// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"strings"

	organizationstore "github.com/dalemusser/restok/internal/app/store/organizations"
	supplystore "github.com/dalemusser/restok/internal/app/store/supplies"
	userstore "github.com/dalemusser/restok/internal/app/store/users"
	"github.com/dalemusser/restok/internal/app/system/mailer"
	"github.com/dalemusser/restok/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// reminderWorker is started here and stopped in Shutdown.
var reminderWorker *workers.Reminders

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. Restok
// uses it to launch the reorder reminder worker.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.RestokMongoDatabase

	sender := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		User:     appCfg.MailSMTPUser,
		Pass:     appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	}, logger)

	reminderWorker = workers.NewReminders(
		supplystore.New(db),
		userstore.New(db),
		organizationstore.New(db),
		sender,
		logger,
		workers.ReminderConfig{
			Schedule:     appCfg.ReminderSchedule,
			SiteName:     appCfg.SiteName,
			DashboardURL: strings.TrimRight(appCfg.BaseURL, "/") + "/supplies",
		},
	)
	return reminderWorker.Start()
}
