// internal/app/system/workers/reminders.go

// Package workers holds background jobs that run alongside the HTTP server.
package workers

import (
	"context"
	"time"

	"github.com/dalemusser/restok/internal/app/system/mailer"
	"github.com/dalemusser/restok/internal/domain/models"
	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// SupplySource is the slice of the supply store the reminder job reads and
// advances. Satisfied by *supplystore.Store.
type SupplySource interface {
	ListDue(ctx context.Context, now time.Time) ([]models.SupplyItem, error)
	Snooze(ctx context.Context, id primitive.ObjectID, from time.Time) error
}

// Roster resolves the recipients of an organization's digest. Satisfied by
// *userstore.Store.
type Roster interface {
	ListPrivilegedByOrg(ctx context.Context, orgID string) ([]models.User, error)
}

// OrgSource resolves organization names for the digest. Satisfied by
// *organizationstore.Store.
type OrgSource interface {
	GetByID(ctx context.Context, id string) (*models.Organization, error)
}

// ReminderConfig controls the reorder reminder job.
type ReminderConfig struct {
	Schedule     string // cron expression, e.g. "0 13 * * *"
	SiteName     string
	DashboardURL string
}

// Reminders is a scheduled worker that mails each organization a digest of
// supply items whose next reminder date has arrived, then pushes those
// items out by their reorder cadence so the next run does not repeat them.
type Reminders struct {
	supplies SupplySource
	users    Roster
	orgs     OrgSource
	mail     mailer.Sender
	log      *zap.Logger
	cfg      ReminderConfig

	cron *cron.Cron
}

// NewReminders creates the reorder reminder worker.
func NewReminders(supplies SupplySource, users Roster, orgs OrgSource, mail mailer.Sender, logger *zap.Logger, cfg ReminderConfig) *Reminders {
	return &Reminders{
		supplies: supplies,
		users:    users,
		orgs:     orgs,
		mail:     mail,
		log:      logger,
		cfg:      cfg,
	}
}

// Start schedules the job. Returns an error if the cron expression is
// invalid.
func (w *Reminders) Start() error {
	w.cron = cron.New()
	_, err := w.cron.AddFunc(w.cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		w.RunOnce(ctx, time.Now().UTC())
	})
	if err != nil {
		return err
	}
	w.cron.Start()
	w.log.Info("reminder worker started", zap.String("schedule", w.cfg.Schedule))
	return nil
}

// Stop cancels the schedule and waits for a running job to finish.
func (w *Reminders) Stop() {
	if w.cron == nil {
		return
	}
	<-w.cron.Stop().Done()
	w.log.Info("reminder worker stopped")
}

// RunOnce executes a single reminder pass: collect due items, group them by
// organization, mail the digest to that org's owner and admins, and snooze
// each delivered item. An org whose digest fails is skipped and retried on
// the next run because its items are not snoozed.
func (w *Reminders) RunOnce(ctx context.Context, now time.Time) {
	due, err := w.supplies.ListDue(ctx, now)
	if err != nil {
		w.log.Error("reminder pass: listing due items failed", zap.Error(err))
		return
	}
	if len(due) == 0 {
		return
	}

	// ListDue sorts by organization, so items group into contiguous runs.
	byOrg := make(map[string][]models.SupplyItem)
	var orgOrder []string
	for _, item := range due {
		if _, seen := byOrg[item.OrganizationID]; !seen {
			orgOrder = append(orgOrder, item.OrganizationID)
		}
		byOrg[item.OrganizationID] = append(byOrg[item.OrganizationID], item)
	}

	for _, orgID := range orgOrder {
		w.remindOrg(ctx, orgID, byOrg[orgID], now)
	}
}

func (w *Reminders) remindOrg(ctx context.Context, orgID string, items []models.SupplyItem, now time.Time) {
	org, err := w.orgs.GetByID(ctx, orgID)
	if err != nil {
		w.log.Error("reminder pass: org lookup failed",
			zap.String("org_id", orgID), zap.Error(err))
		return
	}

	recipients, err := w.users.ListPrivilegedByOrg(ctx, orgID)
	if err != nil {
		w.log.Error("reminder pass: recipient lookup failed",
			zap.String("org_id", orgID), zap.Error(err))
		return
	}
	if len(recipients) == 0 {
		w.log.Warn("reminder pass: org has no privileged members",
			zap.String("org_id", orgID))
		return
	}

	digest := make([]mailer.ReminderItem, 0, len(items))
	for _, item := range items {
		last := "never"
		if item.LastOrderedAt != nil {
			last = item.LastOrderedAt.Format("Jan 2, 2006")
		}
		digest = append(digest, mailer.ReminderItem{Name: item.Name, LastOrdered: last})
	}

	msg := mailer.BuildReminderEmail(mailer.ReminderEmailData{
		SiteName:     w.cfg.SiteName,
		OrgName:      org.Name,
		Items:        digest,
		DashboardURL: w.cfg.DashboardURL,
	})

	sent := 0
	for _, u := range recipients {
		per := msg
		per.To = u.Email
		if err := w.mail.Send(per); err != nil {
			w.log.Error("reminder pass: send failed",
				zap.String("org_id", orgID), zap.String("to", u.Email), zap.Error(err))
			continue
		}
		sent++
	}
	if sent == 0 {
		// Nothing delivered; leave the items due so the next run retries.
		return
	}

	for _, item := range items {
		if err := w.supplies.Snooze(ctx, item.ID, now); err != nil {
			w.log.Error("reminder pass: snooze failed",
				zap.String("item_id", item.ID.Hex()), zap.Error(err))
		}
	}

	w.log.Info("reminder digest sent",
		zap.String("org_id", orgID),
		zap.Int("items", len(items)),
		zap.Int("recipients", sent))
}
