// internal/app/features/contact/handler.go

// Package contact forwards the public contact form to the support inbox.
package contact

import (
	"context"

	"github.com/dalemusser/restok/internal/app/store/audit"
	"github.com/dalemusser/restok/internal/app/system/mailer"
	"go.uber.org/zap"
)

// Recorder is the audit sink. Satisfied by *auditlog.Logger.
type Recorder interface {
	Record(ctx context.Context, e audit.Event)
}

type Handler struct {
	Mail         mailer.Sender
	Auditor      Recorder
	SiteName     string
	SupportEmail string
	Log          *zap.Logger
}

func NewHandler(mail mailer.Sender, auditor Recorder, siteName, supportEmail string, logger *zap.Logger) *Handler {
	return &Handler{
		Mail:         mail,
		Auditor:      auditor,
		SiteName:     siteName,
		SupportEmail: supportEmail,
		Log:          logger,
	}
}
