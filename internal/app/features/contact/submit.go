// internal/app/features/contact/submit.go
package contact

import (
	"net/http"
	"strings"

	"github.com/dalemusser/restok/internal/app/features/api"
	"github.com/dalemusser/restok/internal/app/store/audit"
	"github.com/dalemusser/restok/internal/app/system/htmlsanitize"
	"github.com/dalemusser/restok/internal/app/system/mailer"
	"github.com/dalemusser/waffle/pantry/validate"
	"go.uber.org/zap"
)

const maxMessageLength = 5000

type submitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// HandleSubmit handles POST /contact. The message is user-generated text
// headed for a mail client, so tags are stripped before forwarding.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := api.Decode(w, r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(htmlsanitize.StripTags(req.Name))
	message := strings.TrimSpace(htmlsanitize.StripTags(req.Message))
	email := strings.TrimSpace(req.Email)

	switch {
	case name == "":
		api.Error(w, http.StatusBadRequest, "name is required")
		return
	case !validate.SimpleEmailValid(email):
		api.Error(w, http.StatusBadRequest, "a valid email is required")
		return
	case message == "":
		api.Error(w, http.StatusBadRequest, "message is required")
		return
	case len(message) > maxMessageLength:
		api.Error(w, http.StatusBadRequest, "message is too long")
		return
	}

	msg := mailer.BuildContactEmail(mailer.ContactEmailData{
		SiteName:  h.SiteName,
		FromName:  name,
		FromEmail: email,
		Message:   message,
	})
	msg.To = h.SupportEmail

	if err := h.Mail.Send(msg); err != nil {
		h.Log.Error("contact forward failed", zap.String("from", email), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.Auditor.Record(r.Context(), audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventContactSubmitted,
		Success:   true,
		Details:   map[string]string{"email": email},
	})
	api.Success(w, nil)
}
