// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// InviteEmailData holds data for the member invite email.
type InviteEmailData struct {
	SiteName  string
	OrgName   string
	SetupLink string
	ExpiresIn string // e.g., "24 hours"
}

// BuildInviteEmail creates the invite email with both HTML and text bodies.
func BuildInviteEmail(data InviteEmailData) Email {
	return Email{
		Subject:  fmt.Sprintf("You've been invited to %s on %s", data.OrgName, data.SiteName),
		TextBody: buildInviteText(data),
		HTMLBody: buildInviteHTML(data),
	}
}

func buildInviteText(data InviteEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("You've been invited to join %s on %s.\n\n", data.OrgName, data.SiteName))
	buf.WriteString("Set your password to finish creating your account:\n")
	buf.WriteString(data.SetupLink + "\n\n")
	buf.WriteString(fmt.Sprintf("This link expires in %s.\n\n", data.ExpiresIn))
	buf.WriteString("If you weren't expecting this invitation, you can safely ignore this email.\n")
	return buf.String()
}

func buildInviteHTML(data InviteEmailData) string {
	tmpl := template.Must(template.New("invite").Parse(inviteHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const inviteHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Invitation</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <tr>
            <td style="padding: 32px;">
              <h1 style="margin: 0 0 16px; font-size: 20px; color: #111827;">Join {{.OrgName}} on {{.SiteName}}</h1>
              <p style="margin: 0 0 24px; font-size: 15px; color: #374151;">
                You've been invited to join <strong>{{.OrgName}}</strong>.
                Set your password to finish creating your account.
              </p>
              <table role="presentation" cellspacing="0" cellpadding="0">
                <tr>
                  <td style="border-radius: 6px; background-color: #2563eb;">
                    <a href="{{.SetupLink}}" style="display: inline-block; padding: 12px 24px; font-size: 15px; color: #ffffff; text-decoration: none;">Set your password</a>
                  </td>
                </tr>
              </table>
              <p style="margin: 24px 0 0; font-size: 13px; color: #6b7280;">
                This link expires in {{.ExpiresIn}}. If you weren't expecting this
                invitation, you can safely ignore this email.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

// ReminderItem is one due supply line in the reorder digest.
type ReminderItem struct {
	Name        string
	LastOrdered string // formatted date or "never"
}

// ReminderEmailData holds data for the reorder reminder digest.
type ReminderEmailData struct {
	SiteName     string
	OrgName      string
	Items        []ReminderItem
	DashboardURL string
}

// BuildReminderEmail creates the per-organization reorder digest.
func BuildReminderEmail(data ReminderEmailData) Email {
	return Email{
		Subject:  fmt.Sprintf("%s: %d supply item(s) due for reorder", data.SiteName, len(data.Items)),
		TextBody: buildReminderText(data),
		HTMLBody: buildReminderHTML(data),
	}
}

func buildReminderText(data ReminderEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("The following supplies for %s are due for reorder:\n\n", data.OrgName))
	for _, item := range data.Items {
		buf.WriteString(fmt.Sprintf("  - %s (last ordered: %s)\n", item.Name, item.LastOrdered))
	}
	buf.WriteString("\nReview and reorder:\n")
	buf.WriteString(data.DashboardURL + "\n")
	return buf.String()
}

func buildReminderHTML(data ReminderEmailData) string {
	tmpl := template.Must(template.New("reminder").Parse(reminderHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const reminderHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Reorder Reminder</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <tr>
            <td style="padding: 32px;">
              <h1 style="margin: 0 0 16px; font-size: 20px; color: #111827;">Supplies due for reorder</h1>
              <p style="margin: 0 0 16px; font-size: 15px; color: #374151;">
                These items for <strong>{{.OrgName}}</strong> have reached their
                reorder date:
              </p>
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="margin: 0 0 24px;">
                {{range .Items}}
                <tr>
                  <td style="padding: 8px 0; border-bottom: 1px solid #e5e7eb; font-size: 15px; color: #111827;">{{.Name}}</td>
                  <td style="padding: 8px 0; border-bottom: 1px solid #e5e7eb; font-size: 13px; color: #6b7280;" align="right">last ordered {{.LastOrdered}}</td>
                </tr>
                {{end}}
              </table>
              <table role="presentation" cellspacing="0" cellpadding="0">
                <tr>
                  <td style="border-radius: 6px; background-color: #2563eb;">
                    <a href="{{.DashboardURL}}" style="display: inline-block; padding: 12px 24px; font-size: 15px; color: #ffffff; text-decoration: none;">Open dashboard</a>
                  </td>
                </tr>
              </table>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

// ContactEmailData holds data for a support/contact forward.
type ContactEmailData struct {
	SiteName  string
	FromName  string
	FromEmail string
	Message   string // already sanitized by the handler
}

// BuildContactEmail creates the internal support forward. Text only; the
// support inbox does not need styled mail.
func BuildContactEmail(data ContactEmailData) Email {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Contact form submission on %s\n\n", data.SiteName))
	buf.WriteString(fmt.Sprintf("From: %s <%s>\n\n", data.FromName, data.FromEmail))
	buf.WriteString(data.Message)
	buf.WriteString("\n")
	return Email{
		Subject:  fmt.Sprintf("[%s] Contact form: %s", data.SiteName, data.FromName),
		TextBody: buf.String(),
	}
}
