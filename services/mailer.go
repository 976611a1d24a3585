package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"digital-ledger/config"
)

// Template identifiers for transactional sends.
const (
	TemplateWelcome = "welcome"
	TemplateDigest  = "digest"
)

var mailTemplates = map[string]string{
	TemplateWelcome: `<html><body>
<h2>Welcome to The Digital Ledger, {{.Name}}!</h2>
<p>Your account has been created. Browse the latest articles, episodes and
discussions whenever you are ready.</p>
<p>— The Digital Ledger team</p>
</body></html>`,
	TemplateDigest: `<html><body>
<h2>Your {{.Frequency}} digest</h2>
<p>Recently on The Digital Ledger:</p>
<ul>{{range .Articles}}<li><b>{{.Title}}</b> — {{.Excerpt}}</li>{{end}}</ul>
</body></html>`,
}

var mailSubjects = map[string]string{
	TemplateWelcome: "Welcome to The Digital Ledger",
	TemplateDigest:  "The Digital Ledger digest",
}

// Mailer sends templated transactional email. Sends are best-effort by
// contract: callers log failures and carry on.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	logger   *zap.Logger

	templates map[string]*template.Template

	// send is swappable for tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(cfg *config.Config, logger *zap.Logger) (*Mailer, error) {
	parsed := make(map[string]*template.Template, len(mailTemplates))
	for id, body := range mailTemplates {
		t, err := template.New(id).Parse(body)
		if err != nil {
			return nil, fmt.Errorf("parse mail template %s: %w", id, err)
		}
		parsed[id] = t
	}
	return &Mailer{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUser,
		password:  cfg.SMTPPassword,
		from:      cfg.MailFrom,
		logger:    logger,
		templates: parsed,
		send:      smtp.SendMail,
	}, nil
}

// Send renders the template and delivers it. Returns an error for the caller
// to log; delivery failure must never fail the calling workflow.
func (m *Mailer) Send(templateID, recipient string, vars interface{}) error {
	if m.host == "" {
		// Mail is optional in local setups.
		m.logger.Debug("smtp not configured, skipping send", zap.String("template", templateID))
		return nil
	}

	tmpl, ok := m.templates[templateID]
	if !ok {
		return fmt.Errorf("unknown mail template %q", templateID)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, vars); err != nil {
		return fmt.Errorf("render mail template %s: %w", templateID, err)
	}

	var msg strings.Builder
	msg.WriteString("From: " + m.from + "\r\n")
	msg.WriteString("To: " + recipient + "\r\n")
	msg.WriteString("Subject: " + mailSubjects[templateID] + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	return m.send(addr, auth, m.from, []string{recipient}, []byte(msg.String()))
}

// SendWelcome fires the welcome mail asynchronously; user creation succeeds
// regardless of the outcome.
func (m *Mailer) SendWelcome(recipient, name string) {
	go func() {
		if err := m.Send(TemplateWelcome, recipient, map[string]string{"Name": name}); err != nil {
			m.logger.Error("welcome mail failed", zap.String("recipient", recipient), zap.Error(err))
		}
	}()
}
