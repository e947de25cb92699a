package services

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/rpupo63/intern-hub-backend/config"
	"github.com/rpupo63/intern-hub-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"
)

type emailSender interface {
	SendEmail(ctx context.Context, subject, body string, recipients []string) error
}

type smsSender interface {
	SendSMS(to, body string) error
}

// Notifier tells admins about new applications by email and SMS. Channels
// without configuration are skipped.
type Notifier struct {
	email        emailSender
	sms          smsSender
	emailTo      []string
	phones       []string
	emailBreaker *gobreaker.CircuitBreaker
	smsBreaker   *gobreaker.CircuitBreaker
	logger       zerolog.Logger
}

func NewNotifier(cfg map[string]string) *Notifier {
	n := &Notifier{
		emailTo:      config.GetList(cfg, "ADMIN_NOTIFY_EMAILS"),
		phones:       config.GetList(cfg, "ADMIN_NOTIFY_PHONES"),
		emailBreaker: NewBreaker("notify-email", 30*time.Second),
		smsBreaker:   NewBreaker("notify-sms", 30*time.Second),
		logger:       log.With().Str("service", "notifier").Logger(),
	}
	if sender := NewEmailSender(cfg); sender != nil {
		n.email = sender
	}
	if sender := NewSMSSender(cfg); sender != nil {
		n.sms = sender
	}
	return n
}

// Enabled reports whether at least one channel can deliver.
func (n *Notifier) Enabled() bool {
	if n == nil {
		return false
	}
	return (n.email != nil && len(n.emailTo) > 0) || (n.sms != nil && len(n.phones) > 0)
}

// ApplicationReceived sends every configured notification concurrently and
// returns the first failure.
func (n *Notifier) ApplicationReceived(ctx context.Context, app *models.Application) error {
	if !n.Enabled() {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	if n.email != nil && len(n.emailTo) > 0 {
		g.Go(func() error {
			_, err := guard(n.emailBreaker, "email", func() (any, error) {
				return nil, n.email.SendEmail(ctx, applicationSubject(app), applicationEmailBody(app), n.emailTo)
			})
			return err
		})
	}
	if n.sms != nil {
		for _, phone := range n.phones {
			g.Go(func() error {
				_, err := guard(n.smsBreaker, "sms", func() (any, error) {
					return nil, n.sms.SendSMS(phone, applicationSMSBody(app))
				})
				return err
			})
		}
	}

	if err := g.Wait(); err != nil {
		n.logger.Warn().Err(err).Str("applicationID", app.ID).Msg("admin notification failed")
		return err
	}
	return nil
}

func applicationSubject(app *models.Application) string {
	return fmt.Sprintf("New internship application: %s", app.Name)
}

func applicationEmailBody(app *models.Application) string {
	var b strings.Builder
	b.WriteString("<h2>New internship application</h2><ul>")
	row := func(label, value string) {
		fmt.Fprintf(&b, "<li><strong>%s:</strong> %s</li>", label, html.EscapeString(value))
	}
	row("Name", app.Name)
	row("Email", app.Email)
	row("Contact", app.Contact)
	row("Location", app.Location)
	row("College", app.College)
	row("Graduation year", app.GradYear)
	row("Specialization", app.Specialization)
	row("Skills", app.Skills)
	row("Work type", string(app.WorkType))
	row("Projects", strings.Join(app.ProjectInterests, ", "))
	b.WriteString("</ul>")
	return b.String()
}

func applicationSMSBody(app *models.Application) string {
	return fmt.Sprintf("New application from %s (%s) for %s", app.Name, app.Email, strings.Join(app.ProjectInterests, ", "))
}
