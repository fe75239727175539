package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nova-graduation/backend/internal/models"
)

// Links builds the public frontend URLs embedded in emails.
type Links struct {
	base string
}

// NewLinks creates a link builder from the public base URL.
func NewLinks(baseURL string) Links {
	return Links{base: strings.TrimRight(baseURL, "/")}
}

// Invitation is the attendance confirmation entry point.
func (l Links) Invitation(token string) string {
	return l.base + "/registration?token=" + token
}

// LevelTwo is the guest registration page.
func (l Links) LevelTwo(token string) string {
	return l.base + "/registration/level2/" + token
}

// LevelThree is the amendment page.
func (l Links) LevelThree(token string) string {
	return l.base + "/registration/level3/" + token
}

// DispatchLog records dispatch attempts. Implementations must tolerate being
// called after a failed send.
type DispatchLog interface {
	Record(ctx context.Context, entry *models.EmailLog) error
}

// Notifier renders and dispatches the workflow emails, recording every
// attempt to the dispatch log best-effort. A log write failure never fails
// the dispatch.
type Notifier struct {
	mailer *Mailer
	links  Links
	logs   DispatchLog
	logger *zap.Logger
}

// NewNotifier creates a notifier.
func NewNotifier(mailer *Mailer, links Links, logs DispatchLog, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{mailer: mailer, links: links, logs: logs, logger: logger}
}

// Simulated reports whether the underlying mailer is in simulated mode.
func (n *Notifier) Simulated() bool {
	return n.mailer.Simulated()
}

// SendInvitation mails the attendance confirmation link.
func (n *Notifier) SendInvitation(ctx context.Context, g *models.Graduate, token string) error {
	subject, body, err := renderInvitation(g.FirstName, n.links.Invitation(token))
	if err != nil {
		return err
	}
	return n.dispatch(ctx, g.ID, models.EmailTypeInvitation, g.Email, subject, body)
}

// SendLevelTwoLink mails the guest registration link.
func (n *Notifier) SendLevelTwoLink(ctx context.Context, g *models.Graduate, token string) error {
	subject, body, err := renderLevelTwoLink(g.FirstName, n.links.LevelTwo(token))
	if err != nil {
		return err
	}
	return n.dispatch(ctx, g.ID, models.EmailTypeLevelTwoLink, g.Email, subject, body)
}

// SendAttendeeSummary mails the registration summary with the amendment link.
func (n *Notifier) SendAttendeeSummary(ctx context.Context, g *models.Graduate, declaredCount int, attendees []models.Attendee, token string) error {
	subject, body, err := renderAttendeeSummary(g.FirstName, declaredCount, attendees, n.links.LevelThree(token))
	if err != nil {
		return err
	}
	return n.dispatch(ctx, g.ID, models.EmailTypeAttendeeSummary, g.Email, subject, body)
}

func (n *Notifier) dispatch(ctx context.Context, graduateID uuid.UUID, emailType, to, subject, body string) error {
	sendErr := n.mailer.Send(ctx, to, subject, body)

	entry := &models.EmailLog{
		GraduateID:     &graduateID,
		EmailType:      emailType,
		RecipientEmail: to,
		Subject:        subject,
	}
	now := time.Now()
	switch {
	case sendErr != nil:
		entry.Status = models.EmailStatusFailed
		entry.ErrorMessage = sendErr.Error()
	case n.mailer.Simulated():
		entry.Status = models.EmailStatusSimulated
		entry.SentAt = &now
	default:
		entry.Status = models.EmailStatusSent
		entry.SentAt = &now
	}
	if n.logs != nil {
		if logErr := n.logs.Record(ctx, entry); logErr != nil {
			n.logger.Warn("email log write failed",
				zap.Error(logErr),
				zap.String("email_type", emailType),
				zap.String("recipient", to),
			)
		}
	}

	if sendErr != nil {
		return fmt.Errorf("send %s email to %s: %w", emailType, to, sendErr)
	}
	return nil
}
