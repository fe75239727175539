package invitations

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nova-graduation/backend/internal/models"
	"github.com/nova-graduation/backend/internal/notify"
)

// GraduateStore is the graduate persistence consumed by the batch processor.
type GraduateStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Graduate, error)
	UpsertInvitation(ctx context.Context, email, firstName, lastName, promotion, token string, expiry time.Time) error
}

// TokenIssuer mints stage tokens.
type TokenIssuer interface {
	Issue() (token string, expiry time.Time, err error)
}

// Notifier dispatches invitation emails.
type Notifier interface {
	SendInvitation(ctx context.Context, g *models.Graduate, token string) error
	Simulated() bool
}

// InviteEntry is one row of a generate batch.
type InviteEntry struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Promotion string `json:"promotion"`
}

// InviteResult reports one processed entry. Results come back in input
// order; Error is set instead of Token/Link when the entry failed.
type InviteResult struct {
	Email string `json:"email"`
	Token string `json:"token,omitempty"`
	Link  string `json:"link,omitempty"`
	Error string `json:"error,omitempty"`
}

// SendResult reports one dispatch attempt of the send phase.
type SendResult struct {
	Email   string `json:"email"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Service runs the two-phase invitation batch: generate tokens, then send
// the invitation emails. Every item is processed independently; one bad
// entry never aborts the rest.
type Service struct {
	graduates GraduateStore
	issuer    TokenIssuer
	notifier  Notifier
	links     notify.Links
	logger    *zap.Logger
}

// NewService creates the invitations service.
func NewService(graduates GraduateStore, issuer TokenIssuer, notifier Notifier, links notify.Links, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		graduates: graduates,
		issuer:    issuer,
		notifier:  notifier,
		links:     links,
		logger:    logger,
	}
}

// Generate issues a fresh token per entry and upserts the graduate by email.
// A new graduate starts at stage 1 with the entry's identity fields; an
// existing one keeps its identity but gets the token replaced and its
// progress reset to stage 1. Results map one-to-one onto the input.
func (s *Service) Generate(ctx context.Context, entries []InviteEntry) []InviteResult {
	results := make([]InviteResult, 0, len(entries))
	for _, entry := range entries {
		results = append(results, s.generateOne(ctx, entry))
	}
	return results
}

func (s *Service) generateOne(ctx context.Context, entry InviteEntry) InviteResult {
	email := strings.TrimSpace(entry.Email)
	if email == "" {
		return InviteResult{Email: entry.Email, Error: "email is required"}
	}

	token, expiry, err := s.issuer.Issue()
	if err != nil {
		s.logger.Error("issue invitation token failed", zap.Error(err), zap.String("email", email))
		return InviteResult{Email: email, Error: "failed to issue token"}
	}
	if err := s.graduates.UpsertInvitation(ctx, email, entry.FirstName, entry.LastName, entry.Promotion, token, expiry); err != nil {
		s.logger.Error("store invitation failed", zap.Error(err), zap.String("email", email))
		return InviteResult{Email: email, Error: "failed to store invitation"}
	}

	return InviteResult{
		Email: email,
		Token: token,
		Link:  s.links.Invitation(token),
	}
}

// Send dispatches the invitation email for each address using its stored
// token, returning one result per address plus the count of successful
// dispatches. Simulated dispatch counts as success.
func (s *Service) Send(ctx context.Context, emails []string) ([]SendResult, int) {
	results := make([]SendResult, 0, len(emails))
	sent := 0
	for _, email := range emails {
		res := s.sendOne(ctx, email)
		if res.Status == "success" {
			sent++
		}
		results = append(results, res)
	}
	return results, sent
}

func (s *Service) sendOne(ctx context.Context, email string) SendResult {
	email = strings.TrimSpace(email)
	if email == "" {
		return SendResult{Email: email, Status: "error", Message: "email is required"}
	}

	g, err := s.graduates.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error("invitation lookup failed", zap.Error(err), zap.String("email", email))
		return SendResult{Email: email, Status: "error", Message: "lookup failed"}
	}
	if g == nil {
		return SendResult{Email: email, Status: "error", Message: "no invitation found for this email"}
	}
	if g.RegistrationToken == nil || *g.RegistrationToken == "" {
		return SendResult{Email: email, Status: "error", Message: "no invitation token on file"}
	}

	if err := s.notifier.SendInvitation(ctx, g, *g.RegistrationToken); err != nil {
		s.logger.Error("send invitation failed", zap.Error(err), zap.String("email", email))
		return SendResult{Email: email, Status: "error", Message: "failed to send invitation"}
	}

	message := "invitation sent"
	if s.notifier.Simulated() {
		message = "invitation simulated"
	}
	return SendResult{Email: email, Status: "success", Message: message}
}
