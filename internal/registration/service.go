package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nova-graduation/backend/internal/models"
)

var (
	// ErrGraduateNotFound means no graduate row matches the given email.
	ErrGraduateNotFound = errors.New("graduate not found")
	// ErrInvalidToken covers wrong, expired, and out-of-stage tokens alike;
	// callers must not let clients tell these apart.
	ErrInvalidToken = errors.New("invalid or expired registration token")
)

// GraduateStore is the graduate persistence consumed by the state machine.
type GraduateStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Graduate, error)
	GetByValidToken(ctx context.Context, token string) (*models.Graduate, error)
	SubmitDetails(ctx context.Context, id uuid.UUID, firstName, lastName, promotion string, attending bool, token string, expiry time.Time) error
	AdvanceToAmend(ctx context.Context, id uuid.UUID, token string, expiry time.Time) error
	MarkComplete(ctx context.Context, id uuid.UUID) error
}

// AttendeeStore is the guest persistence consumed by the state machine.
type AttendeeStore interface {
	ListByGraduate(ctx context.Context, graduateID uuid.UUID) ([]models.Attendee, error)
	DeleteByGraduate(ctx context.Context, graduateID uuid.UUID) error
	Insert(ctx context.Context, graduateID uuid.UUID, firstName, lastName string, dateOfBirth models.Date) (*models.Attendee, error)
	UpdateScoped(ctx context.Context, id, graduateID uuid.UUID, firstName, lastName string, dateOfBirth models.Date) (bool, error)
}

// Notifier dispatches the stage emails. Dispatch is synchronous: a failure
// here fails the request even though the state change already committed.
type Notifier interface {
	SendLevelTwoLink(ctx context.Context, g *models.Graduate, token string) error
	SendAttendeeSummary(ctx context.Context, g *models.Graduate, declaredCount int, attendees []models.Attendee, token string) error
}

// TokenIssuer mints stage tokens.
type TokenIssuer interface {
	Issue() (token string, expiry time.Time, err error)
}

// Service drives the three-level registration flow.
type Service struct {
	graduates GraduateStore
	attendees AttendeeStore
	issuer    TokenIssuer
	notifier  Notifier
}

// NewService creates the registration service.
func NewService(graduates GraduateStore, attendees AttendeeStore, issuer TokenIssuer, notifier Notifier) *Service {
	return &Service{
		graduates: graduates,
		attendees: attendees,
		issuer:    issuer,
		notifier:  notifier,
	}
}

// Level1Input is the attendance confirmation payload.
type Level1Input struct {
	Email       string `json:"email" binding:"required,email"`
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Promotion   string `json:"promotion"`
	IsAttending *bool  `json:"is_attending" binding:"required"`
}

// AttendeeEntry is one guest in a Level 2 or Level 3 payload. ID is only
// honored on Level 3 updates.
type AttendeeEntry struct {
	ID          *uuid.UUID `json:"id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	DateOfBirth string     `json:"date_of_birth"`
}

// Level2Input is the guest registration payload.
type Level2Input struct {
	AttendeeCount *int            `json:"attendee_count" binding:"required"`
	Attendees     []AttendeeEntry `json:"attendees"`
}

// Level3View is what the amendment page reads and what updates return.
type Level3View struct {
	Email                string            `json:"email"`
	FirstName            string            `json:"first_name"`
	LastName             string            `json:"last_name"`
	Promotion            string            `json:"promotion"`
	RegistrationComplete bool              `json:"registration_complete"`
	Attendees            []models.Attendee `json:"attendees"`
}

// normalize validates an entry and parses its date of birth, truncating any
// time-of-day or timezone suffix. Entries missing a name or a parseable date
// are reported as not ok and skipped by callers.
func (e AttendeeEntry) normalize() (firstName, lastName string, dob models.Date, ok bool) {
	if strings.TrimSpace(e.FirstName) == "" || strings.TrimSpace(e.LastName) == "" {
		return "", "", models.Date{}, false
	}
	d, err := models.ParseDate(e.DateOfBirth)
	if err != nil {
		return "", "", models.Date{}, false
	}
	return e.FirstName, e.LastName, d, true
}

func (s *Service) resolveForStage(ctx context.Context, token string, stage models.Stage) (*models.Graduate, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	g, err := s.graduates.GetByValidToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("resolve token: %w", err)
	}
	if g == nil || g.RegistrationStage != stage {
		return nil, ErrInvalidToken
	}
	return g, nil
}

// SubmitLevel1 records the attendance answer for the graduate matching the
// email, advances to stage 2 and rotates the token. Attending graduates get
// the guest registration link mailed; declining ones keep the stored token
// but never receive it.
func (s *Service) SubmitLevel1(ctx context.Context, in Level1Input) (*models.Graduate, error) {
	g, err := s.graduates.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("lookup graduate: %w", err)
	}
	if g == nil {
		return nil, ErrGraduateNotFound
	}

	token, expiry, err := s.issuer.Issue()
	if err != nil {
		return nil, err
	}

	attending := in.IsAttending != nil && *in.IsAttending
	promotion := in.Promotion
	if promotion == "" {
		promotion = g.Promotion
	}
	if err := s.graduates.SubmitDetails(ctx, g.ID, in.FirstName, in.LastName, promotion, attending, token, expiry); err != nil {
		return nil, fmt.Errorf("store details: %w", err)
	}

	g.FirstName = in.FirstName
	g.LastName = in.LastName
	g.Promotion = promotion
	g.IsAttending = &attending
	g.RegistrationStage = models.StageGuests

	if attending {
		if err := s.notifier.SendLevelTwoLink(ctx, g, token); err != nil {
			return nil, fmt.Errorf("send guest registration link: %w", err)
		}
	}
	return g, nil
}

// SubmitLevel2 replaces the graduate's guest list with the submitted entries,
// advances to stage 3 and rotates the token. The replacement is a sequence of
// discrete statements, not a transaction. Entries missing a name or date of
// birth are dropped without error.
func (s *Service) SubmitLevel2(ctx context.Context, token string, in Level2Input) ([]models.Attendee, error) {
	g, err := s.resolveForStage(ctx, token, models.StageGuests)
	if err != nil {
		return nil, err
	}

	if err := s.attendees.DeleteByGraduate(ctx, g.ID); err != nil {
		return nil, fmt.Errorf("clear attendees: %w", err)
	}
	stored := make([]models.Attendee, 0, len(in.Attendees))
	for _, entry := range in.Attendees {
		first, last, dob, ok := entry.normalize()
		if !ok {
			continue
		}
		a, err := s.attendees.Insert(ctx, g.ID, first, last, dob)
		if err != nil {
			return nil, fmt.Errorf("store attendee: %w", err)
		}
		stored = append(stored, *a)
	}

	next, expiry, err := s.issuer.Issue()
	if err != nil {
		return nil, err
	}
	if err := s.graduates.AdvanceToAmend(ctx, g.ID, next, expiry); err != nil {
		return nil, fmt.Errorf("advance stage: %w", err)
	}
	g.RegistrationStage = models.StageAmend

	declared := 0
	if in.AttendeeCount != nil {
		declared = *in.AttendeeCount
	}
	if err := s.notifier.SendAttendeeSummary(ctx, g, declared, stored, next); err != nil {
		return nil, fmt.Errorf("send summary: %w", err)
	}
	return stored, nil
}

// GetLevel3 returns the graduate and guest list behind a stage 3 token.
func (s *Service) GetLevel3(ctx context.Context, token string) (*Level3View, error) {
	g, err := s.resolveForStage(ctx, token, models.StageAmend)
	if err != nil {
		return nil, err
	}
	return s.level3View(ctx, g)
}

// UpdateLevel3 amends guest details and marks the registration complete. An
// entry with an id updates that attendee scoped to the graduate; an id
// belonging to someone else matches zero rows and changes nothing. An entry
// without an id is inserted. The token is not rotated, so repeat amendments
// keep working until it expires.
func (s *Service) UpdateLevel3(ctx context.Context, token string, entries []AttendeeEntry) (*Level3View, error) {
	g, err := s.resolveForStage(ctx, token, models.StageAmend)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		first, last, dob, ok := entry.normalize()
		if !ok {
			continue
		}
		if entry.ID != nil {
			if _, err := s.attendees.UpdateScoped(ctx, *entry.ID, g.ID, first, last, dob); err != nil {
				return nil, fmt.Errorf("update attendee: %w", err)
			}
			continue
		}
		if _, err := s.attendees.Insert(ctx, g.ID, first, last, dob); err != nil {
			return nil, fmt.Errorf("store attendee: %w", err)
		}
	}

	if err := s.graduates.MarkComplete(ctx, g.ID); err != nil {
		return nil, fmt.Errorf("mark complete: %w", err)
	}
	g.RegistrationComplete = true

	return s.level3View(ctx, g)
}

func (s *Service) level3View(ctx context.Context, g *models.Graduate) (*Level3View, error) {
	list, err := s.attendees.ListByGraduate(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	return &Level3View{
		Email:                g.Email,
		FirstName:            g.FirstName,
		LastName:             g.LastName,
		Promotion:            g.Promotion,
		RegistrationComplete: g.RegistrationComplete,
		Attendees:            list,
	}, nil
}
