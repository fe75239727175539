package invitations

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nova-graduation/backend/internal/models"
	"github.com/nova-graduation/backend/internal/notify"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeGraduateStore keeps graduate rows by email and emulates the
// repository's upsert: an existing row keeps its identity but has its token
// replaced and its progress reset.
type fakeGraduateStore struct {
	rows      map[string]*models.Graduate
	upserts   []string
	upsertErr map[string]error
	getErr    map[string]error
}

func newFakeGraduateStore() *fakeGraduateStore {
	return &fakeGraduateStore{rows: make(map[string]*models.Graduate)}
}

func (f *fakeGraduateStore) GetByEmail(ctx context.Context, email string) (*models.Graduate, error) {
	if err := f.getErr[email]; err != nil {
		return nil, err
	}
	g, ok := f.rows[email]
	if !ok {
		return nil, nil
	}
	row := *g
	return &row, nil
}

func (f *fakeGraduateStore) UpsertInvitation(ctx context.Context, email, firstName, lastName, promotion, token string, expiry time.Time) error {
	if err := f.upsertErr[email]; err != nil {
		return err
	}
	f.upserts = append(f.upserts, email)
	if g, ok := f.rows[email]; ok {
		g.RegistrationStage = models.StageDetails
		g.RegistrationComplete = false
		g.RegistrationToken = &token
		g.TokenExpiry = &expiry
		return nil
	}
	f.rows[email] = &models.Graduate{
		ID:                uuid.New(),
		Email:             email,
		FirstName:         firstName,
		LastName:          lastName,
		Promotion:         promotion,
		RegistrationStage: models.StageDetails,
		RegistrationToken: &token,
		TokenExpiry:       &expiry,
	}
	return nil
}

type fakeIssuer struct {
	n   int
	err error
}

func (f *fakeIssuer) Issue() (string, time.Time, error) {
	if f.err != nil {
		return "", time.Time{}, f.err
	}
	f.n++
	return "token-" + strconv.Itoa(f.n), testNow.Add(48 * time.Hour), nil
}

type fakeInviteNotifier struct {
	sent      []string
	tokens    []string
	err       error
	simulated bool
}

func (f *fakeInviteNotifier) SendInvitation(ctx context.Context, g *models.Graduate, token string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, g.Email)
	f.tokens = append(f.tokens, token)
	return nil
}

func (f *fakeInviteNotifier) Simulated() bool { return f.simulated }

type inviteFixture struct {
	store    *fakeGraduateStore
	issuer   *fakeIssuer
	notifier *fakeInviteNotifier
	svc      *Service
}

func newInviteFixture() *inviteFixture {
	f := &inviteFixture{
		store:    newFakeGraduateStore(),
		issuer:   &fakeIssuer{},
		notifier: &fakeInviteNotifier{},
	}
	f.svc = NewService(f.store, f.issuer, f.notifier, notify.NewLinks("https://grad.example.edu"), zap.NewNop())
	return f
}

func TestGenerateOneResultPerEntryInOrder(t *testing.T) {
	f := newInviteFixture()

	results := f.svc.Generate(context.Background(), []InviteEntry{
		{Email: "first@x.com", FirstName: "Ada", LastName: "Byron", Promotion: "2026"},
		{Email: "   "},
		{Email: "second@x.com"},
	})
	if len(results) != 3 {
		t.Fatalf("got %d results, want one per entry", len(results))
	}
	if results[0].Email != "first@x.com" || results[0].Token != "token-1" {
		t.Errorf("results[0] = %+v, want first@x.com with token-1", results[0])
	}
	if !strings.Contains(results[0].Link, "token-1") {
		t.Errorf("results[0].Link = %q, want embedded token", results[0].Link)
	}
	if results[1].Error == "" || results[1].Token != "" {
		t.Errorf("results[1] = %+v, want per-item error for blank email", results[1])
	}
	if results[2].Email != "second@x.com" || results[2].Token != "token-2" {
		t.Errorf("results[2] = %+v, want second@x.com with token-2", results[2])
	}
	if len(f.store.upserts) != 2 {
		t.Errorf("upserts = %v, want the two valid entries only", f.store.upserts)
	}

	g := f.store.rows["first@x.com"]
	if g == nil || g.FirstName != "Ada" || g.Promotion != "2026" {
		t.Errorf("stored graduate = %+v, want identity fields from the entry", g)
	}
	if g.RegistrationStage != models.StageDetails {
		t.Errorf("stage = %d, want initial stage", g.RegistrationStage)
	}
}

func TestGenerateReinvitationResetsProgress(t *testing.T) {
	f := newInviteFixture()
	old := "previous-token"
	oldExpiry := testNow.Add(time.Hour)
	attending := true
	f.store.rows["again@x.com"] = &models.Graduate{
		ID:                   uuid.New(),
		Email:                "again@x.com",
		FirstName:            "Ada",
		LastName:             "Byron",
		IsAttending:          &attending,
		RegistrationStage:    models.StageAmend,
		RegistrationComplete: true,
		RegistrationToken:    &old,
		TokenExpiry:          &oldExpiry,
	}

	results := f.svc.Generate(context.Background(), []InviteEntry{{Email: "again@x.com"}})
	if results[0].Error != "" {
		t.Fatalf("re-invitation failed: %s", results[0].Error)
	}
	if results[0].Token == old {
		t.Error("re-invitation reused the previous token")
	}

	g := f.store.rows["again@x.com"]
	if g.RegistrationStage != models.StageDetails {
		t.Errorf("stage = %d, want reset to initial", g.RegistrationStage)
	}
	if g.RegistrationComplete {
		t.Error("registration_complete not reset")
	}
	if *g.RegistrationToken != results[0].Token {
		t.Errorf("stored token = %q, want the freshly issued %q", *g.RegistrationToken, results[0].Token)
	}
	if g.FirstName != "Ada" {
		t.Errorf("first name = %q, want identity kept on re-invitation", g.FirstName)
	}
}

func TestGeneratePerItemFailureIsolation(t *testing.T) {
	f := newInviteFixture()
	f.store.upsertErr = map[string]error{"broken@x.com": errors.New("constraint violation")}

	results := f.svc.Generate(context.Background(), []InviteEntry{
		{Email: "broken@x.com"},
		{Email: "fine@x.com"},
	})
	if results[0].Error == "" {
		t.Error("failed entry must carry a per-item error")
	}
	if results[1].Error != "" || results[1].Token == "" {
		t.Errorf("results[1] = %+v, want success despite the earlier failure", results[1])
	}
}

func TestSendPerItemStatuses(t *testing.T) {
	f := newInviteFixture()
	tok := "stored-token"
	expiry := testNow.Add(time.Hour)
	f.store.rows["ready@x.com"] = &models.Graduate{
		ID:                uuid.New(),
		Email:             "ready@x.com",
		RegistrationToken: &tok,
		TokenExpiry:       &expiry,
	}
	f.store.rows["tokenless@x.com"] = &models.Graduate{
		ID:    uuid.New(),
		Email: "tokenless@x.com",
	}

	results, sent := f.svc.Send(context.Background(), []string{
		"ready@x.com",
		"tokenless@x.com",
		"ghost@x.com",
		"",
	})
	if len(results) != 4 {
		t.Fatalf("got %d results, want one per email", len(results))
	}
	if results[0].Status != "success" {
		t.Errorf("results[0] = %+v, want success", results[0])
	}
	for i := 1; i < 4; i++ {
		if results[i].Status != "error" || results[i].Message == "" {
			t.Errorf("results[%d] = %+v, want per-item error with message", i, results[i])
		}
	}
	if sent != 1 {
		t.Errorf("sent = %d, want 1", sent)
	}
	if len(f.notifier.sent) != 1 || f.notifier.sent[0] != "ready@x.com" {
		t.Errorf("dispatched = %v, want only ready@x.com", f.notifier.sent)
	}
	if f.notifier.tokens[0] != "stored-token" {
		t.Errorf("dispatched token = %q, want the stored one", f.notifier.tokens[0])
	}
}

func TestSendSimulatedDispatch(t *testing.T) {
	f := newInviteFixture()
	f.notifier.simulated = true
	tok := "stored-token"
	f.store.rows["ready@x.com"] = &models.Graduate{
		ID:                uuid.New(),
		Email:             "ready@x.com",
		RegistrationToken: &tok,
	}

	results, sent := f.svc.Send(context.Background(), []string{"ready@x.com"})
	if sent != 1 || results[0].Status != "success" {
		t.Fatalf("results = %+v, sent = %d; simulated dispatch must count as success", results, sent)
	}
	if !strings.Contains(results[0].Message, "simulated") {
		t.Errorf("message = %q, want simulated marker", results[0].Message)
	}
}

func TestSendDispatchFailure(t *testing.T) {
	f := newInviteFixture()
	f.notifier.err = errors.New("smtp refused")
	tok := "stored-token"
	f.store.rows["ready@x.com"] = &models.Graduate{
		ID:                uuid.New(),
		Email:             "ready@x.com",
		RegistrationToken: &tok,
	}

	results, sent := f.svc.Send(context.Background(), []string{"ready@x.com"})
	if sent != 0 || results[0].Status != "error" {
		t.Errorf("results = %+v, sent = %d; dispatch failure must be a per-item error", results, sent)
	}
}
