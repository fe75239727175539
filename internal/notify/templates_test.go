package notify

import (
	"strings"
	"testing"

	"github.com/nova-graduation/backend/internal/models"
)

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func TestRenderInvitation(t *testing.T) {
	subject, body, err := renderInvitation("Maria", "https://x/registration?token=abc")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if subject == "" {
		t.Error("empty subject")
	}
	if !strings.Contains(body, "Hello Maria,") {
		t.Errorf("body missing greeting: %s", body)
	}
	if !strings.Contains(body, `href="https://x/registration?token=abc"`) {
		t.Errorf("body missing link: %s", body)
	}
}

func TestRenderInvitationWithoutName(t *testing.T) {
	_, body, err := renderInvitation("", "https://x/registration?token=abc")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(body, "Hello,") {
		t.Errorf("body missing nameless greeting: %s", body)
	}
	if strings.Contains(body, "Hello ,") {
		t.Errorf("greeting keeps a stray space: %s", body)
	}
}

func TestRenderLevelTwoLink(t *testing.T) {
	subject, body, err := renderLevelTwoLink("Maria", "https://x/registration/level2/tok")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if subject != subjectLevelTwo {
		t.Errorf("subject = %q", subject)
	}
	if !strings.Contains(body, `href="https://x/registration/level2/tok"`) {
		t.Errorf("body missing link: %s", body)
	}
}

func TestRenderSummaryWithoutGuests(t *testing.T) {
	_, body, err := renderAttendeeSummary("Maria", 0, nil, "https://x/registration/level3/tok")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(body, "<table") {
		t.Errorf("zero-guest summary renders a guest table: %s", body)
	}
	if !strings.Contains(body, "without") {
		t.Errorf("body does not state the no-guest outcome: %s", body)
	}
	if !strings.Contains(body, `href="https://x/registration/level3/tok"`) {
		t.Errorf("body missing amendment link: %s", body)
	}
}

func TestRenderSummaryWithGuests(t *testing.T) {
	attendees := []models.Attendee{
		{FirstName: "Jean", LastName: "Saunier", DateOfBirth: mustDate(t, "1906-12-09")},
		{FirstName: "Inge", LastName: "Saunier", DateOfBirth: mustDate(t, "1911-03-02")},
	}
	_, body, err := renderAttendeeSummary("Maria", 2, attendees, "https://x/registration/level3/tok")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		"2 guests", "<table", "Jean Saunier", "Inge Saunier", "1906-12-09", "1911-03-02",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q: %s", want, body)
		}
	}
}

func TestRenderSummarySingularGuest(t *testing.T) {
	attendees := []models.Attendee{
		{FirstName: "Jean", LastName: "Saunier", DateOfBirth: mustDate(t, "1906-12-09")},
	}
	_, body, err := renderAttendeeSummary("Maria", 1, attendees, "https://x/amend")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(body, "1 guest:") {
		t.Errorf("body missing singular count: %s", body)
	}
	if strings.Contains(body, "1 guests") {
		t.Errorf("singular count pluralized: %s", body)
	}
}

func TestLinks(t *testing.T) {
	links := NewLinks("https://grad.example.edu/")

	if got := links.Invitation("tok"); got != "https://grad.example.edu/registration?token=tok" {
		t.Errorf("Invitation = %q", got)
	}
	if got := links.LevelTwo("tok"); got != "https://grad.example.edu/registration/level2/tok" {
		t.Errorf("LevelTwo = %q", got)
	}
	if got := links.LevelThree("tok"); got != "https://grad.example.edu/registration/level3/tok" {
		t.Errorf("LevelThree = %q", got)
	}
}
