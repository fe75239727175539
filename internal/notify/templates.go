package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/nova-graduation/backend/internal/models"
)

// Subjects for the three workflow emails.
const (
	subjectInvitation = "Graduation ceremony: confirm your attendance"
	subjectLevelTwo   = "Graduation ceremony: register your guests"
	subjectSummary    = "Graduation ceremony: your registration summary"
)

const invitationHTML = `<html>
<body>
  <h2>Graduation Ceremony</h2>
  <p>{{if .FirstName}}Hello {{.FirstName}},{{else}}Hello,{{end}}</p>
  <p>You are invited to register for the graduation ceremony. Please confirm
  whether you will attend by following the link below.</p>
  <p><a href="{{.Link}}">Confirm your attendance</a></p>
  <p>The link is personal and expires, so please respond promptly.</p>
</body>
</html>`

const levelTwoHTML = `<html>
<body>
  <h2>Guest Registration</h2>
  <p>Hello {{.FirstName}},</p>
  <p>Thank you for confirming your attendance. You can now register the guests
  who will accompany you to the ceremony.</p>
  <p><a href="{{.Link}}">Register your guests</a></p>
</body>
</html>`

const summaryNoGuestsHTML = `<html>
<body>
  <h2>Registration Summary</h2>
  <p>Hello {{.FirstName}},</p>
  <p>Your registration is recorded: you will attend the ceremony without
  accompanying guests.</p>
  <p>If anything changes you can amend your registration here:</p>
  <p><a href="{{.Link}}">Amend your registration</a></p>
</body>
</html>`

const summaryWithGuestsHTML = `<html>
<body>
  <h2>Registration Summary</h2>
  <p>Hello {{.FirstName}},</p>
  <p>Your registration is recorded with {{.Count}} guest{{if ne .Count 1}}s{{end}}:</p>
  <table border="1" cellpadding="6" cellspacing="0">
    <tr><th>Name</th><th>Date of birth</th></tr>
    {{range .Guests}}<tr><td>{{.Name}}</td><td>{{.DateOfBirth}}</td></tr>
    {{end}}
  </table>
  <p>You can review or amend these details here:</p>
  <p><a href="{{.Link}}">Amend your registration</a></p>
</body>
</html>`

var (
	invitationTmpl        = template.Must(template.New("invitation").Parse(invitationHTML))
	levelTwoTmpl          = template.Must(template.New("level2_link").Parse(levelTwoHTML))
	summaryNoGuestsTmpl   = template.Must(template.New("summary_no_guests").Parse(summaryNoGuestsHTML))
	summaryWithGuestsTmpl = template.Must(template.New("summary_with_guests").Parse(summaryWithGuestsHTML))
)

type linkEmail struct {
	FirstName string
	Link      string
}

type guestRow struct {
	Name        string
	DateOfBirth string
}

type summaryEmail struct {
	FirstName string
	Count     int
	Guests    []guestRow
	Link      string
}

func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s template: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

func renderInvitation(firstName, link string) (subject, body string, err error) {
	body, err = render(invitationTmpl, linkEmail{FirstName: firstName, Link: link})
	return subjectInvitation, body, err
}

func renderLevelTwoLink(firstName, link string) (subject, body string, err error) {
	body, err = render(levelTwoTmpl, linkEmail{FirstName: firstName, Link: link})
	return subjectLevelTwo, body, err
}

// renderAttendeeSummary picks the template by the declared guest count: the
// no-guest variant for zero, otherwise the table variant listing each stored
// attendee's name and date of birth.
func renderAttendeeSummary(firstName string, declaredCount int, attendees []models.Attendee, link string) (subject, body string, err error) {
	if declaredCount == 0 {
		body, err = render(summaryNoGuestsTmpl, linkEmail{FirstName: firstName, Link: link})
		return subjectSummary, body, err
	}

	guests := make([]guestRow, 0, len(attendees))
	for _, a := range attendees {
		guests = append(guests, guestRow{
			Name:        a.FirstName + " " + a.LastName,
			DateOfBirth: a.DateOfBirth.String(),
		})
	}
	body, err = render(summaryWithGuestsTmpl, summaryEmail{
		FirstName: firstName,
		Count:     len(attendees),
		Guests:    guests,
		Link:      link,
	})
	return subjectSummary, body, err
}
