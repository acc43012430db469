package email

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Domenick1991/travelease/internal/domain"
)

type message struct {
	Subject string
	Body    string
}

type templateData struct {
	Name       string
	Code       string
	TTLMinutes int
	Data       map[string]string
}

var subjects = map[domain.NotificationKind]string{
	domain.NotificationEmailVerification: "Verify your TravelEase email",
	domain.NotificationPasswordReset:     "Your TravelEase password reset code",
	domain.NotificationAccountDeletion:   "Confirm your TravelEase account deletion",
	domain.NotificationBookingCreated:    "Booking {{.Data.reference}} received",
	domain.NotificationBookingCancelled:  "Booking {{.Data.reference}} cancelled",
	domain.NotificationBookingUpdated:    "Booking {{.Data.reference}} is now {{.Data.status}}",
	domain.NotificationBookingExpired:    "Booking {{.Data.reference}} expired",
}

const greeting = `Hello{{if .Name}} {{.Name}}{{end}},

`

const codeFooter = `

The code expires in {{.TTLMinutes}} minutes. If you did not request it, ignore this email.
`

var bodies = map[domain.NotificationKind]string{
	domain.NotificationEmailVerification: greeting + `Your email verification code is {{.Code}}.` + codeFooter,
	domain.NotificationPasswordReset:     greeting + `Use {{.Code}} to reset your password.` + codeFooter,
	domain.NotificationAccountDeletion:   greeting + `Use {{.Code}} to confirm deletion of your account. This cannot be undone.` + codeFooter,
	domain.NotificationBookingCreated: greeting + `We received booking {{.Data.reference}} for {{.Data.total}} {{.Data.currency}}.
{{- if .Data.expires_at}} Please complete payment before {{.Data.expires_at}}.{{end}}
`,
	domain.NotificationBookingCancelled: greeting + `Booking {{.Data.reference}} has been cancelled.
`,
	domain.NotificationBookingUpdated: greeting + `Booking {{.Data.reference}} status changed to {{.Data.status}}.
`,
	domain.NotificationBookingExpired: greeting + `Booking {{.Data.reference}} expired before payment and its seats were released.
`,
}

type renderer struct {
	subjects map[domain.NotificationKind]*template.Template
	bodies   map[domain.NotificationKind]*template.Template
}

func newRenderer() *renderer {
	r := &renderer{
		subjects: make(map[domain.NotificationKind]*template.Template, len(subjects)),
		bodies:   make(map[domain.NotificationKind]*template.Template, len(bodies)),
	}
	for kind, text := range subjects {
		r.subjects[kind] = template.Must(template.New(string(kind) + "_subject").Option("missingkey=zero").Parse(text))
	}
	for kind, text := range bodies {
		r.bodies[kind] = template.Must(template.New(string(kind)).Option("missingkey=zero").Parse(text))
	}
	return r
}

func (r *renderer) render(n domain.Notification) (message, error) {
	subject, ok := r.subjects[n.Kind]
	if !ok {
		return message{}, fmt.Errorf("unknown notification kind %q", n.Kind)
	}
	data := templateData{Name: n.UserName, Code: n.Code, TTLMinutes: n.TTLMinutes, Data: n.Data}

	var sb, bb bytes.Buffer
	if err := subject.Execute(&sb, data); err != nil {
		return message{}, err
	}
	if err := r.bodies[n.Kind].Execute(&bb, data); err != nil {
		return message{}, err
	}
	return message{Subject: sb.String(), Body: bb.String()}, nil
}
