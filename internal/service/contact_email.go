package service

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/metrixmedia/backend/internal/model"
	"github.com/metrixmedia/backend/internal/notify"
)

const notProvided = "Not provided"

var contactEmailHTML = template.Must(template.New("contact").Funcs(template.FuncMap{
	"nl2br": nl2br,
}).Parse(`<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Company:</strong> {{.Company}}</p>
<p><strong>Message:</strong></p>
<p>{{nl2br .Message}}</p>
`))

type contactEmailData struct {
	Name    string
	Email   string
	Company string
	Message string
}

// nl2br escapes s and turns newlines into <br>.
func nl2br(s string) template.HTML {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, l := range lines {
		lines[i] = template.HTMLEscapeString(l)
	}
	return template.HTML(strings.Join(lines, "<br>"))
}

// BuildContactEmail renders the notification for a stored submission.
func BuildContactEmail(sub *model.ContactSubmission, to, from string) (notify.Message, error) {
	data := contactEmailData{
		Name:    sub.Name,
		Email:   sub.Email,
		Company: notProvided,
		Message: sub.Message,
	}
	if sub.Company != nil && *sub.Company != "" {
		data.Company = *sub.Company
	}

	var html bytes.Buffer
	if err := contactEmailHTML.Execute(&html, data); err != nil {
		return notify.Message{}, fmt.Errorf("rendering contact email: %w", err)
	}

	text := fmt.Sprintf("Name: %s\nEmail: %s\nCompany: %s\n\nMessage:\n%s\n",
		data.Name, data.Email, data.Company, data.Message)

	return notify.Message{
		To:      to,
		From:    from,
		ReplyTo: sub.Email,
		Subject: "New Contact Form Submission from " + sub.Name,
		Text:    text,
		HTML:    html.String(),
	}, nil
}
