package mail

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"
)

// ContactParams is the user supplied content of a contact submission
type ContactParams struct {
	Name    string
	Email   string
	Subject string
	Message string
}

type contactHTMLParams struct {
	Name    template.HTML
	Email   template.HTML
	Subject template.HTML
	Message template.HTML
}

var (
	//go:embed templates/contact.html
	contactTemplateRaw string

	contactTemplate = template.Must(template.New("contact").Parse(contactTemplateRaw))

	htmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#039;",
	)
)

// EscapeHTML escapes & < > " and ' so user text cannot form markup
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// SubjectLine is the subject used for contact notifications
func SubjectLine(subject string) string {
	return "Portfolio Contact: " + subject
}

// RenderContactText renders the plain text body
func RenderContactText(p ContactParams) string {
	return fmt.Sprintf("Name: %s\nEmail: %s\n\nMessage: %s", p.Name, p.Email, p.Message)
}

// RenderContactHTML renders the HTML body. Values are escaped here and passed
// to the template as trusted HTML so the exact entities above are used and
// message newlines can become <br>.
func RenderContactHTML(p ContactParams) (string, error) {
	//nolint:gosec // every value is escaped before conversion
	params := contactHTMLParams{
		Name:    template.HTML(EscapeHTML(p.Name)),
		Email:   template.HTML(EscapeHTML(p.Email)),
		Subject: template.HTML(EscapeHTML(p.Subject)),
		Message: template.HTML(strings.ReplaceAll(EscapeHTML(p.Message), "\n", "<br>")),
	}

	var buf bytes.Buffer
	if err := contactTemplate.Execute(&buf, params); err != nil {
		return "", fmt.Errorf("render contact template: %w", err)
	}
	return buf.String(), nil
}

// NewContactMessage builds the outbound notification for a contact submission
func NewContactMessage(from, to string, p ContactParams) (Message, error) {
	html, err := RenderContactHTML(p)
	if err != nil {
		return Message{}, err
	}
	return Message{
		From:    from,
		To:      to,
		Subject: SubjectLine(p.Subject),
		Text:    RenderContactText(p),
		HTML:    html,
	}, nil
}
