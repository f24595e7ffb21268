package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type ownerMailData struct {
	OwnerName string
	Subject   string
	Body      string
}

func renderEmailTemplate(name string, data any) (string, error) {
	tmpl, err := template.New(name).ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render email template %s: %w", name, err)
	}
	return buf.String(), nil
}
