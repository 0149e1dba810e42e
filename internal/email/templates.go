// File: internal/email/templates.go
package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// CompanyEmailVerificationData feeds the company_email_verification template.
type CompanyEmailVerificationData struct {
	VerificationLink string
}

// ReferralRequestData feeds the referral_request template.
type ReferralRequestData struct {
	PosterName    string
	JobseekerName string
	JobTitle      string
	Company       string
}

// TemplateManager holds the parsed email templates.
type TemplateManager struct {
	templates map[string]*template.Template
}

const baseTemplate = `
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto;">
  <div style="padding: 24px; border: 1px solid #e2e2e2; border-radius: 8px;">
    <h2 style="color: #2563eb; margin-top: 0;">ReferMe</h2>
    {{template "content" .}}
    <hr style="border: none; border-top: 1px solid #e2e2e2; margin: 24px 0;"/>
    <p style="font-size: 12px; color: #888;">
      You are receiving this email because of activity on your ReferMe account.
    </p>
  </div>
</body>
</html>
`

var contentTemplates = map[string]string{
	"company_email_verification": `
{{define "content"}}
<p>Please verify your company email address to unlock referrals on ReferMe.</p>
<p style="margin: 24px 0;">
  <a href="{{.VerificationLink}}"
     style="background: #2563eb; color: #fff; padding: 12px 24px; border-radius: 6px; text-decoration: none;">
    Verify Company Email
  </a>
</p>
<p>Or open this link directly:<br/><a href="{{.VerificationLink}}">{{.VerificationLink}}</a></p>
<p>This link will expire in 24 hours.</p>
{{end}}`,

	"referral_request": `
{{define "content"}}
<p>Hi {{.PosterName}},</p>
<p><strong>{{.JobseekerName}}</strong> has requested a referral for the
<strong>{{.JobTitle}}</strong> position at <strong>{{.Company}}</strong> that you posted on ReferMe.</p>
<p>Log in to review their profile and respond to the request.</p>
{{end}}`,
}

// NewTemplateManager parses the built-in templates.
func NewTemplateManager() (*TemplateManager, error) {
	tm := &TemplateManager{templates: make(map[string]*template.Template)}
	for name, content := range contentTemplates {
		tpl, err := template.New(name).Parse(baseTemplate + content)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		tm.templates[name] = tpl
	}
	return tm, nil
}

// Render executes the named template with the given data.
func (tm *TemplateManager) Render(name string, data interface{}) (string, error) {
	tpl, ok := tm.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown email template: %s", name)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.String(), nil
}
