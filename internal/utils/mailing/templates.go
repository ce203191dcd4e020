package mailing

import (
	"bytes"
	"html/template"
)

var (
	verifyEmailTemplate = template.Must(template.New("verify").Parse(`<p>Hi {{.Name}},</p>
<p>Please confirm your email address to finish setting up your account.</p>
<p><a href="{{.Link}}">Verify email</a></p>
<p>The link expires in {{.ExpiresIn}}.</p>`))

	resetPasswordTemplate = template.Must(template.New("reset").Parse(`<p>Hi {{.Name}},</p>
<p>We received a request to reset your password.</p>
<p><a href="{{.Link}}">Reset password</a></p>
<p>The link expires in {{.ExpiresIn}}. If you did not request this you can ignore this email.</p>`))

	notificationTemplate = template.Must(template.New("notification").Parse(`<p>Hi {{.Name}},</p>
<p>{{.Message}}</p>
{{if .Link}}<p><a href="{{.Link}}">Open</a></p>{{end}}`))
)

type (
	LinkEmailData struct {
		Name      string
		Link      string
		ExpiresIn string
	}

	NotificationEmailData struct {
		Name    string
		Message string
		Link    string
	}
)

func VerifyEmailBody(data LinkEmailData) (string, error) {
	return render(verifyEmailTemplate, data)
}

func ResetPasswordBody(data LinkEmailData) (string, error) {
	return render(resetPasswordTemplate, data)
}

func NotificationBody(data NotificationEmailData) (string, error) {
	return render(notificationTemplate, data)
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
