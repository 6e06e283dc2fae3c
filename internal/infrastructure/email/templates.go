package email

import (
	htmltemplate "html/template"
	texttemplate "text/template"
)

const (
	passwordResetSubject    = "Password recovery"
	registrationCodeSubject = "Verify your email"
)

var passwordResetText = texttemplate.Must(texttemplate.New("password_reset.txt").Parse(`Hello {{.Name}},

We received a request to reset the password of your account.

Your verification code is: {{.Code}}

The code expires in {{.ExpiresMinutes}} minutes.
{{if .ResetURL}}
Continue here: {{.ResetURL}}
{{end}}
If you did not request this change, ignore this email. Your password will stay the same.
`))

var passwordResetHTML = htmltemplate.Must(htmltemplate.New("password_reset.html").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Password recovery</h2>
  <p>Hello {{.Name}},</p>
  <p>We received a request to reset the password of your account.</p>
  <p>Your verification code is:</p>
  <p style="font-size: 32px; font-weight: bold; letter-spacing: 6px;">{{.Code}}</p>
  <p>The code expires in <strong>{{.ExpiresMinutes}} minutes</strong>.</p>
  {{if .ResetURL}}<p><a href="{{.ResetURL}}">Reset my password</a></p>{{end}}
  <p style="color: #888;">If you did not request this change, ignore this email. Your password will stay the same.</p>
</body>
</html>
`))

var registrationCodeText = texttemplate.Must(texttemplate.New("registration_code.txt").Parse(`Welcome!

Use this code to verify your email address and continue your registration:

{{.Code}}

The code expires in {{.ExpiresMinutes}} minutes.

If you did not start a registration, ignore this email.
`))

var registrationCodeHTML = htmltemplate.Must(htmltemplate.New("registration_code.html").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Verify your email</h2>
  <p>Use this code to verify your email address and continue your registration:</p>
  <p style="font-size: 32px; font-weight: bold; letter-spacing: 6px;">{{.Code}}</p>
  <p>The code expires in <strong>{{.ExpiresMinutes}} minutes</strong>.</p>
  <p style="color: #888;">If you did not start a registration, ignore this email.</p>
</body>
</html>
`))

type passwordResetView struct {
	Name           string
	Code           string
	ExpiresMinutes int
	ResetURL       string
}

type registrationCodeView struct {
	Code           string
	ExpiresMinutes int
}
