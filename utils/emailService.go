package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"learnhub/config"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password
	if from == "" || password == "" {
		return fmt.Errorf("email sender not configured")
	}

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: LearnHub <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	return smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
}

// HTML wrapper shared by all outgoing mail
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<html>
	<body style="margin:0;padding:0;background-color:#f4f6f8;font-family:Arial,sans-serif;">
		<table width="100%%" cellpadding="0" cellspacing="0" style="padding:24px 0;">
			<tr>
				<td align="center">
					<table width="560" cellpadding="0" cellspacing="0" style="background:#ffffff;border-radius:8px;overflow:hidden;">
						<tr>
							<td style="background:#1f2a44;padding:20px 32px;">
								<h2 style="color:#ffffff;margin:0;">LearnHub</h2>
							</td>
						</tr>
						<tr>
							<td style="padding:32px;">
								<h3 style="margin-top:0;color:#1f2a44;">%s</h3>
								%s
							</td>
						</tr>
						<tr>
							<td style="padding:16px 32px;background:#f4f6f8;color:#8a94a6;font-size:12px;">
								This is an automated message from LearnHub. Please do not reply.
							</td>
						</tr>
					</table>
				</td>
			</tr>
		</table>
	</body>
	</html>`, title, bodyContent)
}

// SendEnrollmentConfirmation mails a student after a successful enrollment.
func SendEnrollmentConfirmation(email, name, courseTitle string) error {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You are now enrolled in <strong>%s</strong>. Head to your dashboard to start learning.</p>`,
		name, courseTitle)
	return SendEmail([]string{email}, "Enrollment confirmed: "+courseTitle, getEmailTemplate("Enrollment Confirmed", body))
}

// SendCertificateEmail mails a student their certificate serial after course
// completion.
func SendCertificateEmail(email, name, courseTitle, serial string) error {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Congratulations on completing <strong>%s</strong>!</p>
		<p>Your certificate number is <strong>%s</strong>. Anyone can verify it on the public verification page.</p>`,
		name, courseTitle, serial)
	return SendEmail([]string{email}, "Your certificate for "+courseTitle, getEmailTemplate("Course Completed", body))
}
