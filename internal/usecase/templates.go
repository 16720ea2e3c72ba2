package usecase

import (
	"fmt"
)

func verificationEmailBody(name, link string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
			<h2>Welcome!</h2>
			<p>Hello %s,</p>
			<p>Thank you for registering. Please verify your email address by clicking the link below:</p>
			<p><a href="%s">Verify Email Address</a></p>
			<p>If the link doesn't work, copy and paste it into your browser:</p>
			<p style="word-break: break-all; color: #666;">%s</p>
			<p>This verification link will expire in 24 hours.</p>
		</div>`, name, link, link)
}

func passwordResetEmailBody(name, link string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
			<h2>Password Reset Request</h2>
			<p>Hello %s,</p>
			<p>We received a request to reset your password. Click the link below to create a new one:</p>
			<p><a href="%s">Reset Password</a></p>
			<p style="word-break: break-all; color: #666;">%s</p>
			<p>This reset link will expire in 1 hour. If you didn't request a password reset, ignore this email.</p>
		</div>`, name, link, link)
}

func otpEmailBody(code string) string {
	return fmt.Sprintf(`<p>Your OTP code is %s</p>`, code)
}

func otpSmsBody(code string) string {
	return fmt.Sprintf("Your OTP code is %s", code)
}
