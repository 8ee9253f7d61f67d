package partsapi

import (
	"context"
	"net/http"

	domainauth "github.com/snmtc/parts-web/internal/domain/auth"
)

const authResource = "auth"

func (c *Client) postJSON(ctx context.Context, op, path string, payload any, failMessage string) error {
	body, err := jsonBody(payload)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, call{
		resource:    authResource,
		op:          op,
		method:      http.MethodPost,
		path:        path,
		body:        body,
		contentType: "application/json",
		failMessage: failMessage,
	})
	return err
}

// Login checks the credentials. Any non-2xx answer is a failed login.
func (c *Client) Login(ctx context.Context, cred domainauth.Credentials) error {
	return c.postJSON(ctx, "login", "login", map[string]string{
		"email":    cred.Email,
		"password": cred.Password,
	}, "Login failed")
}

// SendOTP asks the API to mail a one-time password to email.
func (c *Client) SendOTP(ctx context.Context, email string) error {
	return c.postJSON(ctx, "send_otp", "sendotp", map[string]string{"email": email}, "Error sending OTP")
}

// ResetPassword sets a new password using the mailed OTP.
func (c *Client) ResetPassword(ctx context.Context, in domainauth.PasswordReset) error {
	return c.postJSON(ctx, "reset", "reset", map[string]string{
		"email":    in.Email,
		"otp":      in.OTP,
		"password": in.Password,
	}, "Invalid OTP or email")
}
