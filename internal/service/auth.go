package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	domainauth "github.com/snmtc/parts-web/internal/domain/auth"
	apperrors "github.com/snmtc/parts-web/internal/errors"
	"github.com/snmtc/parts-web/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	API      ports.AuthAPI
	Sessions ports.SessionProvider
}

// AuthService runs the sign-in, sign-out and password reset flows. The parts
// API checks credentials; the session flag is the only thing kept locally.
type AuthService struct {
	api      ports.AuthAPI
	sessions ports.SessionProvider
	validate *validator.Validate
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.API == nil {
		panic("AuthAPI is required")
	}
	if opts.Sessions == nil {
		panic("SessionProvider is required")
	}
	return &AuthService{
		api:      opts.API,
		sessions: opts.Sessions,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type loginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type resetInput struct {
	Email    string `validate:"required,email"`
	OTP      string `validate:"required"`
	Password string `validate:"required,min=6"`
}

// Login checks the credentials and, when the API accepts them, sets the flag.
// A rejected login never touches the session.
func (s *AuthService) Login(ctx context.Context, w http.ResponseWriter, r *http.Request, cred domainauth.Credentials) error {
	cred.Email = strings.TrimSpace(cred.Email)
	if err := s.check(loginInput{Email: cred.Email, Password: cred.Password}); err != nil {
		return err
	}

	if err := s.api.Login(ctx, cred); err != nil {
		return err
	}

	if err := s.sessions.SetAuthenticated(ctx, w, r); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "Could not start your session.")
	}
	return nil
}

// Logout clears every stored value for the browser.
func (s *AuthService) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return s.sessions.ClearAuthenticated(ctx, w, r)
}

// SendOTP starts the password reset flow.
func (s *AuthService) SendOTP(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return apperrors.ValidationField("email", "Enter a valid email address.")
	}
	return s.api.SendOTP(ctx, email)
}

// ResetPassword completes the password reset flow.
func (s *AuthService) ResetPassword(ctx context.Context, in domainauth.PasswordReset) error {
	in.Email = strings.TrimSpace(in.Email)
	in.OTP = strings.TrimSpace(in.OTP)
	if err := s.check(resetInput(in)); err != nil {
		return err
	}
	return s.api.ResetPassword(ctx, in)
}

//nolint:gochecknoglobals // static read-only lookup.
var authFieldMessages = map[string]string{
	"Email":    "Enter a valid email address.",
	"Password": "Enter your password.",
	"OTP":      "Enter the OTP sent to your email.",
}

// check validates in and reports the first failing field.
func (s *AuthService) check(in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, "Invalid input.")
	}

	fe := verrs[0]
	msg := authFieldMessages[fe.Field()]
	if fe.Field() == "Password" && fe.Tag() == "min" {
		msg = fmt.Sprintf("Password must be at least %s characters.", fe.Param())
	}
	if msg == "" {
		msg = "Invalid input."
	}
	return apperrors.ValidationField(strings.ToLower(fe.Field()), msg)
}
