package auth

// Package auth contains domain-level types for the browser session flag and
// the credential payloads exchanged with the parts API.
// It is pure and free of framework/adapter concerns.

const (
	// FlagKey is the persisted key that marks a browser as signed in.
	FlagKey = "isLoggedIn"
	// FlagTrue is the only value of FlagKey that grants access.
	FlagTrue = "true"
)

// Values is the per-browser persisted state. It survives reloads and is
// cleared in full on sign-out.
type Values map[string]string

// Clone returns a copy of v. A nil receiver yields an empty, non-nil map.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Authenticated reports whether the flag holds exactly FlagTrue.
func (v Values) Authenticated() bool {
	return v[FlagKey] == FlagTrue
}

// Credentials is the email/password pair submitted on the login screen.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PasswordReset is the second step of the forgot-password flow.
type PasswordReset struct {
	Email    string `json:"email"`
	OTP      string `json:"otp"`
	Password string `json:"password"`
}
