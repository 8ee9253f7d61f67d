package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	domainauth "github.com/snmtc/parts-web/internal/domain/auth"
	"github.com/snmtc/parts-web/internal/router"
)

// AfterLoginPath is where a successful sign-in lands.
const AfterLoginPath = "/admin/dashboard"

// Steps of the forgot-password flow.
const (
	resetStepSend  = "send"
	resetStepReset = "reset"
)

// authForm is the state of the login and forgot-password forms.
type authForm struct {
	Action       string
	Step         string
	Email        string
	Errors       map[string]string
	ErrorMessage string
	Info         string
	CSRFToken    string
}

// LoginPage renders the sign-in form.
func (h *UIHandlers) LoginPage(w http.ResponseWriter, r *http.Request, m router.Match) {
	h.authPage(w, r, m.Route, authForm{Action: h.loginPath(), CSRFToken: GetCSRFToken(r)})
}

// ForgotPasswordPage renders the first step of the password reset flow.
func (h *UIHandlers) ForgotPasswordPage(w http.ResponseWriter, r *http.Request, m router.Match) {
	h.authPage(w, r, m.Route, authForm{Action: "/forgot-password", Step: resetStepSend, CSRFToken: GetCSRFToken(r)})
}

func (h *UIHandlers) authPage(w http.ResponseWriter, r *http.Request, rt router.Route, form authForm) {
	h.Page(w, r, PageSpec{
		Meta: metaForRoute(rt),
		Fetch: func(_ context.Context, b *TemplateDataBuilder) error {
			b.With("AuthForm", form)
			return nil
		},
	})
}

// respondAuthForm re-renders an auth form: the fragment for htmx posts, the
// whole page otherwise.
func (h *UIHandlers) respondAuthForm(w http.ResponseWriter, r *http.Request, route, fragment string, form authForm) {
	form.CSRFToken = GetCSRFToken(r)
	if IsHTMX(r) {
		h.renderFragment(w, r, fragment, form)
		return
	}
	rt, _ := h.Navigator.Table().Lookup(route)
	h.authPage(w, r, rt, form)
}

// formError splits err into field errors and a general message on form.
func formError(form *authForm, err error) {
	fields := map[string]string{}
	form.ErrorMessage = processError(err, &fields)
	if len(fields) > 0 {
		form.Errors = fields
	}
}

// LoginSubmit handles POST /login. The parts API checks the credentials; on
// success the session flag is set and the browser moves to the dashboard.
func (h *UIHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	cred := domainauth.Credentials{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}

	if err := h.Auth.Login(r.Context(), w, r, cred); err != nil {
		form := authForm{Action: h.loginPath(), Email: cred.Email}
		formError(&form, err)
		if form.ErrorMessage != "" {
			triggerToast(w, form.ErrorMessage, "error")
		}
		h.logger().Info("login rejected", "error", err)
		h.respondAuthForm(w, r, router.RouteLogin, "login-form", form)
		return
	}

	h.logger().Info("login succeeded")
	redirect(w, r, AfterLoginPath)
}

// ForgotPasswordSubmit handles POST /forgot-password for both steps. The
// first sends an OTP to the email; the second sets the new password.
func (h *UIHandlers) ForgotPasswordSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	form := authForm{Action: "/forgot-password", Email: email}

	if r.PostFormValue("step") != resetStepReset {
		form.Step = resetStepSend
		if err := h.Auth.SendOTP(r.Context(), email); err != nil {
			formError(&form, err)
			if form.ErrorMessage != "" {
				triggerToast(w, form.ErrorMessage, "error")
			}
			h.respondAuthForm(w, r, router.RouteForgotPassword, "forgot-password-form", form)
			return
		}
		form.Step = resetStepReset
		form.Info = "OTP sent to your email!"
		triggerToast(w, form.Info, "success")
		h.respondAuthForm(w, r, router.RouteForgotPassword, "forgot-password-form", form)
		return
	}

	form.Step = resetStepReset
	err := h.Auth.ResetPassword(r.Context(), domainauth.PasswordReset{
		Email:    email,
		OTP:      r.PostFormValue("otp"),
		Password: r.PostFormValue("password"),
	})
	if err != nil {
		formError(&form, err)
		if form.ErrorMessage != "" {
			triggerToast(w, form.ErrorMessage, "error")
		}
		h.respondAuthForm(w, r, router.RouteForgotPassword, "forgot-password-form", form)
		return
	}
	h.logger().Info("password reset completed")
	redirect(w, r, h.loginPath())
}

// Logout handles POST /logout: it clears every stored session value and
// sends the browser to the login page.
func (h *UIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.Logout(r.Context(), w, r); err != nil {
		h.logger().WarnContext(r.Context(), "logout failed", "error", err)
	}
	redirect(w, r, h.loginPath())
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(candidate, "//") {
		return "/"
	}
	return candidate
}
