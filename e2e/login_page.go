// Package e2e holds browser tests for the demo application. They are
// skipped unless WEBTEST_E2E is set; the webtest command sets it and
// forwards browser selection and marker filters through the environment.
package e2e

import (
	"fmt"

	"github.com/entrhq/webtest/pkg/page"
)

// LoginPage wraps the login form and the elements that confirm the
// outcome of a login attempt.
type LoginPage struct {
	*page.Page

	username    page.Locator
	password    page.Locator
	submit      page.Locator
	welcome     page.Locator
	errorBanner page.Locator
}

func NewLoginPage(p *page.Page) *LoginPage {
	return &LoginPage{
		Page:        p,
		username:    page.ID("username"),
		password:    page.ID("password"),
		submit:      page.CSS("button[type='submit']"),
		welcome:     page.ID("dashboard-welcome"),
		errorBanner: page.ClassName("error-message"),
	}
}

// Visit navigates to the login form and waits for it to render.
func (l *LoginPage) Visit() error {
	return l.Open("/login")
}

// Login submits the form. Empty fields are left untouched so the
// application's own required-field validation fires.
func (l *LoginPage) Login(username, password string) error {
	if username != "" {
		if err := l.TypeText(l.username, username); err != nil {
			return fmt.Errorf("failed to enter username: %w", err)
		}
	}
	if password != "" {
		if err := l.TypeText(l.password, password); err != nil {
			return fmt.Errorf("failed to enter password: %w", err)
		}
	}
	return l.Click(l.submit)
}

// WelcomeText returns the dashboard greeting shown after a successful
// login.
func (l *LoginPage) WelcomeText() (string, error) {
	return l.GetText(l.welcome)
}

// LoggedIn reports whether the dashboard greeting is visible.
func (l *LoginPage) LoggedIn() bool {
	return l.IsVisible(l.welcome)
}

// ErrorText returns the validation banner shown after a failed login.
func (l *LoginPage) ErrorText() (string, error) {
	return l.GetText(l.errorBanner)
}

// ErrorShown reports whether the validation banner is visible.
func (l *LoginPage) ErrorShown() bool {
	return l.IsVisible(l.errorBanner)
}
