package e2e

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/webtest/pkg/suite"
)

func TestMain(m *testing.M) {
	suite.Main(m)
}

func TestSuccessfulLogin(t *testing.T) {
	suite.Run(t, suite.Options{Markers: []suite.Marker{suite.Smoke, suite.UI}}, func(ctx *suite.Context) {
		login := NewLoginPage(ctx.Page)
		credentials := ctx.Data.Credentials("user")

		require.NoError(t, login.Visit())
		require.NoError(t, login.Login(credentials.Username, credentials.Password))

		require.True(t, login.LoggedIn(), "dashboard welcome message is not visible after login")

		welcome, err := login.WelcomeText()
		require.NoError(t, err)
		assert.Contains(t, welcome, credentials.Username, "welcome message does not contain username")
	})
}

func TestFailedLogin(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  string
	}{
		{
			name:     "unknown account",
			username: "invalid@example.com",
			password: "password123",
			wantErr:  "Invalid username or password",
		},
		{
			name:     "missing username",
			username: "",
			password: "password123",
			wantErr:  "Username is required",
		},
		{
			name:     "missing password",
			username: "user@example.com",
			password: "",
			wantErr:  "Password is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suite.Run(t, suite.Options{Markers: []suite.Marker{suite.Regression, suite.UI}}, func(ctx *suite.Context) {
				login := NewLoginPage(ctx.Page)

				require.NoError(t, login.Visit())
				require.NoError(t, login.Login(tt.username, tt.password))

				require.True(t, login.ErrorShown(), "error message is not visible after failed login")

				actual, err := login.ErrorText()
				require.NoError(t, err)
				assert.Contains(t, actual, tt.wantErr)
			})
		})
	}
}
