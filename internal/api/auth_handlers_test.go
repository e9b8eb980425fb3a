package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aethra/compliancepro/internal/auth"
	"github.com/aethra/compliancepro/internal/models"
)

func TestRegisterCreatesClientAdmin(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":    "new@example.com",
		"name":     "New Admin",
		"password": "secret-pass",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.NotEmpty(t, body["token"])

	var user models.User
	require.NoError(t, env.db.Where("email = ?", "new@example.com").First(&user).Error)
	assert.Equal(t, "client_admin", user.Role)
	assert.True(t, user.IsActive)
	assert.True(t, auth.CheckPassword("secret-pass", user.PasswordHash))
	// The stored hash never equals the plaintext
	assert.NotEqual(t, "secret-pass", user.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("taken@example.com", "client_admin", nil)

	w := env.request(http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":    "taken@example.com",
		"name":     "Other",
		"password": "secret-pass",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User already exists!", decodeBody(t, w)["message"])
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("known@example.com", "client_admin", nil)

	unknown := env.request(http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	wrongPass := env.request(http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "known@example.com",
		"password": "not-the-password",
	})

	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	require.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	// Unknown email and wrong password must be byte-identical responses
	assert.Equal(t, unknown.Body.String(), wrongPass.Body.String())
}

func TestLoginInactiveUser(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("inactive@example.com", "client_admin", nil)
	require.NoError(t, env.db.Model(&user).Update("is_active", false).Error)

	w := env.request(http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "inactive@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "User is inactive!", decodeBody(t, w)["message"])
}

func TestLoginAndMeFlow(t *testing.T) {
	env := newTestEnv(t)
	company := env.createCompany("Acme Ltd")
	user := env.createUser("flow@example.com", "client_admin", &company.ID)

	w := env.request(http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "flow@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	userPayload, ok := body["user"].(map[string]any)
	require.True(t, ok)
	companyPayload, ok := userPayload["company"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Acme Ltd", companyPayload["name"])

	// Login stamps last_login
	var reloaded models.User
	require.NoError(t, env.db.First(&reloaded, user.ID).Error)
	assert.NotNil(t, reloaded.LastLogin)

	me := env.request(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, me.Code)
	meUser := decodeBody(t, me)["user"].(map[string]any)
	assert.Equal(t, "flow@example.com", meUser["email"])
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("change@example.com", "member", nil)
	token := env.token(user)

	wrong := env.request(http.MethodPost, "/api/auth/change-password", token, map[string]any{
		"current_password": "not-it",
		"new_password":     "next-pass",
	})
	require.Equal(t, http.StatusUnauthorized, wrong.Code)

	ok := env.request(http.MethodPost, "/api/auth/change-password", token, map[string]any{
		"current_password": "password123",
		"new_password":     "next-pass",
	})
	require.Equal(t, http.StatusOK, ok.Code)

	var reloaded models.User
	require.NoError(t, env.db.First(&reloaded, user.ID).Error)
	assert.True(t, auth.CheckPassword("next-pass", reloaded.PasswordHash))
}
