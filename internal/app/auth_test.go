package app

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "Vratimov-1710"

// withAdmin installs credentials for spravce on Settings for one test.
func withAdmin(t *testing.T) {
	t.Helper()
	hash, err := HashPassword(testPassword)
	require.NoError(t, err)

	prev := Settings
	t.Cleanup(func() { Settings = prev })
	cfg := *prev
	cfg.Admin = &AdminCredentials{User: "spravce", Hash: hash}
	Settings = &cfg
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword(testPassword)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=1,p=4$"), hash)

	other, err := HashPassword(testPassword)
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "salts should differ")

	ok, err := VerifyPassword(testPassword, hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("jine-heslo", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyPassword(testPassword, "$bcrypt$v=1$m=1,t=1,p=1$c2FsdA$aGFzaA")
	assert.Error(t, err)
}

func TestParseAdminCredentials(t *testing.T) {
	hash, err := HashPassword(testPassword)
	require.NoError(t, err)

	admin, err := ParseAdminCredentials([]byte("spravce:" + hash + "\n"))
	require.NoError(t, err)
	assert.Equal(t, "spravce", admin.User)
	assert.True(t, admin.Verify("spravce", testPassword))
	assert.False(t, admin.Verify("admin", testPassword))
	assert.False(t, admin.Verify("spravce", "spatne"))

	for _, data := range []string{"", "spravce", ":" + hash, "spravce:plaintext"} {
		_, err := ParseAdminCredentials([]byte(data))
		assert.Error(t, err, "%q should be rejected", data)
	}
}

func TestWriteAndLoadAdminCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin.secret")
	require.NoError(t, WriteAdminCredentials(path, "spravce", testPassword, false))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0400), info.Mode().Perm())

	err = WriteAdminCredentials(path, "spravce", "nove-heslo", false)
	assert.ErrorIs(t, err, ErrAuthFileExists)

	cfg := DefaultConfig()
	cfg.AuthFile = path
	require.NoError(t, cfg.LoadAdminCredentials())
	require.NotNil(t, cfg.Admin)
	assert.Equal(t, path, cfg.Admin.Source)
	assert.True(t, cfg.Admin.Verify("spravce", testPassword))

	require.NoError(t, WriteAdminCredentials(path, "spravce", "nove-heslo", true))
	require.NoError(t, cfg.LoadAdminCredentials())
	assert.True(t, cfg.Admin.Verify("spravce", "nove-heslo"))

	assert.Error(t, WriteAdminCredentials(filepath.Join(t.TempDir(), "x"), "a:b", testPassword, false))
}

func TestLoadAdminCredentials_MissingFileLeavesRoutesOpen(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AuthFile = filepath.Join(t.TempDir(), "missing.secret")
	cfg.Admin = &AdminCredentials{User: "stary"}

	require.NoError(t, cfg.LoadAdminCredentials())
	assert.Nil(t, cfg.Admin)
}

func TestLoadAdminCredentials_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.secret")
	require.NoError(t, os.WriteFile(path, []byte("jen-jmeno\n"), 0600))

	cfg := DefaultConfig()
	cfg.AuthFile = path
	assert.Error(t, cfg.LoadAdminCredentials())
}

func TestRequireAuth_GuardsReload(t *testing.T) {
	setupRuleset(t)
	withAdmin(t)
	handler := RequireAuth(HandleReload)

	tests := []struct {
		name     string
		user     string
		password string
		withAuth bool
		want     int
	}{
		{"no credentials", "", "", false, http.StatusUnauthorized},
		{"wrong user", "admin", testPassword, true, http.StatusUnauthorized},
		{"wrong password", "spravce", "spatne", true, http.StatusUnauthorized},
		{"valid", "spravce", testPassword, true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := CurrentResolver()
			req := httptest.NewRequest(http.MethodPost, "/api/admin/reload", nil)
			if tt.withAuth {
				req.SetBasicAuth(tt.user, tt.password)
			}
			w := httptest.NewRecorder()
			handler(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusUnauthorized {
				assert.Equal(t, `Basic realm="Svoz odpadu Admin"`, w.Header().Get("WWW-Authenticate"))
				assert.Same(t, before, CurrentResolver(), "ruleset must not change")
			} else {
				assert.NotSame(t, before, CurrentResolver())
			}
		})
	}
}

func TestRequireAuth_OpenWithoutCredentials(t *testing.T) {
	setupRuleset(t)

	w := httptest.NewRecorder()
	RequireAuth(HandleReload)(w, httptest.NewRequest(http.MethodPost, "/api/admin/reload", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
