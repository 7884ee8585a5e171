package app

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	DefaultAuthFile = "auth.secret"
	adminRealm      = "Svoz odpadu Admin"
)

var ErrAuthFileExists = errors.New("auth file already exists")

// argonParams are the Argon2id cost settings encoded into every hash.
type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
	keyLen  uint32
}

var defaultArgon = argonParams{memory: 64 * 1024, time: 1, threads: 4, keyLen: 32}

const saltLen = 16

// AdminCredentials is the admin account guarding ruleset reloads.
type AdminCredentials struct {
	User   string
	Hash   string
	Source string
}

// ParseAdminCredentials reads the "user:hash" line of an auth file.
func ParseAdminCredentials(data []byte) (*AdminCredentials, error) {
	user, hash, ok := strings.Cut(strings.TrimSpace(string(data)), ":")
	if !ok || user == "" || hash == "" {
		return nil, fmt.Errorf("invalid auth file format (expected: username:hash)")
	}
	if _, _, _, err := decodeHash(hash); err != nil {
		return nil, fmt.Errorf("invalid auth file hash: %w", err)
	}
	return &AdminCredentials{User: user, Hash: hash}, nil
}

// Verify reports whether user and password match the admin account.
func (a *AdminCredentials) Verify(user, password string) bool {
	userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(a.User)) == 1
	ok, err := VerifyPassword(password, a.Hash)
	if err != nil {
		log.Printf("Error verifying password: %v", err)
		return false
	}
	return userMatch && ok
}

// AuthFilePath returns the configured auth file, or auth.secret next to the
// binary.
func (c *Config) AuthFilePath() (string, error) {
	if c.AuthFile != "" {
		return c.AuthFile, nil
	}
	execPath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	return filepath.Join(filepath.Dir(execPath), DefaultAuthFile), nil
}

// LoadAdminCredentials reads the auth file into c.Admin. A missing file
// leaves the admin routes open, which is only meant for local use.
func (c *Config) LoadAdminCredentials() error {
	path, err := c.AuthFilePath()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		c.Admin = nil
		log.Printf("⚠️  No auth file at %s, admin endpoints are UNPROTECTED (run `svoz-odpadu hash-password`)", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read auth file: %w", err)
	}

	admin, err := ParseAdminCredentials(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	admin.Source = path
	c.Admin = admin

	log.Printf("✅ Basic Auth enabled for ruleset reload (user: %s, file: %s)", admin.User, path)
	return nil
}

// WriteAdminCredentials stores user with a fresh hash of password at path,
// read-only. An existing file is replaced only when overwrite is set.
func WriteAdminCredentials(path, user, password string, overwrite bool) error {
	if strings.Contains(user, ":") {
		return fmt.Errorf("username must not contain ':'")
	}
	if _, err := os.Stat(path); err == nil {
		if !overwrite {
			return fmt.Errorf("%s: %w", path, ErrAuthFileExists)
		}
		// the file is 0400, so replace instead of truncating
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove existing auth file: %w", err)
		}
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(user+":"+hash+"\n"), 0400); err != nil {
		return fmt.Errorf("failed to write auth file: %w", err)
	}
	return nil
}

// HashPassword returns the encoded Argon2id hash of password with a random salt.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	p := defaultArgon
	key := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.time, p.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// VerifyPassword checks password against an encoded Argon2id hash.
func VerifyPassword(password, hash string) (bool, error) {
	p, salt, key, err := decodeHash(hash)
	if err != nil {
		return false, err
	}
	computed := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)
	return subtle.ConstantTimeCompare(key, computed) == 1, nil
}

// decodeHash splits $argon2id$v=19$m=..,t=..,p=..$salt$key.
func decodeHash(hash string) (argonParams, []byte, []byte, error) {
	var p argonParams
	parts := strings.Split(hash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return p, nil, nil, fmt.Errorf("invalid hash format")
	}
	if parts[1] != "argon2id" {
		return p, nil, nil, fmt.Errorf("not an argon2id hash")
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return p, nil, nil, fmt.Errorf("failed to parse hash parameters: %w", err)
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("failed to decode salt: %w", err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return p, nil, nil, fmt.Errorf("failed to decode hash: %w", err)
	}
	p.keyLen = uint32(len(key))
	return p, salt, key, nil
}

// RequireAuth guards next with Basic Auth against Settings.Admin. Without
// loaded credentials the route stays open.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admin := Settings.Admin
		if admin == nil {
			next(w, r)
			return
		}

		user, pass, ok := r.BasicAuth()
		if !ok || !admin.Verify(user, pass) {
			w.Header().Set("WWW-Authenticate", fmt.Sprintf("Basic realm=%q", adminRealm))
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			log.Printf("⚠️  Failed auth attempt on %s from %s (user: %s)", r.URL.Path, r.RemoteAddr, user)
			return
		}

		next(w, r)
	}
}
