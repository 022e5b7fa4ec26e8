package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// TestFileRepository_NotFound verifies Load returns ErrNotFound for missing file.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "missing.json"))
	c, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, c)

	// Removing a missing session is fine.
	require.NoError(t, repo.Remove(context.Background()))
}

// TestFileRepository_Corrupt reports an undecodable file as ErrCorrupt and still removes it.
func TestFileRepository_Corrupt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	repo := NewFileRepository(path)
	c, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrCorrupt)
	require.Nil(t, c)

	require.NoError(t, repo.Remove(context.Background()))

	_, err = repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

// TestFileRepository_SaveLoadRemove ensures Save followed by Load returns the same credential.
func TestFileRepository_SaveLoadRemove(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "session.json"))
	want := &Credential{
		Token: "opaque-token",
		User: User{
			ID:       "7",
			Username: "operator",
			Raw:      json.RawMessage(`{"id":"7","username":"operator","shift":"B"}`),
		},
	}

	require.ErrorIs(t, repo.Save(context.Background(), nil), errCredentialRequired)
	require.NoError(t, repo.Save(context.Background(), want))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, want.Token, got.Token)
	require.Equal(t, want.User.Username, got.User.Username)
	require.JSONEq(t, string(want.User.Raw), string(got.User.Raw))

	require.NoError(t, repo.Remove(context.Background()))

	_, err = repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

// TestStore covers the read-only capability and the login/logout mutations.
func TestStore(t *testing.T) {
	t.Parallel()

	s := NewStore(nil)
	require.Empty(t, s.Token())
	require.Nil(t, s.Credential())

	c := &Credential{Token: "abc"}
	s.Set(c)
	require.Equal(t, "abc", s.Token())

	// Stored value is a copy.
	c.Token = "changed"
	require.Equal(t, "abc", s.Token())

	s.Clear()
	require.Empty(t, s.Token())
}

// TestCredential_ExpiresAt reads exp from JWT tokens and ignores opaque ones.
func TestCredential_ExpiresAt(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "operator",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	got, ok := (&Credential{Token: token}).ExpiresAt()
	require.True(t, ok)
	require.True(t, exp.Equal(got))

	_, ok = (&Credential{Token: "opaque"}).ExpiresAt()
	require.False(t, ok)

	_, ok = (*Credential)(nil).ExpiresAt()
	require.False(t, ok)
}
