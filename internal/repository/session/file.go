package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/oshokin/grinder-console/internal/config"
)

// Repository defines persistence operations for the credential.
type Repository interface {
	Load(ctx context.Context) (*Credential, error)
	Save(ctx context.Context, credential *Credential) error
	Remove(ctx context.Context) error
}

// FileRepository persists the credential to a JSON file on disk.
type FileRepository struct {
	// path is the filesystem location of the session file.
	path string
	// mu protects concurrent access to the session file.
	mu sync.Mutex
}

var (
	// ErrNotFound is returned when no session has been saved yet.
	ErrNotFound = errors.New("session not found")
	// ErrCorrupt is returned when the session file cannot be decoded.
	ErrCorrupt = errors.New("session file is corrupt")
	// errCredentialRequired is returned when saving a nil credential.
	errCredentialRequired = errors.New("credential must be provided")
)

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the credential from disk.
func (r *FileRepository) Load(_ context.Context) (*Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read session file: %w", err)
	}

	var credential Credential
	if err = json.Unmarshal(contents, &credential); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	return &credential, nil
}

// Save writes the credential to disk with owner-only permissions.
func (r *FileRepository) Save(_ context.Context, credential *Credential) error {
	if credential == nil {
		return errCredentialRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(credential, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}

	return nil
}

// Remove deletes the session file; a missing file is not an error.
func (r *FileRepository) Remove(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}

	return nil
}
