package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/vaughan-dsouza/QuizGo/internal/models"
)

const (
	usersFileName   = "users.json"
	resultsFileName = "results.json"
)

// storedUser is the on-disk user record. Unlike models.User it keeps the hash.
type storedUser struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"passwordHash"`
	Role         models.Role `json:"role,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// FileStore persists the two collections as flat JSON documents. Each
// mutation rewrites the affected files in full.
type FileStore struct {
	*MemoryStore
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("store: data dir not configured")
	}

	fsStore := &FileStore{MemoryStore: NewMemoryStore(), dir: dir}

	users, err := readJSON[[]storedUser](fsStore.path(usersFileName))
	if err != nil {
		return nil, err
	}
	results, err := readJSON[[]models.QuizResult](fsStore.path(resultsFileName))
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		role := u.Role
		// records written before roles existed belong to regular users
		if role == "" {
			role = models.RoleUser
		}
		fsStore.data.users = append(fsStore.data.users, models.User{
			ID:           u.ID,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			Role:         role,
			CreatedAt:    u.CreatedAt,
		})
	}
	fsStore.data.results = results

	fsStore.commit = fsStore.write
	return fsStore, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

// write stages every changed collection to a temp file before renaming any
// of them into place, so a failed encode or write leaves the disk untouched.
// Results are renamed before users: if the second rename fails, the store
// holds a user with missing results rather than results with no user.
func (s *FileStore) write(next dataset, changed changeSet) error {
	if err := os.MkdirAll(s.dir, 0o770); err != nil {
		return fmt.Errorf("store: mkdir %s: %w", s.dir, err)
	}

	var pending []stagedFile
	defer func() {
		for _, f := range pending {
			os.Remove(f.tmp)
		}
	}()

	if changed&resultsChanged != 0 {
		results := next.results
		if results == nil {
			results = []models.QuizResult{}
		}
		f, err := stageJSON(s.path(resultsFileName), results)
		if err != nil {
			return err
		}
		pending = append(pending, f)
	}

	if changed&usersChanged != 0 {
		users := make([]storedUser, 0, len(next.users))
		for _, u := range next.users {
			users = append(users, storedUser{
				ID:           u.ID,
				Email:        u.Email,
				PasswordHash: u.PasswordHash,
				Role:         u.Role,
				CreatedAt:    u.CreatedAt,
			})
		}
		f, err := stageJSON(s.path(usersFileName), users)
		if err != nil {
			return err
		}
		pending = append(pending, f)
	}

	for _, f := range pending {
		if err := os.Rename(f.tmp, f.path); err != nil {
			return fmt.Errorf("store: write %s: %w", f.path, err)
		}
	}
	return nil
}

// readJSON returns the zero value when the file does not exist yet.
func readJSON[T any](path string) (T, error) {
	var v T

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return v, nil
	}
	if err != nil {
		return v, fmt.Errorf("store: read %s: %w", path, err)
	}

	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("store: parse %s: %w", path, err)
	}
	return v, nil
}

type stagedFile struct {
	tmp  string
	path string
}

// stageJSON encodes v into a temp file next to path. The caller renames it.
func stageJSON(path string, v any) (stagedFile, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return stagedFile{}, fmt.Errorf("store: encode %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return stagedFile{}, fmt.Errorf("store: write %s: %w", path, err)
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return stagedFile{}, fmt.Errorf("store: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return stagedFile{}, fmt.Errorf("store: write %s: %w", path, err)
	}
	return stagedFile{tmp: tmp.Name(), path: path}, nil
}
