package store

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/vaughan-dsouza/QuizGo/internal/common"
	"github.com/vaughan-dsouza/QuizGo/internal/models"
)

type dataset struct {
	users   []models.User
	results []models.QuizResult
}

type changeSet uint8

const (
	usersChanged changeSet = 1 << iota
	resultsChanged
)

// MemoryStore keeps both collections in process memory. Mutations build the
// next version of the affected collection, hand it to the commit hook (if
// any) and only then swap it in, so a failed commit leaves state unchanged.
type MemoryStore struct {
	mu     sync.RWMutex
	data   dataset
	commit func(next dataset, changed changeSet) error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) apply(next dataset, changed changeSet) error {
	if s.commit != nil {
		if err := s.commit(next, changed); err != nil {
			return err
		}
	}
	s.data = next
	return nil
}

// ---------------------- USERS ----------------------

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findUserByEmail(user.Email) >= 0 {
		return common.ErrConflict
	}

	next := dataset{
		users:   append(slices.Clone(s.data.users), *user),
		results: s.data.results,
	}
	return s.apply(next, usersChanged)
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.findUserByEmail(email)
	if i < 0 {
		return nil, common.ErrNotFound
	}
	u := s.data.users[i]
	return &u, nil
}

func (s *MemoryStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.findUserByID(id)
	if i < 0 {
		return nil, common.ErrNotFound
	}
	u := s.data.users[i]
	return &u, nil
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, len(s.data.users))
	copy(out, s.data.users)
	return out, nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findUserByID(id)
	if i < 0 {
		return common.ErrNotFound
	}
	if s.data.users[i].IsAdmin() {
		return common.ErrForbidden
	}

	next := dataset{
		users:   slices.Delete(slices.Clone(s.data.users), i, i+1),
		results: make([]models.QuizResult, 0, len(s.data.results)),
	}
	for _, r := range s.data.results {
		if r.UserID != id {
			next.results = append(next.results, r)
		}
	}
	return s.apply(next, usersChanged|resultsChanged)
}

// ---------------------- RESULTS ----------------------

func (s *MemoryStore) CreateResult(ctx context.Context, result *models.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findUserByID(result.UserID) < 0 {
		return common.ErrNotFound
	}

	next := dataset{
		users:   s.data.users,
		results: append(slices.Clone(s.data.results), *result),
	}
	return s.apply(next, resultsChanged)
}

func (s *MemoryStore) ListResultsByUser(ctx context.Context, userID string) ([]models.QuizResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.QuizResult{}
	for _, r := range s.data.results {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sortNewestFirst(out, func(r models.QuizResult) models.QuizResult { return r })
	return out, nil
}

func (s *MemoryStore) ListResults(ctx context.Context) ([]models.ResultWithEmail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	emails := make(map[string]string, len(s.data.users))
	for _, u := range s.data.users {
		emails[u.ID] = u.Email
	}

	out := make([]models.ResultWithEmail, 0, len(s.data.results))
	for _, r := range s.data.results {
		email, ok := emails[r.UserID]
		if !ok {
			email = models.UnknownEmail
		}
		out = append(out, models.ResultWithEmail{QuizResult: r, Email: email})
	}
	sortNewestFirst(out, func(r models.ResultWithEmail) models.QuizResult { return r.QuizResult })
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// ---------------------- HELPERS ----------------------

func (s *MemoryStore) findUserByEmail(email string) int {
	return slices.IndexFunc(s.data.users, func(u models.User) bool { return u.Email == email })
}

func (s *MemoryStore) findUserByID(id string) int {
	return slices.IndexFunc(s.data.users, func(u models.User) bool { return u.ID == id })
}

// sortNewestFirst orders by descending creation time. Equal timestamps keep
// reverse insertion order, so the latest submission always comes first.
func sortNewestFirst[T any](items []T, result func(T) models.QuizResult) {
	slices.Reverse(items)
	sort.SliceStable(items, func(i, j int) bool {
		return result(items[i]).CreatedAt.After(result(items[j]).CreatedAt)
	})
}
