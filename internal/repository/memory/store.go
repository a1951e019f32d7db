// Package memory keeps users and posts in process memory, optionally
// mirroring every change to a JSON snapshot file.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/JordyV23/social-app/internal/logger"
	"github.com/JordyV23/social-app/internal/model"
	"github.com/google/uuid"
)

// Store is the shared state behind UserRepository and PostRepository.
type Store struct {
	mu        sync.RWMutex
	users     map[uuid.UUID]model.User
	emails    map[string]uuid.UUID
	posts     map[uuid.UUID]model.Post
	postOrder []uuid.UUID

	snapshotFile string
	persistMu    sync.Mutex
	seq          uint64
	written      uint64
	wg           sync.WaitGroup
	logger       *logger.Logger
	now          func() time.Time
}

// userRecord keeps the password hash that model.User hides from JSON.
type userRecord struct {
	model.User
	PasswordHash string `json:"password"`
}

type snapshot struct {
	Users []userRecord `json:"users"`
	Posts []model.Post `json:"posts"`
}

// NewStore creates a store. When snapshotFile is not empty, existing data is
// loaded from it and later changes are written back in the background.
func NewStore(snapshotFile string, logger *logger.Logger) (*Store, error) {
	s := &Store{
		users:        make(map[uuid.UUID]model.User),
		emails:       make(map[string]uuid.UUID),
		posts:        make(map[uuid.UUID]model.Post),
		snapshotFile: snapshotFile,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}

	if snapshotFile == "" {
		return s, nil
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.snapshotFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}

	for _, rec := range snap.Users {
		u := rec.User.Clone()
		u.PasswordHash = rec.PasswordHash
		s.users[u.ID] = u
		s.emails[u.Email] = u.ID
	}
	for _, p := range snap.Posts {
		s.posts[p.ID] = p.Clone()
		s.postOrder = append(s.postOrder, p.ID)
	}

	s.logger.Info("Memory store: snapshot loaded",
		"users", len(s.users),
		"posts", len(s.posts))

	return nil
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// persistLocked schedules a snapshot write. Callers must hold s.mu.
func (s *Store) persistLocked() {
	if s.snapshotFile == "" {
		return
	}

	s.seq++
	seq := s.seq
	snap := snapshot{
		Users: make([]userRecord, 0, len(s.users)),
		Posts: make([]model.Post, 0, len(s.postOrder)),
	}
	for _, u := range s.users {
		snap.Users = append(snap.Users, userRecord{User: u.Clone(), PasswordHash: u.PasswordHash})
	}
	for _, id := range s.postOrder {
		snap.Posts = append(snap.Posts, s.posts[id].Clone())
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.write(seq, snap); err != nil {
			s.logger.Error("Memory store: failed to persist snapshot", "error", err)
		}
	}()
}

func (s *Store) write(seq uint64, snap snapshot) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	// A newer snapshot already reached the disk.
	if seq <= s.written {
		return nil
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.snapshotFile), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	tmp := s.snapshotFile + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.snapshotFile); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	s.written = seq
	return nil
}

// Wait blocks until every scheduled snapshot write has finished.
func (s *Store) Wait() {
	s.wg.Wait()
}

// Close flushes pending snapshot writes.
func (s *Store) Close() error {
	s.Wait()
	return nil
}
