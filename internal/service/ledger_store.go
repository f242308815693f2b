package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
	"github.com/rabbishuki/rambam-sub001/internal/progress"
	"github.com/rabbishuki/rambam-sub001/internal/repository"
)

// LedgerStore pairs the in-memory ledger snapshot with its SQLite mirror.
// Every mutation writes the database row first and only then swaps the
// snapshot, so an acknowledged mark is always on disk. The mutex makes the
// single-writer assumption explicit: the UI thread is the only writer, but
// async fetch callbacks read concurrently.
type LedgerStore struct {
	repo repository.CompletionRepo

	mu   sync.Mutex
	snap progress.Ledger // nil until first load
}

// NewLedgerStore creates a LedgerStore over the given completion repo.
func NewLedgerStore(repo repository.CompletionRepo) *LedgerStore {
	return &LedgerStore{repo: repo}
}

// snapshot returns the current ledger, loading it from the repository on
// first use. Callers must treat the result as read-only; every pure
// operation clones before mutating.
func (s *LedgerStore) snapshot(ctx context.Context) (progress.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(ctx)
}

func (s *LedgerStore) snapshotLocked(ctx context.Context) (progress.Ledger, error) {
	if s.snap != nil {
		return s.snap, nil
	}
	loaded, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading completion ledger: %w", err)
	}
	s.snap = progress.Ledger(loaded)
	return s.snap, nil
}

func (s *LedgerStore) markOne(ctx context.Context, path domain.StudyPath, day domain.DayKey, index int, ts time.Time) error {
	key, err := domain.NewCompletionKey(path, day, index)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.snapshotLocked(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.Put(ctx, key, ts); err != nil {
		return err
	}
	s.snap = snap.MarkOne(path, day, index, ts)
	return nil
}

// markRange marks items 0..itemCount-1 with one shared timestamp.
func (s *LedgerStore) markRange(ctx context.Context, path domain.StudyPath, day domain.DayKey, itemCount int, ts time.Time) error {
	if itemCount <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.snapshotLocked(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.PutRange(ctx, path, day, itemCount, ts); err != nil {
		return err
	}
	s.snap = snap.MarkAllComplete(path, day, itemCount, ts)
	return nil
}

func (s *LedgerStore) unmarkOne(ctx context.Context, path domain.StudyPath, day domain.DayKey, index int) error {
	key, err := domain.NewCompletionKey(path, day, index)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.snapshotLocked(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, key); err != nil {
		return err
	}
	s.snap = snap.UnmarkOne(path, day, index)
	return nil
}

func (s *LedgerStore) resetDay(ctx context.Context, path domain.StudyPath, day domain.DayKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.snapshotLocked(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteDay(ctx, path, day); err != nil {
		return err
	}
	s.snap = snap.ResetDay(path, day)
	return nil
}

func (s *LedgerStore) resetPath(ctx context.Context, path domain.StudyPath) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.snapshotLocked(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.DeletePath(ctx, path); err != nil {
		return err
	}
	s.snap = snap.ResetPath(path)
	return nil
}

// invalidate drops the snapshot so the next read reloads from the
// repository. Used after a restore rewrites the ledger underneath us.
func (s *LedgerStore) invalidate() {
	s.mu.Lock()
	s.snap = nil
	s.mu.Unlock()
}
