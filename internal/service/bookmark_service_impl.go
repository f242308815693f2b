package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
	"github.com/rabbishuki/rambam-sub001/internal/repository"
)

type bookmarkService struct {
	repo repository.BookmarkRepo
	now  func() time.Time
}

// NewBookmarkService wires the bookmark use cases.
func NewBookmarkService(repo repository.BookmarkRepo) BookmarkService {
	return &bookmarkService{repo: repo, now: time.Now}
}

func (s *bookmarkService) Add(ctx context.Context, path domain.StudyPath, day domain.DayKey, index int, note string) (*domain.Bookmark, error) {
	// The bookmark target obeys the same composite-key rules as the ledger.
	if _, err := domain.NewCompletionKey(path, day, index); err != nil {
		return nil, err
	}
	b := &domain.Bookmark{
		ID:        uuid.New().String(),
		Path:      path,
		Day:       day,
		Index:     index,
		Note:      strings.TrimSpace(note),
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *bookmarkService) List(ctx context.Context) ([]*domain.Bookmark, error) {
	return s.repo.List(ctx)
}

func (s *bookmarkService) Remove(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
