// Package schedule caches per-(path, day) study portions. Metadata is
// cheap and persists through to SQLite; item texts are larger, fetched on
// demand, and held in memory only. Entries are never invalidated except
// by an explicit reset, which bumps a per-slot generation so a fetch that
// was already in flight cannot resurrect the cleared data.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
	"github.com/rabbishuki/rambam-sub001/internal/repository"
)

// Source fetches schedule data from the external provider. Implemented by
// sefaria.Client in production and by fakes in tests.
type Source interface {
	// Day returns the portion metadata for one (path, day).
	Day(ctx context.Context, path domain.StudyPath, day domain.DayKey) (*domain.ScheduleDay, error)
	// Items returns the text segments of one ref, tagged with refIndex.
	Items(ctx context.Context, ref string, refIndex int) ([]domain.StudyItem, error)
}

type slotKey struct {
	path domain.StudyPath
	day  domain.DayKey
}

// slot holds one (path, day) cache entry. gen increments on every reset;
// a fetch result is only stored if the generation it started under is
// still current.
type slot struct {
	meta  *domain.ScheduleDay
	items []domain.StudyItem
	gen   int
}

// Cache is the schedule cache. A single mutex guards the slot map; the
// single-writer assumption of the app is made explicit here because item
// fetches complete on their own goroutines.
type Cache struct {
	source Source
	repo   repository.ScheduleRepo
	logger *slog.Logger

	mu    sync.Mutex
	slots map[slotKey]*slot
}

// NewCache creates a Cache over the given source and metadata repository.
// A nil logger discards diagnostics.
func NewCache(source Source, repo repository.ScheduleRepo, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Cache{
		source: source,
		repo:   repo,
		logger: logger,
		slots:  map[slotKey]*slot{},
	}
}

func (c *Cache) slotLocked(key slotKey) *slot {
	s, ok := c.slots[key]
	if !ok {
		s = &slot{}
		c.slots[key] = s
	}
	return s
}

// GetDay returns the metadata for (path, day), from memory, then the
// repository, then the source. A cached entry is returned without any
// refetch; "not yet fetched" is never represented as an error.
func (c *Cache) GetDay(ctx context.Context, path domain.StudyPath, day domain.DayKey) (*domain.ScheduleDay, error) {
	key := slotKey{path: path, day: day}

	c.mu.Lock()
	s := c.slotLocked(key)
	if s.meta != nil {
		meta := s.meta
		c.mu.Unlock()
		return meta, nil
	}
	gen := s.gen
	c.mu.Unlock()

	stored, err := c.repo.GetDay(ctx, path, day)
	if err == nil {
		c.storeMeta(key, gen, stored, false)
		return stored, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		c.logger.Warn("reading schedule metadata failed",
			"path", path, "day", day, "error", err)
	}

	fetched, err := c.source.Day(ctx, path, day)
	if err != nil {
		return nil, fmt.Errorf("fetching schedule for %s %s: %w", path, day, err)
	}
	c.storeMeta(key, gen, fetched, true)
	return fetched, nil
}

// storeMeta records fetched metadata unless the slot was reset while the
// fetch was in flight. persist writes through to the repository for data
// that came from the network.
func (c *Cache) storeMeta(key slotKey, gen int, meta *domain.ScheduleDay, persist bool) {
	c.mu.Lock()
	s := c.slotLocked(key)
	if s.gen != gen {
		c.mu.Unlock()
		c.logger.Debug("discarding stale schedule fetch",
			"path", key.path, "day", key.day)
		return
	}
	s.meta = meta
	c.mu.Unlock()

	if persist {
		if err := c.repo.PutDay(context.Background(), meta); err != nil {
			c.logger.Warn("persisting schedule metadata failed",
				"path", key.path, "day", key.day, "error", err)
		}
	}
}

// GetItems returns the study item texts for (path, day), fetching every
// ref of the day concurrently and aggregating in ref order. The fetched
// count may disagree with the declared ItemCount; that is tolerated —
// declared wins for progress math, fetched wins for rendering.
func (c *Cache) GetItems(ctx context.Context, path domain.StudyPath, day domain.DayKey) ([]domain.StudyItem, error) {
	meta, err := c.GetDay(ctx, path, day)
	if err != nil {
		return nil, err
	}

	key := slotKey{path: path, day: day}
	c.mu.Lock()
	s := c.slotLocked(key)
	if s.items != nil {
		items := s.items
		c.mu.Unlock()
		return items, nil
	}
	gen := s.gen
	c.mu.Unlock()

	perRef := make([][]domain.StudyItem, len(meta.Refs))
	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range meta.Refs {
		g.Go(func() error {
			items, err := c.source.Items(gctx, ref.Ref, i)
			if err != nil {
				return fmt.Errorf("fetching items of %q: %w", ref.Ref, err)
			}
			perRef[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var items []domain.StudyItem
	for _, part := range perRef {
		items = append(items, part...)
	}

	if len(items) != meta.ItemCount {
		c.logger.Debug("schedule item count mismatch",
			"path", path, "day", day,
			"declared", meta.ItemCount, "fetched", len(items))
	}

	// Last fetch wins for a live slot; a slot reset mid-flight stays empty.
	c.mu.Lock()
	s = c.slotLocked(key)
	if s.gen == gen {
		s.items = items
	}
	c.mu.Unlock()

	return items, nil
}

// KnownDays returns the persisted metadata for path in [from, to],
// without touching the network. Days never fetched are simply absent.
func (c *Cache) KnownDays(ctx context.Context, path domain.StudyPath, from, to domain.DayKey) (map[domain.DayKey]*domain.ScheduleDay, error) {
	stored, err := c.repo.ListRange(ctx, path, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing schedule range %s [%s, %s]: %w", path, from, to, err)
	}
	out := make(map[domain.DayKey]*domain.ScheduleDay, len(stored))
	for _, sd := range stored {
		out[sd.Day] = sd
	}
	return out, nil
}

// ResetDay clears the (path, day) slot and its persisted metadata. The
// generation bump makes any in-flight fetch for the slot stale.
func (c *Cache) ResetDay(ctx context.Context, path domain.StudyPath, day domain.DayKey) error {
	key := slotKey{path: path, day: day}
	c.mu.Lock()
	s := c.slotLocked(key)
	s.gen++
	s.meta = nil
	s.items = nil
	c.mu.Unlock()

	if err := c.repo.DeleteDay(ctx, path, day); err != nil {
		return fmt.Errorf("deleting schedule for %s %s: %w", path, day, err)
	}
	return nil
}

// ResetPath clears every slot of path, in memory and persisted.
func (c *Cache) ResetPath(ctx context.Context, path domain.StudyPath) error {
	c.mu.Lock()
	for key, s := range c.slots {
		if key.path == path {
			s.gen++
			s.meta = nil
			s.items = nil
		}
	}
	c.mu.Unlock()

	if err := c.repo.DeletePath(ctx, path); err != nil {
		return fmt.Errorf("deleting schedule for %s: %w", path, err)
	}
	return nil
}
