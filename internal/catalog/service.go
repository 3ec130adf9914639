package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/user/video-manager-go/internal/metadata"
	"github.com/user/video-manager-go/internal/metrics"
	"github.com/user/video-manager-go/internal/model"
	"github.com/user/video-manager-go/internal/player"
	"github.com/user/video-manager-go/internal/store"
)

// ErrFailed wraps faults outside the store's error taxonomy
var ErrFailed = errors.New("operation failed")

// ErrNoFetcher is returned by Enrich when no metadata fetcher is configured
var ErrNoFetcher = errors.New("metadata lookup is not configured")

// MetadataFetcher looks up page metadata for a video URL
type MetadataFetcher interface {
	Fetch(ctx context.Context, pageURL string) (*metadata.Metadata, error)
}

// Service is the command surface every shell drives.
// Store calls are serialized so concurrent shells see one operation at a time.
type Service struct {
	mu      sync.Mutex
	store   store.Store
	opener  player.Opener
	fetcher MetadataFetcher
}

// NewService creates a new catalog service. fetcher may be nil.
func NewService(store store.Store, opener player.Opener, fetcher MetadataFetcher) *Service {
	if opener == nil {
		opener = player.Nop{}
	}
	return &Service{
		store:   store,
		opener:  opener,
		fetcher: fetcher,
	}
}

// List returns every video
func (s *Service) List(ctx context.Context) ([]*model.Video, error) {
	var videos []*model.Video
	err := s.guard("list", func() error {
		var err error
		videos, err = s.store.ListAll(ctx)
		return err
	})
	return videos, err
}

// Search returns videos whose title or category contains query.
// An empty query lists everything; whitespace is matched like any other text.
func (s *Service) Search(ctx context.Context, query string) ([]*model.Video, error) {
	if query == "" {
		return s.List(ctx)
	}

	var videos []*model.Video
	err := s.guard("search", func() error {
		var err error
		videos, err = s.store.Search(ctx, query)
		return err
	})
	return videos, err
}

// Get returns a single video
func (s *Service) Get(ctx context.Context, id uint) (*model.Video, error) {
	var video *model.Video
	err := s.guard("get", func() error {
		var err error
		video, err = s.store.Get(ctx, id)
		return err
	})
	return video, err
}

// Add validates and stores a new video, returning the stored record
func (s *Service) Add(ctx context.Context, in model.VideoInput) (*model.Video, error) {
	if err := in.Validate(); err != nil {
		metrics.RecordOperation("add", "invalid")
		return nil, err
	}

	var video *model.Video
	err := s.guard("add", func() error {
		id, err := s.store.Add(ctx, in)
		if err != nil {
			return err
		}
		log.Info().Uint("id", id).Str("title", in.Title).Msg("Video added")
		s.refreshCount(ctx)

		// The row is committed; a failed read-back must not report the add as failed
		stored, getErr := s.store.Get(ctx, id)
		if getErr != nil {
			log.Warn().Err(getErr).Uint("id", id).Msg("Failed to read back added video")
			video = addedVideo(id, in)
			return nil
		}
		video = stored
		return nil
	})
	return video, err
}

// Update overwrites the editable fields of a video and returns the affected-row count.
// Zero means no video had that id.
func (s *Service) Update(ctx context.Context, id uint, in model.VideoInput) (int64, error) {
	if err := in.Validate(); err != nil {
		metrics.RecordOperation("update", "invalid")
		return 0, err
	}

	var affected int64
	err := s.guard("update", func() error {
		var err error
		affected, err = s.store.Update(ctx, id, in)
		if err != nil {
			return err
		}
		if affected == 0 {
			log.Warn().Uint("id", id).Msg("Update matched no video")
		} else {
			log.Info().Uint("id", id).Msg("Video updated")
		}
		return nil
	})
	return affected, err
}

// Delete removes a video and returns the affected-row count.
// Zero means no video had that id.
func (s *Service) Delete(ctx context.Context, id uint) (int64, error) {
	var affected int64
	err := s.guard("delete", func() error {
		var err error
		affected, err = s.store.Delete(ctx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			log.Warn().Uint("id", id).Msg("Delete matched no video")
		} else {
			log.Info().Uint("id", id).Msg("Video deleted")
			s.refreshCount(ctx)
		}
		return nil
	})
	return affected, err
}

// Play counts a view and hands the video URL to the player.
// The hand-off is fire-and-forget; its failures never reach the caller.
func (s *Service) Play(ctx context.Context, id uint) (string, error) {
	var url string
	err := s.guard("play", func() error {
		var err error
		url, err = s.store.IncrementViewAndFetchURL(ctx, id)
		return err
	})
	if err != nil {
		return "", err
	}

	metrics.RecordPlay()
	s.opener.Open(url)
	return url, nil
}

// Enrich fills an empty title or duration from the video page.
// Fields already set are kept.
func (s *Service) Enrich(ctx context.Context, in *model.VideoInput) error {
	if s.fetcher == nil {
		return ErrNoFetcher
	}
	if strings.TrimSpace(in.URL) == "" {
		return fmt.Errorf("%w: url required", model.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Title) != "" && strings.TrimSpace(in.Duration) != "" {
		return nil
	}

	md, err := s.fetcher.Fetch(ctx, in.URL)
	if err != nil {
		return fmt.Errorf("failed to look up %s: %w", in.URL, err)
	}

	if strings.TrimSpace(in.Title) == "" {
		in.Title = md.Title
	}
	if strings.TrimSpace(in.Duration) == "" {
		in.Duration = md.Duration
	}
	return nil
}

// addedVideo builds the record an add produced from its input
func addedVideo(id uint, in model.VideoInput) *model.Video {
	return &model.Video{
		ID:        id,
		Title:     in.Title,
		URL:       in.URL,
		Duration:  in.Duration,
		Category:  in.Category,
		CreatedAt: time.Now(),
	}
}

// guard runs fn under the store mutex, records the outcome,
// and turns unexpected errors and panics into ErrFailed.
func (s *Service) guard(op string, fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("op", op).Interface("panic", r).Msg("Recovered from panic in catalog operation")
			err = fmt.Errorf("%s: %w: %v", op, ErrFailed, r)
		}
		metrics.RecordOperation(op, status(err))
	}()

	err = fn()
	if err != nil && !isKnown(err) {
		log.Error().Err(err).Str("op", op).Msg("Unexpected catalog error")
		err = fmt.Errorf("%s: %w: %w", op, ErrFailed, err)
	}
	return err
}

// refreshCount updates the video gauge; errors are only logged
func (s *Service) refreshCount(ctx context.Context) {
	count, err := s.store.Count(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to count videos")
		return
	}
	metrics.SetVideoCount(count)
}

// RefreshCount updates the video gauge, used once at startup
func (s *Service) RefreshCount(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshCount(ctx)
}

// Ping checks store connectivity
func (s *Service) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Ping(ctx)
}

func isKnown(err error) bool {
	return errors.Is(err, store.ErrWrite) ||
		errors.Is(err, store.ErrNotFound) ||
		errors.Is(err, store.ErrQuery) ||
		errors.Is(err, model.ErrInvalidInput) ||
		errors.Is(err, ErrFailed)
}

func status(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, store.ErrNotFound):
		return "not_found"
	case errors.Is(err, model.ErrInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}
