package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"github.com/user/video-manager-go/internal/config"
	"github.com/user/video-manager-go/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// createTableSQL matches the table layout of existing youtube_videos.db files
const createTableSQL = `CREATE TABLE IF NOT EXISTS youtube_videos (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    url TEXT NOT NULL,
    time TEXT NOT NULL,
    category TEXT,
    views INTEGER DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// SQLiteStore implements Store interface using a local SQLite file
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens the database file and ensures the table exists
func NewSQLiteStore(cfg *config.DBConfig) (*SQLiteStore, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// One handle for the whole process lifetime
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	s := &SQLiteStore{db: db}
	if err := s.Initialize(context.Background()); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return s, nil
}

// Initialize creates the videos table if it does not exist. Existing data is kept.
func (s *SQLiteStore) Initialize(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Exec(createTableSQL).Error; err != nil {
		return fmt.Errorf("failed to initialize schema: %w: %w", ErrWrite, err)
	}
	return nil
}

// ListAll returns every video ordered by id
func (s *SQLiteStore) ListAll(ctx context.Context) ([]*model.Video, error) {
	var videos []*model.Video
	result := s.db.WithContext(ctx).Order("id ASC").Find(&videos)
	if result.Error != nil {
		logStorageError(result.Error, "list")
		return nil, fmt.Errorf("failed to list videos: %w: %w", ErrQuery, result.Error)
	}
	return videos, nil
}

// Search returns videos whose title or category contains query.
// The match is case-sensitive; % and _ in query act as LIKE wildcards.
func (s *SQLiteStore) Search(ctx context.Context, query string) ([]*model.Video, error) {
	var videos []*model.Video
	searchPattern := "%" + query + "%"
	result := s.db.WithContext(ctx).
		Where("title LIKE ? OR category LIKE ?", searchPattern, searchPattern).
		Order("id ASC").
		Find(&videos)
	if result.Error != nil {
		logStorageError(result.Error, "search")
		return nil, fmt.Errorf("failed to search videos: %w: %w", ErrQuery, result.Error)
	}
	return videos, nil
}

// Get retrieves a video by id
func (s *SQLiteStore) Get(ctx context.Context, id uint) (*model.Video, error) {
	var video model.Video
	result := s.db.WithContext(ctx).Where("id = ?", id).First(&video)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("video %d: %w", id, ErrNotFound)
		}
		logStorageError(result.Error, "get")
		return nil, fmt.Errorf("failed to get video: %w: %w", ErrQuery, result.Error)
	}
	return &video, nil
}

// Add inserts a new video with zero views and returns its id
func (s *SQLiteStore) Add(ctx context.Context, in model.VideoInput) (uint, error) {
	video := &model.Video{
		Title:    in.Title,
		URL:      in.URL,
		Duration: in.Duration,
		Category: in.Category,
		Views:    0,
	}

	if err := s.db.WithContext(ctx).Create(video).Error; err != nil {
		logStorageError(err, "add")
		return 0, fmt.Errorf("failed to add video: %w: %w", ErrWrite, err)
	}

	return video.ID, nil
}

// Update overwrites title, url, duration and category of the video with the given id.
// An unknown id is a no-op that reports zero affected rows.
func (s *SQLiteStore) Update(ctx context.Context, id uint, in model.VideoInput) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Video{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":    in.Title,
			"url":      in.URL,
			"time":     in.Duration,
			"category": in.Category,
		})
	if result.Error != nil {
		logStorageError(result.Error, "update")
		return 0, fmt.Errorf("failed to update video: %w: %w", ErrWrite, result.Error)
	}
	return result.RowsAffected, nil
}

// Delete removes the video with the given id.
// An unknown id is a no-op that reports zero affected rows.
func (s *SQLiteStore) Delete(ctx context.Context, id uint) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Video{})
	if result.Error != nil {
		logStorageError(result.Error, "delete")
		return 0, fmt.Errorf("failed to delete video: %w: %w", ErrWrite, result.Error)
	}
	return result.RowsAffected, nil
}

// IncrementViewAndFetchURL adds one view and then reads the url, in that order
func (s *SQLiteStore) IncrementViewAndFetchURL(ctx context.Context, id uint) (string, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Video{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		logStorageError(result.Error, "increment views")
		return "", fmt.Errorf("failed to increment views: %w: %w", ErrWrite, result.Error)
	}

	var video model.Video
	fetch := s.db.WithContext(ctx).Select("id", "url").Where("id = ?", id).First(&video)
	if fetch.Error != nil {
		if errors.Is(fetch.Error, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("video %d: %w", id, ErrNotFound)
		}
		logStorageError(fetch.Error, "fetch url")
		return "", fmt.Errorf("failed to fetch video url: %w: %w", ErrQuery, fetch.Error)
	}
	return video.URL, nil
}

// Count returns the total count of videos
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).Model(&model.Video{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count videos: %w: %w", ErrQuery, result.Error)
	}
	return count, nil
}

// Ping checks database connectivity
func (s *SQLiteStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying db: %w", err)
	}
	return sqlDB.Close()
}

// DB returns the underlying gorm.DB instance (for testing purposes)
func (s *SQLiteStore) DB() *gorm.DB {
	return s.db
}

// SQLiteCode extracts the SQLite result code from err, if any
func SQLiteCode(err error) (sqlite3.ErrNo, sqlite3.ErrNoExtended, bool) {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code, sqliteErr.ExtendedCode, true
	}
	return 0, 0, false
}

func logStorageError(err error, op string) {
	ev := log.Error().Err(err).Str("op", op)
	if code, ext, ok := SQLiteCode(err); ok {
		ev = ev.Int("sqliteCode", int(code)).Int("sqliteExtendedCode", int(ext))
	}
	ev.Msg("Storage operation failed")
}
