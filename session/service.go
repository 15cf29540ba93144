package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/habiliai/memoryruntime/entity"
	"github.com/habiliai/memoryruntime/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type (
	// Service owns the local transcript of agent conversations. Sessions
	// accumulate events here before being flushed to long-term memory.
	Service interface {
		CreateSession(ctx context.Context, appName, userID string) (*entity.Session, error)
		GetSession(ctx context.Context, id string) (*entity.Session, error)
		AppendEvent(ctx context.Context, sessionID string, event *entity.Event) error
		ListSessions(ctx context.Context, appName, userID string) ([]entity.Session, error)
		DeleteSession(ctx context.Context, id string) error
		Close() error
	}

	SqliteService struct {
		db     *gorm.DB
		logger *slog.Logger
	}
)

var (
	_ Service = (*SqliteService)(nil)
)

// NewSqliteService opens (or creates) a SQLite-backed session store.
// Pass ":memory:" for an ephemeral store.
func NewSqliteService(path string, log *slog.Logger) (*SqliteService, error) {
	dsn := "file::memory:?cache=shared"
	if path != ":memory:" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return nil, errors.Wrapf(err, "failed to create session store directory at %s", path)
			}
		}
		dsn = fmt.Sprintf("file:%s?cache=shared&mode=rwc&_journal_mode=WAL&_foreign_keys=on", path)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open session store at %s", path)
	}

	if err := db.AutoMigrate(&entity.Session{}, &entity.Event{}); err != nil {
		return nil, errors.Wrapf(err, "failed to migrate session store at %s", path)
	}

	return &SqliteService{db: db, logger: log}, nil
}

func (s *SqliteService) CreateSession(ctx context.Context, appName, userID string) (*entity.Session, error) {
	if appName == "" || userID == "" {
		return nil, errors.Wrapf(errors.ErrInvalidParams, "appName and userID are required")
	}

	session := &entity.Session{
		ID:      uuid.NewString(),
		AppName: appName,
		UserID:  userID,
	}
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to create session for %s/%s", appName, userID)
	}

	s.logger.Debug("created session", "session_id", session.ID, "app_name", appName, "user_id", userID)
	return session, nil
}

func (s *SqliteService) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	var session entity.Session
	r := s.db.WithContext(ctx).
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Find(&session, "id = ?", id)
	if r.Error != nil {
		return nil, errors.Wrapf(r.Error, "failed to get session %s", id)
	}
	if r.RowsAffected == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "session %s", id)
	}

	return &session, nil
}

func (s *SqliteService) AppendEvent(ctx context.Context, sessionID string, event *entity.Event) error {
	if event == nil {
		return errors.Wrapf(errors.ErrInvalidParams, "event is required")
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	event.SessionID = sessionID

	tx := s.db.WithContext(ctx)
	if err := tx.Create(event).Error; err != nil {
		return errors.Wrapf(err, "failed to append event to session %s", sessionID)
	}
	if err := tx.Model(&entity.Session{}).Where("id = ?", sessionID).
		Update("updated_at", time.Now()).Error; err != nil {
		return errors.Wrapf(err, "failed to touch session %s", sessionID)
	}

	return nil
}

func (s *SqliteService) ListSessions(ctx context.Context, appName, userID string) ([]entity.Session, error) {
	var sessions []entity.Session
	if err := s.db.WithContext(ctx).
		Where("app_name = ? AND user_id = ?", appName, userID).
		Order("created_at ASC").
		Find(&sessions).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to list sessions for %s/%s", appName, userID)
	}

	return sessions, nil
}

func (s *SqliteService) DeleteSession(ctx context.Context, id string) error {
	tx := s.db.WithContext(ctx)
	if err := tx.Delete(&entity.Event{}, "session_id = ?", id).Error; err != nil {
		return errors.Wrapf(err, "failed to delete events of session %s", id)
	}
	if err := tx.Delete(&entity.Session{}, "id = ?", id).Error; err != nil {
		return errors.Wrapf(err, "failed to delete session %s", id)
	}

	return nil
}

func (s *SqliteService) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return errors.Wrapf(err, "failed to get database connection")
	}
	return db.Close()
}
