// Package settings persists per-guild configuration as JSON documents with
// upsert-by-identity semantics: a record without an identity is inserted and
// handed its key back, a record with one replaces the stored body in place.
package settings

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	dbutil "github.com/sentinelbot/sentinel/internal/db"
	"github.com/sentinelbot/sentinel/internal/models"
)

// Store is the persistence port for guild settings.
type Store interface {
	// Get returns the settings record for a guild, or nil when the guild has
	// none. An unreadable stored record is reported as nil, not as an error.
	Get(ctx context.Context, guildID int64) (*Record, error)
	// Set inserts the record when its ID is zero, populating the ID from the
	// newly assigned key, and replaces the stored body in place otherwise.
	// Callers must Get before Set so an existing identity is reused; the
	// store does not deduplicate by guild id.
	Set(ctx context.Context, rec *Record) (*Record, error)
}

// GormStore implements Store on a GORM-backed document table.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore constructs a GormStore.
func NewGormStore(conn *gorm.DB) *GormStore {
	return &GormStore{db: conn}
}

// Get looks up the unique settings document for a guild. A document that no
// longer decodes into a valid record is logged and treated as absent so a
// corrupt row degrades the workflow to "not configured" instead of failing it.
func (s *GormStore) Get(ctx context.Context, guildID int64) (*Record, error) {
	var doc models.SettingsDocument
	err := s.db.WithContext(ctx).
		Where(dbutil.JSONNumberEqualsExpr(s.db, "payload", "guild_id"), guildID).
		First(&doc).Error
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("settings: get guild %d: %w", guildID, err)
	}

	rec, errDecode := decode(&doc)
	if errDecode != nil {
		log.WithFields(log.Fields{
			"guild_id":    guildID,
			"document_id": doc.ID,
		}).WithError(errDecode).Warn("stored settings record is unreadable, treating as absent")
		return nil, nil
	}
	return rec, nil
}

// Set writes a settings record, inserting or replacing by identity.
func (s *GormStore) Set(ctx context.Context, rec *Record) (*Record, error) {
	body, errEncode := encode(rec)
	if errEncode != nil {
		return nil, errEncode
	}

	if rec.ID == 0 {
		doc := models.SettingsDocument{Payload: body}
		if err := s.db.WithContext(ctx).Create(&doc).Error; err != nil {
			return nil, fmt.Errorf("settings: create guild %d: %w", rec.GuildID, err)
		}
		rec.ID = doc.ID
		log.WithFields(log.Fields{"guild_id": rec.GuildID, "document_id": rec.ID}).
			Info("created settings record")
		return rec, nil
	}

	err := s.db.WithContext(ctx).Model(&models.SettingsDocument{}).
		Where("id = ?", rec.ID).
		Update("payload", body).Error
	if err != nil {
		return nil, fmt.Errorf("settings: update guild %d: %w", rec.GuildID, err)
	}
	log.WithFields(log.Fields{"guild_id": rec.GuildID, "document_id": rec.ID}).
		Info("updated settings record")
	return rec, nil
}
