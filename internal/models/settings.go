package models

import (
	"time"

	"gorm.io/datatypes"
)

// SettingsDocument stores one guild's settings payload. The body is kept as
// a JSON document so the schema can evolve without column migrations; the
// row id doubles as the record identity handed back to callers.
type SettingsDocument struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Store-assigned document key.

	Payload datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'"` // Settings body.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// TableName overrides the default table name.
func (SettingsDocument) TableName() string {
	return "settings"
}
