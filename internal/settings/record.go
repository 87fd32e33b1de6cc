package settings

import (
	"encoding/json"
	"fmt"

	"github.com/sentinelbot/sentinel/internal/models"
	"gorm.io/datatypes"
)

// Record is one guild's settings. ID is the store-assigned document key;
// zero means the record has never been persisted. ReportChannel is the forum
// channel configured to receive report threads, nil when reporting is not
// set up for the guild.
type Record struct {
	ID            uint64
	GuildID       int64
	ReportChannel *int64
}

// payload is the JSON body persisted inside a SettingsDocument.
type payload struct {
	GuildID       int64  `json:"guild_id"`
	ReportChannel *int64 `json:"report_channel,omitempty"`
}

// encode marshals the record body into a document payload.
func encode(rec *Record) (datatypes.JSON, error) {
	raw, errMarshal := json.Marshal(payload{
		GuildID:       rec.GuildID,
		ReportChannel: rec.ReportChannel,
	})
	if errMarshal != nil {
		return nil, fmt.Errorf("settings: encode guild %d: %w", rec.GuildID, errMarshal)
	}
	return datatypes.JSON(raw), nil
}

// decode unmarshals a stored document into a Record. It fails on malformed
// payloads or a missing guild id so callers can treat the row as unreadable.
func decode(doc *models.SettingsDocument) (*Record, error) {
	var body payload
	if errUnmarshal := json.Unmarshal(doc.Payload, &body); errUnmarshal != nil {
		return nil, fmt.Errorf("settings: decode document %d: %w", doc.ID, errUnmarshal)
	}
	if body.GuildID == 0 {
		return nil, fmt.Errorf("settings: decode document %d: missing guild_id", doc.ID)
	}
	return &Record{
		ID:            doc.ID,
		GuildID:       body.GuildID,
		ReportChannel: body.ReportChannel,
	}, nil
}
