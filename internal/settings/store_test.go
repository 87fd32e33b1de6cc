package settings

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sentinelbot/sentinel/internal/models"
)

func openStoreTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:settings_store_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := conn.AutoMigrate(&models.SettingsDocument{}); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

func countDocuments(t *testing.T, conn *gorm.DB) int64 {
	t.Helper()
	var count int64
	if err := conn.Model(&models.SettingsDocument{}).Count(&count).Error; err != nil {
		t.Fatalf("count documents: %v", err)
	}
	return count
}

func TestGetMissingGuildReturnsNil(t *testing.T) {
	store := NewGormStore(openStoreTestDB(t))

	rec, err := store.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil record, got %+v", rec)
	}
}

func TestSetCreatesRecordAndPopulatesIdentity(t *testing.T) {
	store := NewGormStore(openStoreTestDB(t))
	channel := int64(100)

	saved, err := store.Set(context.Background(), &Record{GuildID: 42, ReportChannel: &channel})
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if saved.ID == 0 {
		t.Fatalf("expected populated identity")
	}

	got, errGet := store.Get(context.Background(), 42)
	if errGet != nil {
		t.Fatalf("get: %v", errGet)
	}
	if got == nil {
		t.Fatalf("expected record after set")
	}
	if got.ID != saved.ID {
		t.Fatalf("identity mismatch: set %d, get %d", saved.ID, got.ID)
	}
	if got.GuildID != 42 {
		t.Fatalf("unexpected guild id %d", got.GuildID)
	}
	if got.ReportChannel == nil || *got.ReportChannel != 100 {
		t.Fatalf("unexpected report channel %v", got.ReportChannel)
	}
}

func TestSetWithIdentityReplacesInPlace(t *testing.T) {
	conn := openStoreTestDB(t)
	store := NewGormStore(conn)
	first := int64(100)
	second := int64(200)

	saved, err := store.Set(context.Background(), &Record{GuildID: 42, ReportChannel: &first})
	if err != nil {
		t.Fatalf("set: %v", err)
	}

	saved.ReportChannel = &second
	if _, errUpdate := store.Set(context.Background(), saved); errUpdate != nil {
		t.Fatalf("update: %v", errUpdate)
	}

	if count := countDocuments(t, conn); count != 1 {
		t.Fatalf("expected one document, got %d", count)
	}

	got, errGet := store.Get(context.Background(), 42)
	if errGet != nil {
		t.Fatalf("get: %v", errGet)
	}
	if got == nil || got.ReportChannel == nil || *got.ReportChannel != 200 {
		t.Fatalf("update not visible: %+v", got)
	}
	if got.ID != saved.ID {
		t.Fatalf("identity changed on update: %d != %d", got.ID, saved.ID)
	}
}

func TestSetIsIdempotentForPopulatedRecord(t *testing.T) {
	conn := openStoreTestDB(t)
	store := NewGormStore(conn)
	channel := int64(100)

	saved, err := store.Set(context.Background(), &Record{GuildID: 42, ReportChannel: &channel})
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, errAgain := store.Set(context.Background(), saved); errAgain != nil {
		t.Fatalf("second set: %v", errAgain)
	}

	if count := countDocuments(t, conn); count != 1 {
		t.Fatalf("expected one document after repeated set, got %d", count)
	}
}

func TestSetWithoutReportChannel(t *testing.T) {
	store := NewGormStore(openStoreTestDB(t))

	if _, err := store.Set(context.Background(), &Record{GuildID: 42}); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, errGet := store.Get(context.Background(), 42)
	if errGet != nil {
		t.Fatalf("get: %v", errGet)
	}
	if got == nil {
		t.Fatalf("expected record")
	}
	if got.ReportChannel != nil {
		t.Fatalf("expected unset report channel, got %v", *got.ReportChannel)
	}
}

func TestGetTreatsUnreadableDocumentAsAbsent(t *testing.T) {
	conn := openStoreTestDB(t)
	store := NewGormStore(conn)

	// Matches the guild lookup but carries a report_channel of the wrong type.
	doc := models.SettingsDocument{
		Payload: datatypes.JSON([]byte(`{"guild_id": 42, "report_channel": "oops"}`)),
	}
	if err := conn.Create(&doc).Error; err != nil {
		t.Fatalf("seed corrupt document: %v", err)
	}

	rec, err := store.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected corrupt record to read as absent, got %+v", rec)
	}
}

func TestGetScopedToGuild(t *testing.T) {
	store := NewGormStore(openStoreTestDB(t))
	channel := int64(100)

	if _, err := store.Set(context.Background(), &Record{GuildID: 42, ReportChannel: &channel}); err != nil {
		t.Fatalf("set: %v", err)
	}

	rec, err := store.Get(context.Background(), 43)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected no record for other guild, got %+v", rec)
	}
}
