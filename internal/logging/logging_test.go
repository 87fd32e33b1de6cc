package logging

import (
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestSetupLevelSelection(t *testing.T) {
	Setup(Options{Debug: true, Quiet: true})
	if log.GetLevel() != log.DebugLevel {
		t.Fatalf("expected debug level, got %v", log.GetLevel())
	}

	Setup(Options{})
	if log.GetLevel() != log.InfoLevel {
		t.Fatalf("expected info level, got %v", log.GetLevel())
	}
}
