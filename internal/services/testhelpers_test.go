package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/btrkeks/innovation-coach-backend/internal/logger"
	"github.com/btrkeks/innovation-coach-backend/internal/types"
)

var testDBCounter int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:servicestest%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := gdb.AutoMigrate(
		&types.User{},
		&types.ChatMessage{},
		&types.Person{},
		&types.Event{},
		&types.Foerderung{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return gdb
}

func testLog() *logger.Logger {
	return logger.NewNop()
}

// stubGenerator is a scripted TextGenerator for tests.
type stubGenerator struct {
	response         string
	err              error
	calls            int
	lastUserPrompt   string
	lastSystemPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, userPrompt, systemPrompt string) (string, error) {
	s.calls++
	s.lastUserPrompt = userPrompt
	s.lastSystemPrompt = systemPrompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}
