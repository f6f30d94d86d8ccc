package services

import (
	"context"
	"errors"
	"testing"

	"github.com/btrkeks/innovation-coach-backend/internal/apperr"
	"github.com/btrkeks/innovation-coach-backend/internal/repos"
	"github.com/btrkeks/innovation-coach-backend/internal/types"
)

func TestGetUserAttachesHistory(t *testing.T) {
	gdb := newTestDB(t)
	log := testLog()
	users := repos.NewUserRepo(gdb, log)
	messages := repos.NewChatMessageRepo(gdb, log)
	svc := NewUserService(log, users, messages)
	ctx := context.Background()

	user := &types.User{Username: "alice", Password: "hash", Email: "alice@example.com"}
	if _, err := users.Save(ctx, nil, user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	for i, content := range []string{"hi", "hello"} {
		role := types.ChatRoleUser
		if i%2 == 1 {
			role = types.ChatRoleAssistant
		}
		msg := types.NewChatMessage(user.ID, role, content, i)
		if _, err := messages.Create(ctx, nil, &msg); err != nil {
			t.Fatalf("seed message: %v", err)
		}
	}

	got, err := svc.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(got.Messages))
	}
	if got.Messages[0].Content != "hi" || got.Messages[1].Content != "hello" {
		t.Errorf("history out of order: %+v", got.Messages)
	}

	history, err := svc.GetChatHistory(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetChatHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d messages, want 2", len(history))
	}
}

func TestUserServiceUnknownUser(t *testing.T) {
	gdb := newTestDB(t)
	log := testLog()
	svc := NewUserService(log, repos.NewUserRepo(gdb, log), repos.NewChatMessageRepo(gdb, log))

	if _, err := svc.GetUser(context.Background(), 9999); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("GetUser: err=%v, want ErrNotFound", err)
	}
	if _, err := svc.GetChatHistory(context.Background(), 9999); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("GetChatHistory: err=%v, want ErrNotFound", err)
	}
}
