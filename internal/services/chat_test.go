package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"github.com/btrkeks/innovation-coach-backend/internal/apperr"
	"github.com/btrkeks/innovation-coach-backend/internal/repos"
	"github.com/btrkeks/innovation-coach-backend/internal/types"
)

type chatFixture struct {
	db       *gorm.DB
	users    repos.UserRepo
	messages repos.ChatMessageRepo
	gen      *stubGenerator
	svc      ChatService
	userID   int64
}

func newChatFixture(t *testing.T, questionThreshold int) *chatFixture {
	t.Helper()
	gdb := newTestDB(t)
	log := testLog()

	userRepo := repos.NewUserRepo(gdb, log)
	messageRepo := repos.NewChatMessageRepo(gdb, log)
	personRepo := repos.NewPersonRepo(gdb, log)
	eventRepo := repos.NewEventRepo(gdb, log)
	foerderungRepo := repos.NewFoerderungRepo(gdb, log)

	ctx := context.Background()
	user := &types.User{Username: "ceo", Password: "x", Email: "ceo@example.com"}
	if _, err := userRepo.Save(ctx, nil, user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	for i := 1; i <= 2; i++ {
		if _, err := personRepo.Save(ctx, nil, &types.Person{Name: fmt.Sprintf("Expert %d", i)}); err != nil {
			t.Fatalf("seed person: %v", err)
		}
		if _, err := eventRepo.Save(ctx, nil, &types.Event{Name: fmt.Sprintf("Event %d", i)}); err != nil {
			t.Fatalf("seed event: %v", err)
		}
		if _, err := foerderungRepo.Save(ctx, nil, &types.Foerderung{Name: fmt.Sprintf("Fund %d", i)}); err != nil {
			t.Fatalf("seed foerderung: %v", err)
		}
	}

	gen := &stubGenerator{response: "Tell me more about your product."}
	matching := NewMatchingService(log, gen, userRepo, messageRepo, personRepo, eventRepo, foerderungRepo)
	svc := NewChatService(gdb, log, userRepo, messageRepo, gen, matching, questionThreshold)

	return &chatFixture{
		db:       gdb,
		users:    userRepo,
		messages: messageRepo,
		gen:      gen,
		svc:      svc,
		userID:   user.ID,
	}
}

func TestChatQuestionPhaseProgression(t *testing.T) {
	f := newChatFixture(t, 2)
	ctx := context.Background()

	// Threshold 2: two question rounds, then the third message flips to
	// recommendations.
	steps := []struct {
		message           string
		wantQuestionPhase bool
		wantQuestionCount int
	}{
		{message: "We struggle with innovation", wantQuestionPhase: true, wantQuestionCount: 0},
		{message: "Our team resists change", wantQuestionPhase: true, wantQuestionCount: 1},
		{message: "Budget is also tight", wantQuestionPhase: false, wantQuestionCount: 2},
	}

	for i, step := range steps {
		result, err := f.svc.ProcessChatMessage(ctx, f.userID, step.message)
		if err != nil {
			t.Fatalf("message %d: %v", i+1, err)
		}
		if result.IsQuestionPhase != step.wantQuestionPhase {
			t.Errorf("message %d: IsQuestionPhase=%v, want %v", i+1, result.IsQuestionPhase, step.wantQuestionPhase)
		}
		if result.QuestionCount != step.wantQuestionCount {
			t.Errorf("message %d: QuestionCount=%d, want %d", i+1, result.QuestionCount, step.wantQuestionCount)
		}
		if step.wantQuestionPhase {
			if result.RecommendedPerson != nil || result.RecommendedEvent != nil || result.RecommendedFoerderung != nil {
				t.Errorf("message %d: expected no recommendations during question phase", i+1)
			}
		} else {
			if result.RecommendedPerson == nil || result.RecommendedEvent == nil || result.RecommendedFoerderung == nil {
				t.Errorf("message %d: expected all three recommendations, got %+v", i+1, result)
			}
		}
	}
}

func TestChatTurnPairingAndOrder(t *testing.T) {
	f := newChatFixture(t, 2)
	ctx := context.Background()

	inputs := []string{"first", "second", "third"}
	for _, msg := range inputs {
		if _, err := f.svc.ProcessChatMessage(ctx, f.userID, msg); err != nil {
			t.Fatalf("process %q: %v", msg, err)
		}
	}

	history, err := f.messages.GetByUserID(ctx, nil, f.userID)
	if err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(history) != 2*len(inputs) {
		t.Fatalf("stored %d messages, want %d", len(history), 2*len(inputs))
	}
	for i, msg := range history {
		wantRole := types.ChatRoleUser
		if i%2 == 1 {
			wantRole = types.ChatRoleAssistant
		}
		if msg.Role != wantRole {
			t.Errorf("message %d: role=%q, want %q", i, msg.Role, wantRole)
		}
		if msg.Position != i {
			t.Errorf("message %d: position=%d, want %d", i, msg.Position, i)
		}
	}
	for i, want := range inputs {
		if got := history[2*i].Content; got != want {
			t.Errorf("user turn %d: content=%q, want %q", i, got, want)
		}
	}
}

func TestChatThresholdZeroAlwaysRecommends(t *testing.T) {
	f := newChatFixture(t, 0)
	ctx := context.Background()

	result, err := f.svc.ProcessChatMessage(ctx, f.userID, "hello")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if result.IsQuestionPhase {
		t.Error("threshold 0 must recommend immediately")
	}
	if result.RecommendedPerson == nil || result.RecommendedEvent == nil || result.RecommendedFoerderung == nil {
		t.Error("expected all three recommendations on first message")
	}
}

func TestChatUnknownUserIsNotFound(t *testing.T) {
	f := newChatFixture(t, 2)

	_, err := f.svc.ProcessChatMessage(context.Background(), 9999, "hello")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}

func TestChatGeneratorFailureUsesFallbacks(t *testing.T) {
	f := newChatFixture(t, 2)
	f.gen.err = errors.New("upstream down")
	ctx := context.Background()

	result, err := f.svc.ProcessChatMessage(ctx, f.userID, "hello")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if result.AIMessage != questionFallback {
		t.Fatalf("AIMessage=%q, want question fallback", result.AIMessage)
	}

	// The fallback text is stored as the assistant turn like any reply.
	history, err := f.messages.GetByUserID(ctx, nil, f.userID)
	if err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(history) != 2 || history[1].Content != questionFallback {
		t.Fatalf("assistant fallback turn not stored: %+v", history)
	}
}

func TestChatRecommendationFallbackMessage(t *testing.T) {
	f := newChatFixture(t, 0)
	f.gen.err = errors.New("upstream down")

	result, err := f.svc.ProcessChatMessage(context.Background(), f.userID, "hello")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if result.AIMessage != recommendationFallback {
		t.Fatalf("AIMessage=%q, want recommendation fallback", result.AIMessage)
	}
	// Selector degrades to the first catalog entries, deterministically.
	if result.RecommendedPerson == nil || result.RecommendedPerson.Name != "Expert 1" {
		t.Errorf("RecommendedPerson=%+v, want first entry", result.RecommendedPerson)
	}
	if result.RecommendedEvent == nil || result.RecommendedEvent.Name != "Event 1" {
		t.Errorf("RecommendedEvent=%+v, want first entry", result.RecommendedEvent)
	}
	if result.RecommendedFoerderung == nil || result.RecommendedFoerderung.Name != "Fund 1" {
		t.Errorf("RecommendedFoerderung=%+v, want first entry", result.RecommendedFoerderung)
	}
}
