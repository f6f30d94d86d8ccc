package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/btrkeks/innovation-coach-backend/internal/apperr"
	"github.com/btrkeks/innovation-coach-backend/internal/logger"
	"github.com/btrkeks/innovation-coach-backend/internal/repos"
	"github.com/btrkeks/innovation-coach-backend/internal/types"
)

const (
	questionFallback = "I'm having trouble connecting. Could you tell me more about your innovation challenges?"

	recommendationFallback = "Based on our conversation, I've identified some key innovation challenges. " +
		"I'll now recommend some resources that could help you address these."
)

// ChatResult is the engine's reply to one inbound chat message. The
// recommendation fields are set only once the question phase is over.
type ChatResult struct {
	AIMessage             string            `json:"aiMessage"`
	IsQuestionPhase       bool              `json:"isQuestionPhase"`
	QuestionCount         int               `json:"questionCount"`
	RecommendedPerson     *types.Person     `json:"recommendedPerson"`
	RecommendedEvent      *types.Event      `json:"recommendedEvent"`
	RecommendedFoerderung *types.Foerderung `json:"recommendedFoerderung"`
}

type ChatService interface {
	ProcessChatMessage(ctx context.Context, userID int64, message string) (*ChatResult, error)
}

type chatService struct {
	db       *gorm.DB
	log      *logger.Logger
	users    repos.UserRepo
	messages repos.ChatMessageRepo
	gen      TextGenerator
	matching MatchingService

	// Number of clarifying questions asked before recommending.
	questionThreshold int

	// Serializes read-modify-write of a single user's history.
	userLocks sync.Map
}

func NewChatService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	messageRepo repos.ChatMessageRepo,
	gen TextGenerator,
	matching MatchingService,
	questionThreshold int,
) ChatService {
	return &chatService{
		db:                db,
		log:               baseLog.With("service", "ChatService"),
		users:             userRepo,
		messages:          messageRepo,
		gen:               gen,
		matching:          matching,
		questionThreshold: questionThreshold,
	}
}

func (s *chatService) lockUser(userID int64) func() {
	v, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *chatService) ProcessChatMessage(ctx context.Context, userID int64, message string) (*ChatResult, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", userID, apperr.ErrNotFound)
	}

	history, err := s.messages.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load chat history for user %d: %w", userID, err)
	}

	userMsg := types.NewChatMessage(userID, types.ChatRoleUser, message, len(history))
	if _, err := s.messages.Create(ctx, nil, &userMsg); err != nil {
		return nil, fmt.Errorf("append user message: %w", err)
	}
	history = append(history, userMsg)

	messageCount := len(history)
	isQuestionPhase := messageCount < 2*s.questionThreshold

	var (
		aiResponse            string
		recommendedPerson     *types.Person
		recommendedEvent      *types.Event
		recommendedFoerderung *types.Foerderung
	)
	if isQuestionPhase {
		aiResponse = s.generateNextQuestion(ctx, history)
	} else {
		aiResponse = s.generateRecommendationResponse(ctx, history)
		recommendedPerson = s.matching.FittingPerson(ctx, userID)
		recommendedEvent = s.matching.FittingEvent(ctx, userID)
		recommendedFoerderung = s.matching.FittingFoerderung(ctx, userID)
	}

	assistantMsg := types.NewChatMessage(userID, types.ChatRoleAssistant, aiResponse, len(history))
	if _, err := s.messages.Create(ctx, nil, &assistantMsg); err != nil {
		return nil, fmt.Errorf("append assistant message: %w", err)
	}

	return &ChatResult{
		AIMessage:             aiResponse,
		IsQuestionPhase:       isQuestionPhase,
		QuestionCount:         messageCount / 2,
		RecommendedPerson:     recommendedPerson,
		RecommendedEvent:      recommendedEvent,
		RecommendedFoerderung: recommendedFoerderung,
	}, nil
}

func (s *chatService) generateNextQuestion(ctx context.Context, history []types.ChatMessage) string {
	systemPrompt := "You are an Innovation Coach helping a CEO identify underlying business problems. " +
		"Ask a thoughtful follow-up question based on the conversation history to better understand their specific " +
		"challenges with innovation. Be specific, empathetic, and insightful."

	var userPrompt strings.Builder
	userPrompt.WriteString("Previous conversation:\n\n")
	writeHistory(&userPrompt, history, "\n\n")
	userPrompt.WriteString("Based on this conversation, ask ONE thoughtful follow-up question to help understand " +
		"the CEO's innovation challenges better. Don't summarize or introduce yourself again, just " +
		"ask your next question. Try to be concise and always adapt your language to the language of the user.")

	response, err := s.gen.GenerateContent(ctx, userPrompt.String(), systemPrompt)
	if err != nil {
		s.log.Warn("Question generation failed, using fallback", "error", err)
		return questionFallback
	}
	return response
}

func (s *chatService) generateRecommendationResponse(ctx context.Context, history []types.ChatMessage) string {
	systemPrompt := "You are an innovation Coach helping a CEO with business innovation who " +
		"tries to be concise and always adapts his language to the language of the user. " +
		"Based on the conversation, summarize the key challenges you've identified and explain that " +
		"you're now going to recommend resources to help."

	var userPrompt strings.Builder
	userPrompt.WriteString("Conversation with CEO:\n\n")
	writeHistory(&userPrompt, history, "\n\n")
	userPrompt.WriteString("You always adapt your language to the language of the user. Based on this conversation, summarize the key innovation challenges you've identified. " +
		"Then, let the CEO know you're going to recommend a person to meet with and an event to attend that could " +
		"help address these challenges. Don't make specific recommendations yet as those will be provided separately.")

	response, err := s.gen.GenerateContent(ctx, userPrompt.String(), systemPrompt)
	if err != nil {
		s.log.Warn("Recommendation summary generation failed, using fallback", "error", err)
		return recommendationFallback
	}
	return response
}

func writeHistory(sb *strings.Builder, history []types.ChatMessage, sep string) {
	for _, msg := range history {
		sb.WriteString(msg.Role)
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
		sb.WriteString(sep)
	}
}
