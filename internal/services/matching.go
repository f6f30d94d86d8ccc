package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/btrkeks/innovation-coach-backend/internal/logger"
	"github.com/btrkeks/innovation-coach-backend/internal/repos"
	"github.com/btrkeks/innovation-coach-backend/internal/types"
)

var (
	personIDPattern     = regexp.MustCompile(`PERSON_ID:\s*(\d+)`)
	eventIDPattern      = regexp.MustCompile(`EVENT_ID:\s*(\d+)`)
	foerderungIDPattern = regexp.MustCompile(`FUNDING_ID:\s*(\d+)`)
)

// MatchingService selects catalog entries for a user. Selection is
// best-effort: every failure path degrades to the first catalog entry, and an
// empty catalog or missing user degrades to a fixed default.
type MatchingService interface {
	FittingPerson(ctx context.Context, userID int64) *types.Person
	FittingEvent(ctx context.Context, userID int64) *types.Event
	FittingFoerderung(ctx context.Context, userID int64) *types.Foerderung
}

type matchingService struct {
	log         *logger.Logger
	gen         TextGenerator
	users       repos.UserRepo
	messages    repos.ChatMessageRepo
	persons     repos.PersonRepo
	events      repos.EventRepo
	foerderungs repos.FoerderungRepo
}

func NewMatchingService(
	baseLog *logger.Logger,
	gen TextGenerator,
	userRepo repos.UserRepo,
	messageRepo repos.ChatMessageRepo,
	personRepo repos.PersonRepo,
	eventRepo repos.EventRepo,
	foerderungRepo repos.FoerderungRepo,
) MatchingService {
	return &matchingService{
		log:         baseLog.With("service", "MatchingService"),
		gen:         gen,
		users:       userRepo,
		messages:    messageRepo,
		persons:     personRepo,
		events:      eventRepo,
		foerderungs: foerderungRepo,
	}
}

func defaultPerson() *types.Person {
	return &types.Person{
		ID:          1,
		Category:    "Academia",
		Institution: "University of St.Gallen (HSG)",
		Name:        "School of Management (SoM-HSG)",
		Description: "Research and teaching in business administration, strategy, and innovation.",
		FocusAreas:  "Business Strategy, Innovation, Leadership",
		Contact:     "som@unisg.ch",
		Website:     "https://som.unisg.ch",
	}
}

func defaultEvent() *types.Event {
	return &types.Event{
		ID:           1,
		Name:         "Innovation Conference 2025",
		ZeitPunkt:    time.Date(2025, 4, 15, 9, 0, 0, 0, time.UTC),
		Adresse:      "Tech Hub Berlin, Alexanderplatz 1, 10178 Berlin",
		Link:         "https://innovation-conference-2025.de",
		Beschreibung: "Annual conference for startups and innovation leaders focusing on AI and sustainability",
		Branche:      "Technology",
	}
}

func defaultFoerderung() *types.Foerderung {
	return &types.Foerderung{
		ID:           1,
		Name:         "Digital Innovation Fund 2025",
		Beschreibung: "Funding program for digital startups with focus on AI and machine learning applications",
		Date:         time.Date(2025, 6, 30, 23, 59, 0, 0, time.UTC),
		Branche:      "Technology, Digital Innovation",
		LinkWebsite:  "https://digital-innovation-fund.de",
		LinkFormular: "https://digital-innovation-fund.de/apply",
	}
}

func (s *matchingService) FittingPerson(ctx context.Context, userID int64) *types.Person {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil || user == nil {
		return defaultPerson()
	}

	personList, err := s.persons.GetAll(ctx, nil)
	if err != nil || len(personList) == 0 {
		return defaultPerson()
	}

	systemPrompt := "You are an innovation matching assistant helping to connect entrepreneurs " +
		"with the right expert based on their company profile and conversation history. " +
		"Your task is to analyze the data and recommend the most suitable person."

	var userPrompt strings.Builder
	s.writeProfileSections(ctx, &userPrompt, user)

	userPrompt.WriteString("## Available Persons\n")
	for i, person := range personList {
		fmt.Fprintf(&userPrompt, "%d. ID: %d, Name: %s\n", i+1, person.ID, person.Name)
	}
	userPrompt.WriteString("\n")

	userPrompt.WriteString("Based on the above information, which person would be most beneficial for the user to meet " +
		"to drive innovation at their company? Return ONLY the ID of the most appropriate person " +
		"in this format: 'PERSON_ID: [id]'")

	response, err := s.gen.GenerateContent(ctx, userPrompt.String(), systemPrompt)
	if err != nil {
		s.log.Warn("Person matching call failed, falling back to first entry", "error", err)
		return &personList[0]
	}

	if id, ok := parseMarkedID(personIDPattern, response); ok {
		selected, err := s.persons.GetByID(ctx, nil, id)
		if err == nil && selected != nil {
			return selected
		}
	}
	return &personList[0]
}

func (s *matchingService) FittingEvent(ctx context.Context, userID int64) *types.Event {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil || user == nil {
		return defaultEvent()
	}

	eventList, err := s.events.GetAll(ctx, nil)
	if err != nil || len(eventList) == 0 {
		return defaultEvent()
	}

	systemPrompt := "You are an innovation event matching assistant helping entrepreneurs " +
		"find the most relevant events based on their company profile and conversation history. " +
		"Your task is to analyze the data and recommend the most suitable event for driving innovation."

	var userPrompt strings.Builder
	s.writeProfileSections(ctx, &userPrompt, user)

	userPrompt.WriteString("## Available Events\n")
	for i, event := range eventList {
		fmt.Fprintf(&userPrompt, "%d. ID: %d, Name: %s, Date: %s, Industry: %s\nDescription: %s\nLocation: %s\n\n",
			i+1, event.ID, event.Name, event.ZeitPunkt.Format("2006-01-02T15:04"), event.Branche, event.Beschreibung, event.Adresse)
	}

	userPrompt.WriteString("Based on the above information, which event would be most beneficial for the user to attend " +
		"to drive innovation at their company? Consider relevance to their industry, company size, " +
		"and the topics discussed in their conversation history. Return ONLY the ID of the most appropriate event " +
		"in this format: 'EVENT_ID: [id]'")

	response, err := s.gen.GenerateContent(ctx, userPrompt.String(), systemPrompt)
	if err != nil {
		s.log.Warn("Event matching call failed, falling back to first entry", "error", err)
		return &eventList[0]
	}

	if id, ok := parseMarkedID(eventIDPattern, response); ok {
		selected, err := s.events.GetByID(ctx, nil, id)
		if err == nil && selected != nil {
			return selected
		}
	}
	return &eventList[0]
}

func (s *matchingService) FittingFoerderung(ctx context.Context, userID int64) *types.Foerderung {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil || user == nil {
		return defaultFoerderung()
	}

	foerderungList, err := s.foerderungs.GetAll(ctx, nil)
	if err != nil || len(foerderungList) == 0 {
		return defaultFoerderung()
	}

	systemPrompt := "You are a funding opportunity matching assistant helping entrepreneurs " +
		"find the most relevant grants and funding programs based on their company profile " +
		"and conversation history. Your task is to analyze the data and recommend the most " +
		"suitable funding opportunity for driving innovation."

	var userPrompt strings.Builder
	s.writeProfileSections(ctx, &userPrompt, user)

	userPrompt.WriteString("## Available Funding Opportunities\n")
	for i, foerderung := range foerderungList {
		fmt.Fprintf(&userPrompt, "%d. ID: %d, Name: %s, Deadline: %s, Industry: %s\nDescription: %s\nWebsite: %s\nApplication Form: %s\n\n",
			i+1, foerderung.ID, foerderung.Name, foerderung.Date.Format("2006-01-02T15:04"), foerderung.Branche,
			foerderung.Beschreibung, foerderung.LinkWebsite, foerderung.LinkFormular)
	}

	userPrompt.WriteString("Based on the above information, which funding opportunity would be most beneficial " +
		"for the user to apply for to drive innovation at their company? Consider relevance to " +
		"their industry, company size, eligibility based on company size and focus, and the topics " +
		"discussed in their conversation history. Return ONLY the ID of the most appropriate funding " +
		"opportunity in this format: 'FUNDING_ID: [id]'")

	response, err := s.gen.GenerateContent(ctx, userPrompt.String(), systemPrompt)
	if err != nil {
		s.log.Warn("Funding matching call failed, falling back to first entry", "error", err)
		return &foerderungList[0]
	}

	if id, ok := parseMarkedID(foerderungIDPattern, response); ok {
		selected, err := s.foerderungs.GetByID(ctx, nil, id)
		if err == nil && selected != nil {
			return selected
		}
	}
	return &foerderungList[0]
}

// writeProfileSections renders the company info and conversation history
// blocks shared by all three matching prompts.
func (s *matchingService) writeProfileSections(ctx context.Context, sb *strings.Builder, user *types.User) {
	sb.WriteString("## Company Information\n")
	if info := user.CompanyInfoData(); info != nil {
		fmt.Fprintf(sb, "Company Name: %s\n", info.CompanyName)
		fmt.Fprintf(sb, "Number of Employees: %s\n\n", intOrNull(info.NumberOfEmployees))
	} else {
		sb.WriteString("No company information available.\n\n")
	}

	sb.WriteString("## Conversation History\n")
	history, err := s.messages.GetByUserID(ctx, nil, user.ID)
	if err != nil || len(history) == 0 {
		sb.WriteString("No conversation history available.\n")
	} else {
		writeHistory(sb, history, "\n")
	}
	sb.WriteString("\n")
}

func parseMarkedID(pattern *regexp.Regexp, response string) (int64, bool) {
	m := pattern.FindStringSubmatch(response)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func intOrNull(v *int) string {
	if v == nil {
		return "null"
	}
	return strconv.Itoa(*v)
}
