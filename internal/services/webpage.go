package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/btrkeks/innovation-coach-backend/internal/apperr"
	"github.com/btrkeks/innovation-coach-backend/internal/logger"
	"github.com/btrkeks/innovation-coach-backend/internal/repos"
	"github.com/btrkeks/innovation-coach-backend/internal/types"
)

const (
	webpageUserAgent = "Mozilla/5.0 (compatible; InnovationCoachBot/1.0)"

	// Model context budget for downloaded page content.
	maxWebpageChars = 8000
)

var (
	wwwPrefixPattern = regexp.MustCompile(`www\.`)
	tldSuffixPattern = regexp.MustCompile(`\.com|\.org|\.net`)
)

// WebpageService downloads a company webpage and extracts structured company
// info from it via the text generator, degrading to a domain-derived name
// when extraction fails.
type WebpageService interface {
	ProcessWebpage(ctx context.Context, userID int64, rawURL string) (*types.CompanyInfo, error)
}

type webpageService struct {
	log        *logger.Logger
	gen        TextGenerator
	users      repos.UserRepo
	httpClient *http.Client
}

func NewWebpageService(baseLog *logger.Logger, gen TextGenerator, userRepo repos.UserRepo) WebpageService {
	return &webpageService{
		log:   baseLog.With("service", "WebpageService"),
		gen:   gen,
		users: userRepo,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

func (s *webpageService) ProcessWebpage(ctx context.Context, userID int64, rawURL string) (*types.CompanyInfo, error) {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}
	if user == nil {
		// Lazily create the profile on first webpage processing.
		user = &types.User{
			ID:       userID,
			Username: fmt.Sprintf("user%d", userID),
			Email:    fmt.Sprintf("user%d@placeholder.invalid", userID),
			Password: "",
		}
	}

	content, err := s.downloadWebpage(ctx, rawURL)
	if err != nil {
		s.log.Error("Webpage download failed", "url", rawURL, "error", err)
		return nil, err
	}
	s.log.Info("Successfully downloaded webpage content", "url", rawURL)

	info := s.extractCompanyInfo(ctx, content, rawURL)
	s.log.Info("Extracted company info", "companyName", info.CompanyName)

	user.SetCompanyInfo(*info)
	if _, err := s.users.Save(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("save company info for user %d: %w", userID, err)
	}
	return info, nil
}

func (s *webpageService) downloadWebpage(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrDownload, err)
	}
	req.Header.Set("User-Agent", webpageUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: HTTP status code %d", apperr.ErrDownload, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", apperr.ErrDownload, err)
	}
	return string(body), nil
}

func (s *webpageService) extractCompanyInfo(ctx context.Context, content, rawURL string) *types.CompanyInfo {
	if len(content) > maxWebpageChars {
		content = content[:maxWebpageChars] + "... (truncated)"
	}

	domain := ""
	if u, err := url.Parse(rawURL); err == nil {
		domain = u.Hostname()
	}

	prompt := fmt.Sprintf(
		"I need to extract company information from this webpage (domain: %s).\n\n"+
			"Here's the content (possibly truncated):\n\n%s\n\n"+
			"Extract the company name, approximation of the number of employees, and "+
			"the industry or sector the company operates in based on this content "+
			"or from your own knowledge about this company if the webpage doesn't mention it.",
		domain, content,
	)

	systemPrompt := "You are an expert at extracting structured information from webpages. " +
		"Extract the company name, number of employees (if available), and industry/sector. " +
		"Return ONLY a valid JSON object with keys 'companyName' (string), 'numberOfEmployees' (integer or null), " +
		"and 'industry' (string or null). " +
		"If the number of employees or industry is not mentioned or unclear, set it to null. " +
		`Example: {"companyName": "Acme Corp", "numberOfEmployees": 500, "industry": "Technology"} ` +
		`or {"companyName": "Acme Corp", "numberOfEmployees": null, "industry": "Retail"} ` +
		`or {"companyName": "Acme Corp", "numberOfEmployees": 500, "industry": null}`

	response, err := s.gen.GenerateContent(ctx, prompt, systemPrompt)
	if err != nil {
		s.log.Error("Company info extraction call failed", "error", err)
		return fallbackCompanyInfo(domain)
	}

	jsonStart := strings.Index(response, "{")
	jsonEnd := strings.LastIndex(response, "}")
	if jsonStart < 0 || jsonEnd <= jsonStart {
		s.log.Warn("No valid JSON found in model response", "response", response)
		return fallbackCompanyInfo(domain)
	}

	var raw struct {
		CompanyName       string      `json:"companyName"`
		NumberOfEmployees interface{} `json:"numberOfEmployees"`
		Industry          *string     `json:"industry"`
	}
	if err := json.Unmarshal([]byte(response[jsonStart:jsonEnd+1]), &raw); err != nil {
		s.log.Warn("Could not parse JSON from model response", "error", err)
		return fallbackCompanyInfo(domain)
	}

	info := &types.CompanyInfo{CompanyName: raw.CompanyName}
	info.NumberOfEmployees = s.parseEmployeeCount(raw.NumberOfEmployees)
	if raw.Industry != nil && *raw.Industry != "" {
		info.Industry = raw.Industry
	}
	return info
}

// parseEmployeeCount keeps the permissive source behavior: anything that is
// not a whole number (e.g. "500+") stays null.
func (s *webpageService) parseEmployeeCount(v interface{}) *int {
	switch value := v.(type) {
	case float64:
		if value == math.Trunc(value) {
			n := int(value)
			return &n
		}
		s.log.Warn("Failed to parse number of employees", "value", value)
		return nil
	case string:
		if value == "" {
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			s.log.Warn("Failed to parse number of employees", "value", value)
			return nil
		}
		return &n
	default:
		return nil
	}
}

func fallbackCompanyInfo(domain string) *types.CompanyInfo {
	name := wwwPrefixPattern.ReplaceAllString(domain, "")
	name = tldSuffixPattern.ReplaceAllString(name, "")
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return &types.CompanyInfo{CompanyName: name}
}
