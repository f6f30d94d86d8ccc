package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/btrkeks/innovation-coach-backend/internal/apperr"
	"github.com/btrkeks/innovation-coach-backend/internal/logger"
	"github.com/btrkeks/innovation-coach-backend/internal/utils"
)

// TextGenerator is the boundary around the external generative-text API.
// Implementations are stateless; every call is independent.
type TextGenerator interface {
	GenerateContent(ctx context.Context, userPrompt, systemPrompt string) (string, error)
}

type geminiClient struct {
	httpClient *http.Client
	log        *logger.Logger
	apiKey     string
	baseURL    string
	model      string
}

func NewGeminiClient(log *logger.Logger) (TextGenerator, error) {
	serviceLog := log.With("service", "GeminiClient")
	apiKey := utils.GetEnv("GEMINI_API_KEY", "", log)
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	baseURL := utils.GetEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models", log)
	model := utils.GetEnv("GEMINI_MODEL", "gemini-2.0-flash", log)
	return &geminiClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log:     serviceLog,
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
	}, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type geminiErrorEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *geminiClient) GenerateContent(ctx context.Context, userPrompt, systemPrompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: userPrompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 2048,
		},
	}
	if systemPrompt != "" {
		reqBody.SystemInstruction = &geminiContent{
			Role:  "user",
			Parts: []geminiPart{{Text: systemPrompt}},
		}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal gemini request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", apperr.ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		errMsg := fmt.Sprintf("API Error: %d", resp.StatusCode)
		var envelope geminiErrorEnvelope
		if jsonErr := json.Unmarshal(body, &envelope); jsonErr == nil && envelope.Error.Message != "" {
			errMsg += " - " + envelope.Error.Message
		}
		c.log.Warn("Gemini call failed", "status", resp.StatusCode, "message", errMsg)
		return "", fmt.Errorf("%w: %s", apperr.ErrUpstream, errMsg)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: parse response: %v", apperr.ErrUpstream, err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: response has no candidates", apperr.ErrUpstream)
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
