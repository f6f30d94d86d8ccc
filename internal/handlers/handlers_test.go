package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/btrkeks/innovation-coach-backend/internal/apperr"
	"github.com/btrkeks/innovation-coach-backend/internal/logger"
	"github.com/btrkeks/innovation-coach-backend/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubChatService struct {
	result     *services.ChatResult
	err        error
	lastUserID int64
	lastMsg    string
}

func (s *stubChatService) ProcessChatMessage(_ context.Context, userID int64, message string) (*services.ChatResult, error) {
	s.lastUserID = userID
	s.lastMsg = message
	return s.result, s.err
}

type stubAuthService struct {
	registerID int64
	loginID    int64
	token      string
	err        error
}

func (s *stubAuthService) Register(context.Context, string, string, string) (int64, error) {
	return s.registerID, s.err
}

func (s *stubAuthService) Login(context.Context, string, string) (int64, string, error) {
	return s.loginID, s.token, s.err
}

func (s *stubAuthService) ParseToken(string) (int64, error) {
	return s.loginID, s.err
}

func doJSON(t *testing.T, handler gin.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	_, engine := gin.CreateTestContext(w)
	engine.Handle(method, "/x", handler)

	req := httptest.NewRequest(method, "/x"+target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	engine.ServeHTTP(w, req)
	return w
}

func TestChatHandler(t *testing.T) {
	stub := &stubChatService{result: &services.ChatResult{AIMessage: "Tell me more", IsQuestionPhase: true}}
	h := NewChatHandler(logger.NewNop(), stub)

	w := doJSON(t, h.Chat, http.MethodPost, "", `{"userId": 7, "message": "hi"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if stub.lastUserID != 7 || stub.lastMsg != "hi" {
		t.Errorf("service called with userID=%d msg=%q", stub.lastUserID, stub.lastMsg)
	}

	var result services.ChatResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.AIMessage != "Tell me more" || !result.IsQuestionPhase {
		t.Errorf("unexpected payload: %+v", result)
	}
}

func TestChatHandlerErrors(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{name: "missing_fields", body: `{"userId": 7}`, wantStatus: http.StatusBadRequest, wantCode: "invalid_request"},
		{name: "bad_json", body: `{`, wantStatus: http.StatusBadRequest, wantCode: "invalid_request"},
		{
			name:       "unknown_user",
			body:       `{"userId": 7, "message": "hi"}`,
			serviceErr: apperr.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "user_not_found",
		},
		{
			name:       "internal",
			body:       `{"userId": 7, "message": "hi"}`,
			serviceErr: errors.New("db down"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewChatHandler(logger.NewNop(), &stubChatService{err: tc.serviceErr})
			w := doJSON(t, h.Chat, http.MethodPost, "", tc.body)
			if w.Code != tc.wantStatus {
				t.Fatalf("status=%d, want %d", w.Code, tc.wantStatus)
			}
			var envelope ErrorEnvelope
			if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("decode error envelope: %v", err)
			}
			if envelope.Error.Code != tc.wantCode {
				t.Errorf("code=%q, want %q", envelope.Error.Code, tc.wantCode)
			}
		})
	}
}

func TestAuthHandlerRegister(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{registerID: 3})
	w := doJSON(t, h.Register, http.MethodPost, "", `{"username": "a", "password": "b", "email": "a@b.c"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	var resp map[string]int64
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["userId"] != 3 {
		t.Errorf("userId=%d, want 3", resp["userId"])
	}

	h = NewAuthHandler(&stubAuthService{err: apperr.ErrInvalidArgument})
	w = doJSON(t, h.Register, http.MethodPost, "", `{"username": "a", "password": "b", "email": "a@b.c"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("duplicate register: status=%d, want 400", w.Code)
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{loginID: 3, token: "jwt-token"})
	w := doJSON(t, h.Login, http.MethodPost, "", `{"username": "a", "password": "b"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "jwt-token") {
		t.Error("response missing token")
	}

	h = NewAuthHandler(&stubAuthService{err: apperr.ErrUnauthorized})
	w = doJSON(t, h.Login, http.MethodPost, "", `{"username": "a", "password": "wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad password: status=%d, want 401", w.Code)
	}
}

func TestTwilioIncomingCall(t *testing.T) {
	h := NewTwilioHandler(logger.NewNop(), &stubChatService{})
	w := doJSON(t, h.HandleIncomingCall, http.MethodPost, "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/xml" {
		t.Errorf("Content-Type=%q, want application/xml", ct)
	}
	body := w.Body.String()
	for _, want := range []string{
		`voice="Polly.Marlene"`,
		`language="de-DE"`,
		`action="/twilio/process-input"`,
		"Willkommen beim Innovation Coach",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("TwiML missing %q", want)
		}
	}
}

func TestTwilioProcessInput(t *testing.T) {
	stub := &stubChatService{result: &services.ChatResult{AIMessage: `Mehr "Innovation" & Mut`}}
	h := NewTwilioHandler(logger.NewNop(), stub)

	w := httptest.NewRecorder()
	_, engine := gin.CreateTestContext(w)
	engine.POST("/x", h.ProcessCallInput)
	form := url.Values{"SpeechResult": {"Wie innoviere ich?"}, "From": {"+4912345"}}
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if stub.lastUserID != 1 {
		t.Errorf("caller userID=%d, want 1", stub.lastUserID)
	}
	if stub.lastMsg != "Wie innoviere ich?" {
		t.Errorf("speech=%q", stub.lastMsg)
	}
	body := w.Body.String()
	// Reply text is XML-escaped inside the Say verb.
	if !strings.Contains(body, "Mehr &#34;Innovation&#34; &amp; Mut") {
		t.Errorf("reply not escaped: %s", body)
	}
	if !strings.Contains(body, "Haben Sie eine weitere Frage?") {
		t.Error("TwiML missing follow-up Gather prompt")
	}
}

func TestTwilioProcessInputFailure(t *testing.T) {
	h := NewTwilioHandler(logger.NewNop(), &stubChatService{err: errors.New("engine down")})
	w := doJSON(t, h.ProcessCallInput, http.MethodPost, "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, Twilio expects 200 with error TwiML", w.Code)
	}
	if !strings.Contains(w.Body.String(), "<Hangup/>") {
		t.Error("error TwiML missing Hangup")
	}
}
