package handlers

import (
	"bytes"
	"encoding/xml"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/btrkeks/innovation-coach-backend/internal/logger"
	"github.com/btrkeks/innovation-coach-backend/internal/services"
)

// callerUserID is the fixed profile used for inbound phone calls.
const callerUserID int64 = 1

type TwilioHandler struct {
	log         *logger.Logger
	chatService services.ChatService
}

func NewTwilioHandler(log *logger.Logger, chatService services.ChatService) *TwilioHandler {
	return &TwilioHandler{
		log:         log.With("handler", "TwilioHandler"),
		chatService: chatService,
	}
}

// POST /twilio/call — TwiML greeting for an incoming call.
func (th *TwilioHandler) HandleIncomingCall(c *gin.Context) {
	th.log.Info("Incoming call received", "from", c.PostForm("From"))

	twiml := `<?xml version="1.0" encoding="UTF-8"?>` +
		`<Response>` +
		`<Say voice="Polly.Marlene">Willkommen beim Innovation Coach. Wie kann ich Ihnen heute helfen?</Say>` +
		`<Gather input="speech" action="/twilio/process-input" method="POST" speechTimeout="auto" language="de-DE">` +
		`<Say voice="Polly.Marlene">Bitte teilen Sie mir Ihre Frage mit.</Say>` +
		`</Gather>` +
		`</Response>`
	c.Data(http.StatusOK, "application/xml", []byte(twiml))
}

// POST /twilio/process-input — routes the caller's speech through the chat
// engine and speaks the reply.
func (th *TwilioHandler) ProcessCallInput(c *gin.Context) {
	speechResult := c.PostForm("SpeechResult")
	th.log.Info("Received speech input", "from", c.PostForm("From"), "speech", speechResult)

	result, err := th.chatService.ProcessChatMessage(c.Request.Context(), callerUserID, speechResult)
	if err != nil {
		th.log.Error("Error processing speech input", "error", err)
		twiml := `<?xml version="1.0" encoding="UTF-8"?>` +
			`<Response>` +
			`<Say voice="Polly.Marlene">Es gab ein Problem bei der Verarbeitung Ihrer Anfrage. Bitte versuchen Sie es später erneut.</Say>` +
			`<Hangup/>` +
			`</Response>`
		c.Data(http.StatusOK, "application/xml", []byte(twiml))
		return
	}

	twiml := `<?xml version="1.0" encoding="UTF-8"?>` +
		`<Response>` +
		`<Say voice="Polly.Marlene">` + escapeXML(result.AIMessage) + `</Say>` +
		`<Gather input="speech" action="/twilio/process-input" method="POST" speechTimeout="auto" language="de-DE">` +
		`<Say voice="Polly.Marlene">Haben Sie eine weitere Frage?</Say>` +
		`</Gather>` +
		`</Response>`
	c.Data(http.StatusOK, "application/xml", []byte(twiml))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
