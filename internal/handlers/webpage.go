package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/btrkeks/innovation-coach-backend/internal/logger"
	"github.com/btrkeks/innovation-coach-backend/internal/services"
)

type WebpageHandler struct {
	log            *logger.Logger
	webpageService services.WebpageService
}

func NewWebpageHandler(log *logger.Logger, webpageService services.WebpageService) *WebpageHandler {
	return &WebpageHandler{
		log:            log.With("handler", "WebpageHandler"),
		webpageService: webpageService,
	}
}

// GET /process-webpage?userId=&url=
func (wh *WebpageHandler) ProcessWebpage(c *gin.Context) {
	rawURL := c.Query("url")
	userID, err := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err != nil || rawURL == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("userId and url are required"))
		return
	}

	info, err := wh.webpageService.ProcessWebpage(c.Request.Context(), userID, rawURL)
	if err != nil {
		wh.log.Error("Webpage processing failed", "userId", userID, "url", rawURL, "error", err)
		RespondError(c, http.StatusInternalServerError, "processing_failed", err)
		return
	}
	RespondOK(c, info)
}
