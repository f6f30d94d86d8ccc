package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/btrkeks/innovation-coach-backend/internal/apperr"
	"github.com/btrkeks/innovation-coach-backend/internal/requestdata"
	"github.com/btrkeks/innovation-coach-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /user (protected; user id comes from the access token)
func (uh *UserHandler) GetMe(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == 0 {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("not authenticated"))
		return
	}
	user, err := uh.userService.GetUser(c.Request.Context(), rd.UserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "user_not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, user)
}

// GET /chat-history?userId=
func (uh *UserHandler) GetChatHistory(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("userId is required"))
		return
	}
	history, err := uh.userService.GetChatHistory(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "user_not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	RespondOK(c, history)
}
