package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/btrkeks/innovation-coach-backend/internal/logger"
	"github.com/btrkeks/innovation-coach-backend/internal/services"
	"github.com/btrkeks/innovation-coach-backend/internal/types"
)

type CompanyInfoHandler struct {
	log                *logger.Logger
	companyInfoService services.CompanyInfoService
}

func NewCompanyInfoHandler(log *logger.Logger, companyInfoService services.CompanyInfoService) *CompanyInfoHandler {
	return &CompanyInfoHandler{
		log:                log.With("handler", "CompanyInfoHandler"),
		companyInfoService: companyInfoService,
	}
}

// POST /update-company-info?userId=
func (ih *CompanyInfoHandler) UpdateCompanyInfo(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("userId is required"))
		return
	}
	var info types.CompanyInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	updated, err := ih.companyInfoService.UpdateCompanyInfo(c.Request.Context(), userID, info)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	if !updated {
		ih.log.Warn("Error updating company info", "userId", userID)
	}
	RespondOK(c, updated)
}
