package handler

import (
	"net/http"
	"strconv"

	sharedMiddleware "moral-village-server/shared/middleware"
	"moral-village-server/shared/models"

	"github.com/gin-gonic/gin"
)

func (h *GameHandler) listScenarios(c *gin.Context) {
	scenarios, err := h.gameService.GetCatalog(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scenarios": scenarios})
}

func (h *GameHandler) getScenario(c *gin.Context) {
	userID, ok := sharedMiddleware.UserIDFromGinContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Code: models.ErrCodeTokenInvalid, Message: "Unauthorized"})
		return
	}

	scenarioID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || scenarioID <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid scenario ID"})
		return
	}

	scenario, err := h.gameService.GetScenario(c.Request.Context(), userID, scenarioID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	completed, err := h.gameService.IsScenarioCompleted(c.Request.Context(), userID, scenarioID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scenario":  scenario,
		"completed": completed,
	})
}

func (h *GameHandler) listSins(c *gin.Context) {
	sins, err := h.gameService.GetSins(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sins": sins})
}

func (h *GameHandler) listEndings(c *gin.Context) {
	endings, err := h.gameService.ListEndings(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"endings": endings})
}

func (h *GameHandler) confirmChoice(c *gin.Context) {
	userID, ok := sharedMiddleware.UserIDFromGinContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Code: models.ErrCodeTokenInvalid, Message: "Unauthorized"})
		return
	}

	scenarioID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || scenarioID <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid scenario ID"})
		return
	}

	var req confirmChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request body: " + err.Error()})
		return
	}

	outcome, err := h.gameService.ConfirmChoice(c.Request.Context(), userID, scenarioID, req.ChoiceID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	choicesRecordedTotal.WithLabelValues(string(models.BandForImpact(outcome.Record.MoralImpact))).Inc()
	if outcome.StoryComplete {
		storiesCompletedTotal.Inc()
	}

	c.JSON(http.StatusOK, outcome)
}
