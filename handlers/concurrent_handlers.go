package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gametracker/concurrent"
	"gametracker/models"
	"gametracker/utils"
)

type ImportRequest struct {
	Games []models.GameInput `json:"games" validate:"required,min=1,max=500,dive"`
}

// ImportGames - bulk creation through the worker pool
// POST /games/import
func ImportGames(c *gin.Context) {
	var input ImportRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	now := Now()
	raws := make([]models.RawGame, len(input.Games))
	for i, g := range input.Games {
		raws[i] = g.Raw(now)
	}

	ctx := c.Request.Context()
	start := time.Now()
	results := concurrent.ImportGames(ctx, Client.CreateGame, raws, ImportWorkers)
	duration := time.Since(start)

	imported := 0
	for _, r := range results {
		if r.Success {
			imported++
		}
	}
	if imported > 0 {
		invalidateGames(ctx)
	}

	utils.LogInfo("Bulk import finished", map[string]interface{}{
		"total":       len(results),
		"imported":    imported,
		"duration_ms": duration.Milliseconds(),
	})

	c.JSON(http.StatusOK, gin.H{
		"results":     results,
		"imported":    imported,
		"failed":      len(results) - imported,
		"duration_ms": duration.Milliseconds(),
	})
}
