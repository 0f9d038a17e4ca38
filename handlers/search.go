package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gametracker/engine"
	"gametracker/models"
)

// QuickSearch - title-sorted matches across the whole library
// GET /search?q=
func QuickSearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	games, err := loadGames(c.Request.Context())
	if err != nil {
		respondFetchError(c, err)
		return
	}

	state := models.ViewState{FilterKey: models.FilterAll, SearchTerm: query, SortKey: models.SortTitle}
	results := engine.Sort(engine.Filter(games, state), state.SortKey)

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"results": results,
		"count":   len(results),
	})
}
