package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gametracker/concurrent"
	"gametracker/engine"
	"gametracker/monitoring"
)

// GetDashboard - game and review statistics, both collections fetched in
// parallel
// GET /stats
func GetDashboard(c *gin.Context) {
	start := time.Now()
	collections, err := concurrent.FetchCollections(c.Request.Context(), loadGames, loadReviews)
	if err != nil {
		respondFetchError(c, err)
		return
	}
	fetchTime := time.Since(start)

	games := engine.Aggregate(collections.Games)
	reviews := engine.AggregateReviews(collections.Reviews)
	monitoring.RecordLibrary(games)

	c.JSON(http.StatusOK, gin.H{
		"games":         games,
		"reviews":       reviews,
		"fetch_time_ms": fetchTime.Milliseconds(),
	})
}
