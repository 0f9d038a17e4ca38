package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gametracker/api"
	"gametracker/cache"
	"gametracker/models"
	"gametracker/monitoring"
	"gametracker/pending"
	"gametracker/preferences"
	"gametracker/utils"
)

// Set by main before the router starts.
var (
	Client        *api.Client
	Prefs         *preferences.Service
	Pending       = pending.NewTracker()
	CacheTTL      = 5 * time.Minute
	ImportWorkers = 4
	Now           = time.Now
)

// ==================== READ-THROUGH LOADERS ====================

// loadGames serves the raw collection from Redis when cached, otherwise from
// the persistence API, and normalizes it. The fetched list is only cached if
// no write bumped the collection version during the fetch.
func loadGames(ctx context.Context) ([]models.GameRecord, error) {
	raws, err := cache.GetGames(ctx)
	recordLookup("games", err)
	if err != nil {
		version, verr := cache.GamesVersion(ctx)
		raws, err = Client.ListGames(ctx)
		if err != nil {
			monitoring.UpstreamErrors.WithLabelValues("list_games").Inc()
			return nil, err
		}
		if verr == nil {
			storeCollection("games", cache.SetGames(ctx, raws, version, CacheTTL))
		}
	}
	return models.NormalizeGames(raws, Now()), nil
}

func loadReviews(ctx context.Context) ([]models.ReviewRecord, error) {
	raws, err := cache.GetReviews(ctx)
	recordLookup("reviews", err)
	if err != nil {
		version, verr := cache.ReviewsVersion(ctx)
		raws, err = Client.ListReviews(ctx)
		if err != nil {
			monitoring.UpstreamErrors.WithLabelValues("list_reviews").Inc()
			return nil, err
		}
		if verr == nil {
			storeCollection("reviews", cache.SetReviews(ctx, raws, version, CacheTTL))
		}
	}
	return models.NormalizeReviews(raws, Now()), nil
}

func recordLookup(collection string, err error) {
	result := "hit"
	switch {
	case errors.Is(err, cache.ErrUnavailable):
		result = "unavailable"
	case err != nil:
		result = "miss"
	}
	monitoring.CacheLookups.WithLabelValues(collection, result).Inc()
	if result == "hit" {
		utils.LogDebug("Collection served from cache", map[string]interface{}{"collection": collection})
	}
}

func storeCollection(collection string, err error) {
	switch {
	case err == nil, errors.Is(err, cache.ErrUnavailable):
	case errors.Is(err, cache.ErrStale):
		utils.LogDebug("Skipped caching stale collection", map[string]interface{}{"collection": collection})
	default:
		utils.LogWarn("Failed to cache collection", map[string]interface{}{
			"collection": collection,
			"error":      err.Error(),
		})
	}
}

func invalidateGames(ctx context.Context) {
	if err := cache.InvalidateGames(ctx); err != nil {
		utils.LogWarn("Failed to invalidate games cache", map[string]interface{}{"error": err.Error()})
	}
}

func invalidateReviews(ctx context.Context) {
	if err := cache.InvalidateReviews(ctx); err != nil {
		utils.LogWarn("Failed to invalidate reviews cache", map[string]interface{}{"error": err.Error()})
	}
}

// ==================== ERROR REPLIES ====================

// respondFetchError answers a failed collection load. The client keeps its
// previous data and offers a manual retry.
func respondFetchError(c *gin.Context, err error) {
	c.Error(err)
	c.JSON(http.StatusBadGateway, gin.H{
		"error":     "Could not load data from the server",
		"retryable": true,
	})
}

// respondUpstreamError answers a failed single-record call with the upstream
// status when it is a client error.
func respondUpstreamError(c *gin.Context, op string, err error) {
	c.Error(err)
	monitoring.UpstreamErrors.WithLabelValues(op).Inc()

	status := api.StatusCode(err)
	message := err.Error()
	if errors.Is(err, api.ErrNotFound) {
		message = "Not found"
	}
	c.JSON(status, gin.H{
		"error":     message,
		"retryable": api.Retryable(err),
	})
}
