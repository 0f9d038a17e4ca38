package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gametracker/engine"
	"gametracker/models"
	"gametracker/monitoring"
	"gametracker/pending"
	"gametracker/utils"
)

type ReviewListResponse struct {
	engine.ReviewView
	Pending map[string]pending.Operation `json:"pending"`
}

// GetReviews - review list view
// GET /reviews?filter=&q=&sort=
func GetReviews(c *gin.Context) {
	state := models.NewReviewViewState(c.Query("filter"), c.Query("q"), c.Query("sort"))

	reviews, err := loadReviews(c.Request.Context())
	if err != nil {
		respondFetchError(c, err)
		return
	}

	start := time.Now()
	view := engine.ComposeReviews(reviews, state)
	monitoring.ObserveCompose("reviews", start)

	c.JSON(http.StatusOK, ReviewListResponse{ReviewView: view, Pending: Pending.Snapshot()})
}

func GetReview(c *gin.Context) {
	raw, err := Client.GetReview(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondUpstreamError(c, "get_review", err)
		return
	}
	c.JSON(http.StatusOK, models.NormalizeReview(raw, Now()))
}

func CreateReview(c *gin.Context) {
	var input models.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	ctx := c.Request.Context()
	created, err := Client.CreateReview(ctx, input.Raw(Now()))
	if err != nil {
		respondUpstreamError(c, "create_review", err)
		return
	}
	invalidateReviews(ctx)
	c.JSON(http.StatusCreated, models.NormalizeReview(created, Now()))
}

// UpdateReview replaces the editable fields and keeps the original date and
// like count.
func UpdateReview(c *gin.Context) {
	id := c.Param("id")
	var input models.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	unlock := Pending.Lock(id)
	defer unlock()
	done := Pending.Begin(id, pending.OpUpdate)
	defer done()

	ctx := c.Request.Context()
	current, err := Client.GetReview(ctx, id)
	if err != nil {
		respondUpstreamError(c, "get_review", err)
		return
	}
	raw := models.DenormalizeReview(input.Apply(models.NormalizeReview(current, Now())))

	updated, err := Client.UpdateReview(ctx, id, raw)
	if err != nil {
		respondUpstreamError(c, "update_review", err)
		return
	}
	invalidateReviews(ctx)
	c.JSON(http.StatusOK, models.NormalizeReview(updated, Now()))
}

func DeleteReview(c *gin.Context) {
	id := c.Param("id")

	done := Pending.Begin(id, pending.OpDelete)
	defer done()

	ctx := c.Request.Context()
	if err := Client.DeleteReview(ctx, id); err != nil {
		respondUpstreamError(c, "delete_review", err)
		return
	}
	invalidateReviews(ctx)
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}

// LikeReview - adds one like. Likes on the same review are serialized so
// none is lost between the read and the patch.
// POST /reviews/:id/like
func LikeReview(c *gin.Context) {
	id := c.Param("id")

	unlock := Pending.Lock(id)
	defer unlock()
	done := Pending.Begin(id, pending.OpUpdate)
	defer done()

	ctx := c.Request.Context()
	current, err := Client.GetReview(ctx, id)
	if err != nil {
		respondUpstreamError(c, "get_review", err)
		return
	}

	updated, err := Client.PatchReview(ctx, id, map[string]interface{}{"likes": current.Likes + 1})
	if err != nil {
		respondUpstreamError(c, "like_review", err)
		return
	}
	invalidateReviews(ctx)
	c.JSON(http.StatusOK, models.NormalizeReview(updated, Now()))
}
