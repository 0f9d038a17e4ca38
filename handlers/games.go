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

// LibraryResponse is the composed library view plus the ids with a write in
// flight.
type LibraryResponse struct {
	engine.View
	Pending map[string]pending.Operation `json:"pending"`
}

// GetLibrary - filtered, searched and sorted library with statistics
// GET /library?filter=&q=&sort=
func GetLibrary(c *gin.Context) {
	state := models.NewViewState(c.Query("filter"), c.Query("q"), c.Query("sort"))

	games, err := loadGames(c.Request.Context())
	if err != nil {
		respondFetchError(c, err)
		return
	}

	start := time.Now()
	view := engine.Compose(games, state)
	monitoring.ObserveCompose("library", start)
	monitoring.RecordLibrary(view.Statistics)

	c.JSON(http.StatusOK, LibraryResponse{View: view, Pending: Pending.Snapshot()})
}

func GetGame(c *gin.Context) {
	raw, err := Client.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondUpstreamError(c, "get_game", err)
		return
	}
	c.JSON(http.StatusOK, models.NormalizeGame(raw, Now()))
}

func CreateGame(c *gin.Context) {
	var input models.GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	ctx := c.Request.Context()
	created, err := Client.CreateGame(ctx, input.Raw(Now()))
	if err != nil {
		respondUpstreamError(c, "create_game", err)
		return
	}
	invalidateGames(ctx)

	utils.LogInfo("Game created", map[string]interface{}{"title": input.Title})
	c.JSON(http.StatusCreated, models.NormalizeGame(created, Now()))
}

// UpdateGame replaces the editable fields of the stored game. Fields the
// input leaves blank (status, deity, dates) keep their stored values.
func UpdateGame(c *gin.Context) {
	id := c.Param("id")
	var input models.GameInput
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
	current, err := Client.GetGame(ctx, id)
	if err != nil {
		respondUpstreamError(c, "get_game", err)
		return
	}
	merged := input.Apply(models.NormalizeGame(current, Now()))

	updated, err := Client.UpdateGame(ctx, id, models.DenormalizeGame(merged))
	if err != nil {
		respondUpstreamError(c, "update_game", err)
		return
	}
	invalidateGames(ctx)
	c.JSON(http.StatusOK, models.NormalizeGame(updated, Now()))
}

// PatchGame forwards a partial update in the raw field names, e.g.
// {"estado": "Completado"}.
func PatchGame(c *gin.Context) {
	id := c.Param("id")
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	unlock := Pending.Lock(id)
	defer unlock()
	done := Pending.Begin(id, pending.OpUpdate)
	defer done()

	ctx := c.Request.Context()
	updated, err := Client.PatchGame(ctx, id, fields)
	if err != nil {
		respondUpstreamError(c, "patch_game", err)
		return
	}
	invalidateGames(ctx)
	c.JSON(http.StatusOK, models.NormalizeGame(updated, Now()))
}

func DeleteGame(c *gin.Context) {
	id := c.Param("id")

	done := Pending.Begin(id, pending.OpDelete)
	defer done()

	ctx := c.Request.Context()
	if err := Client.DeleteGame(ctx, id); err != nil {
		respondUpstreamError(c, "delete_game", err)
		return
	}
	invalidateGames(ctx)

	utils.LogInfo("Game deleted", map[string]interface{}{"id": id})
	c.JSON(http.StatusOK, gin.H{"message": "Game deleted"})
}
