package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gametracker/models"
)

func TestValidateGameInput(t *testing.T) {
	valid := models.GameInput{Title: "Hades", Rating: 5, HoursPlayed: 10, Deity: "Ambos", AcquiredDate: "2024-01-01"}
	assert.NoError(t, ValidateStruct(valid))

	invalid := models.GameInput{Rating: 7, HoursPlayed: -1, Deity: "Zeus", AcquiredDate: "01/02/2024"}
	err := ValidateStruct(invalid)
	require.Error(t, err)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	ValidationErrorResponse(c, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Title is required", body.Errors["Title"])
	assert.Equal(t, "Rating must be less than or equal to 5", body.Errors["Rating"])
	assert.Contains(t, body.Errors, "HoursPlayed")
	assert.Contains(t, body.Errors, "Deity")
	assert.Contains(t, body.Errors, "AcquiredDate")
}

func TestValidateReviewInput(t *testing.T) {
	assert.NoError(t, ValidateStruct(models.ReviewInput{Game: "Journey", Title: "Calm", Rating: 4}))
	assert.Error(t, ValidateStruct(models.ReviewInput{Game: "Journey", Rating: 4}))
}

func TestValidationErrorsKeepItemIndex(t *testing.T) {
	batch := struct {
		Games []models.GameInput `validate:"min=1,dive"`
	}{
		Games: []models.GameInput{{Title: "Hades"}, {}, {Rating: 9}},
	}
	err := ValidateStruct(batch)
	require.Error(t, err)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	ValidationErrorResponse(c, err)

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Errors, "Games[1].Title")
	assert.Contains(t, body.Errors, "Games[2].Title")
	assert.Contains(t, body.Errors, "Games[2].Rating")
	assert.NotContains(t, body.Errors, "Title")
}
