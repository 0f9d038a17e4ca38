package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gametracker/models"
	"gametracker/preferences"
)

type PreferencesResponse struct {
	preferences.Resolved
	Presentation preferences.Presentation `json:"presentation"`
}

func respondPreferences(c *gin.Context, resolved preferences.Resolved, err error) {
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not access preferences"})
		return
	}
	c.JSON(http.StatusOK, PreferencesResponse{
		Resolved:     resolved,
		Presentation: preferences.Present(resolved.Preferences),
	})
}

func GetPreferences(c *gin.Context) {
	resolved, err := Prefs.Load()
	respondPreferences(c, resolved, err)
}

// SavePreferences stores the fields present in the body as explicit choices.
func SavePreferences(c *gin.Context) {
	var input models.PreferencesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.DarkMode == nil && input.SoundEnabled == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "darkMode or soundEnabled is required"})
		return
	}
	resolved, err := Prefs.Save(input.DarkMode, input.SoundEnabled)
	respondPreferences(c, resolved, err)
}

func ToggleTheme(c *gin.Context) {
	resolved, err := Prefs.ToggleTheme()
	respondPreferences(c, resolved, err)
}

func ToggleSound(c *gin.Context) {
	resolved, err := Prefs.ToggleSound()
	respondPreferences(c, resolved, err)
}

func ResetPreferences(c *gin.Context) {
	resolved, err := Prefs.Reset()
	respondPreferences(c, resolved, err)
}
