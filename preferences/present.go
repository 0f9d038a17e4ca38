package preferences

// SoundCue describes the short tone played when switching into a theme.
type SoundCue struct {
	Wave      string  `json:"wave"`
	FromHz    float64 `json:"fromHz"`
	ToHz      float64 `json:"toHz"`
	Seconds   float64 `json:"seconds"`
	StartGain float64 `json:"startGain"`
}

// Presentation is the visual treatment derived from Preferences.
type Presentation struct {
	Theme         string    `json:"theme"`
	ThemeName     string    `json:"themeName"`
	BodyClasses   []string  `json:"bodyClasses"`
	DocumentTitle string    `json:"documentTitle"`
	Quote         string    `json:"quote"`
	Cue           *SoundCue `json:"cue,omitempty"`
}

// Present derives the presentation for p. The cue is the tone for entering
// the current theme and is omitted when sound is off.
func Present(p Preferences) Presentation {
	var pr Presentation
	var cue SoundCue
	if p.DarkMode {
		pr = Presentation{
			Theme:         "hecate",
			ThemeName:     "Hécate",
			BodyClasses:   []string{"theme-hecate", "temple-hecate"},
			DocumentTitle: "GameTracker 🌙 Santuario de Hécate",
			Quote:         "En la oscuridad, Hécate guía tu camino gaming",
		}
		cue = SoundCue{Wave: "triangle", FromHz: 329.63, ToHz: 261.63}
	} else {
		pr = Presentation{
			Theme:         "apolo",
			ThemeName:     "Apolo",
			BodyClasses:   []string{"theme-apolo", "temple-apolo"},
			DocumentTitle: "GameTracker ☀️ Templo de Apolo",
			Quote:         "Bajo el sol, Apolo bendice tu destreza gaming",
		}
		cue = SoundCue{Wave: "sine", FromHz: 392, ToHz: 523.25}
	}
	if p.SoundEnabled {
		cue.Seconds = 0.5
		cue.StartGain = 0.1
		pr.Cue = &cue
	}
	return pr
}
