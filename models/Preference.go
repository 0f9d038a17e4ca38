package models

import "time"

// PreferenceEntry is one row of the durable local key-value store.
type PreferenceEntry struct {
	Key       string `gorm:"column:pref_key;primaryKey;size:64"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

// PreferencesInput is the body of PUT /preferences. Nil fields are left as
// they are.
type PreferencesInput struct {
	DarkMode     *bool `json:"darkMode"`
	SoundEnabled *bool `json:"soundEnabled"`
}
