// Package preferences owns the persisted theme and sound choices.
//
// A value resolves in this order: the user's explicit stored choice, then the
// platform light/dark signal, then a hard-coded fallback. Persistence happens
// only inside Service; Present derives the visual treatment without side
// effects.
package preferences

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Keys in the local store.
const (
	ThemeKey = "gameTracker-theme"
	SoundKey = "gameTracker-sound"
)

// Fallbacks used when neither a stored choice nor a platform signal exists.
const (
	fallbackDarkMode     = false
	fallbackSoundEnabled = true
)

// Source says where a resolved value came from.
type Source string

const (
	SourceExplicit Source = "explicit"
	SourcePlatform Source = "platform"
	SourceDefault  Source = "default"
)

// Signal is the platform light/dark preference.
type Signal int

const (
	SignalNone Signal = iota
	SignalLight
	SignalDark
)

// ParseSignal reads a prefers-color-scheme style value.
func ParseSignal(s string) Signal {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dark":
		return SignalDark
	case "light":
		return SignalLight
	}
	return SignalNone
}

// Preferences is the serializable preference record.
type Preferences struct {
	DarkMode     bool `json:"darkMode"`
	SoundEnabled bool `json:"soundEnabled"`
}

// Resolved carries the preferences and where each value came from.
type Resolved struct {
	Preferences
	ThemeSource Source `json:"themeSource"`
	SoundSource Source `json:"soundSource"`
}

// Service loads and persists preferences. Writes are serialized so toggles
// from concurrent requests do not lose updates.
type Service struct {
	store  Store
	signal Signal
	mu     sync.Mutex
}

func NewService(store Store, signal Signal) *Service {
	return &Service{store: store, signal: signal}
}

// Load resolves both preferences.
func (s *Service) Load() (Resolved, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Service) load() (Resolved, error) {
	dark, themeSrc, err := s.resolve(ThemeKey, fallbackDarkMode)
	if err != nil {
		return Resolved{}, err
	}
	sound, soundSrc, err := s.resolve(SoundKey, fallbackSoundEnabled)
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{
		Preferences: Preferences{DarkMode: dark, SoundEnabled: sound},
		ThemeSource: themeSrc,
		SoundSource: soundSrc,
	}, nil
}

// resolve applies explicit > platform > fallback for one key. Each key falls
// back to the platform signal independently.
func (s *Service) resolve(key string, fallback bool) (bool, Source, error) {
	raw, ok, err := s.store.Get(key)
	if err != nil {
		return false, "", err
	}
	if ok {
		if v, err := strconv.ParseBool(raw); err == nil {
			return v, SourceExplicit, nil
		}
	}
	switch s.signal {
	case SignalDark:
		return true, SourcePlatform, nil
	case SignalLight:
		return false, SourcePlatform, nil
	}
	return fallback, SourceDefault, nil
}

// Save stores the non-nil fields as explicit choices.
func (s *Service) Save(darkMode, soundEnabled *bool) (Resolved, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if darkMode != nil {
		if err := s.store.Set(ThemeKey, strconv.FormatBool(*darkMode)); err != nil {
			return Resolved{}, err
		}
	}
	if soundEnabled != nil {
		if err := s.store.Set(SoundKey, strconv.FormatBool(*soundEnabled)); err != nil {
			return Resolved{}, err
		}
	}
	return s.load()
}

// ToggleTheme flips the resolved theme and stores the result explicitly.
func (s *Service) ToggleTheme() (Resolved, error) {
	return s.toggle(ThemeKey)
}

// ToggleSound flips the resolved sound setting.
func (s *Service) ToggleSound() (Resolved, error) {
	return s.toggle(SoundKey)
}

func (s *Service) toggle(key string) (Resolved, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.load()
	if err != nil {
		return Resolved{}, err
	}
	next := !current.DarkMode
	if key == SoundKey {
		next = !current.SoundEnabled
	}
	if err := s.store.Set(key, strconv.FormatBool(next)); err != nil {
		return Resolved{}, fmt.Errorf("toggle %s: %w", key, err)
	}
	return s.load()
}

// Reset forgets the explicit choices so the platform signal applies again.
func (s *Service) Reset() (Resolved, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(ThemeKey, SoundKey); err != nil {
		return Resolved{}, err
	}
	return s.load()
}
