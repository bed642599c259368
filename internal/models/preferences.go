package models

// DefaultPreferenceKey is the storage key the theme preference record lives under
const DefaultPreferenceKey = "saved_state"

// ThemePreference is the single persisted preference record
type ThemePreference struct {
	IsDarkTheme bool `json:"isDarkTheme"`
}

// Toggled returns a copy with the dark flag flipped
func (p ThemePreference) Toggled() ThemePreference {
	return ThemePreference{IsDarkTheme: !p.IsDarkTheme}
}

// ColorScheme returns the name of the color scheme the preference selects
func (p ThemePreference) ColorScheme() string {
	if p.IsDarkTheme {
		return "dark"
	}
	return "light"
}

// ThemeSelection represents the current theme choice of a session
type ThemeSelection string

const (
	ThemeSelectionLocal ThemeSelection = "local" // Not yet resolved from storage
	ThemeSelectionLight ThemeSelection = "light"
	ThemeSelectionDark  ThemeSelection = "dark"
)

// UpdatePreferenceRequest represents the request body for replacing the preference
type UpdatePreferenceRequest struct {
	IsDarkTheme *bool `json:"isDarkTheme"`
}
