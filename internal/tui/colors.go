package tui

// Color constants for the tempo TUI theme
const (
	ColorBorder = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Primary text
	ColorSecondaryText = "#B1B8C7" // Secondary text
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors
	ColorAccentMain   = "#2563EB" // Accent elements, active borders
	ColorAccentBright = "#60A5FA" // Highlights

	// State Colors
	ColorError   = "#EF4444"
	ColorSuccess = "#22C55E"
	ColorWarning = "#F59E0B"
)
