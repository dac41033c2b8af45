package core

// Color is a foreground colour for a screen cell. The host maps each
// value to an ANSI 256 code.
type Color uint8

// Base terminal colours.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// Snowfield shades.
const (
	ColorShadow Color = iota + ColorGray + 1 // Slope facing away from the sun
	ColorIce                                 // Gully floor
)
