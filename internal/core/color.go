package core

// Color is the foreground color of a screen cell.
type Color uint8

// Palette used by the game screen.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightYellow
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// ansiCodes holds the ANSI 256-color code of each palette entry.
var ansiCodes = [...]string{
	ColorDefault:      "",
	ColorRed:          "1",
	ColorGreen:        "2",
	ColorCyan:         "6",
	ColorWhite:        "7",
	ColorBrightRed:    "9",
	ColorBrightYellow: "11",
	ColorBrightWhite:  "15",
	ColorOrange:       "208",
	ColorGray:         "245",
}

// ANSI returns the ANSI 256-color code for c, or "" for the terminal default.
func (c Color) ANSI() string {
	if int(c) >= len(ansiCodes) {
		return ""
	}
	return ansiCodes[c]
}
