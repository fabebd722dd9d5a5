package ui

// Color is an ANSI foreground escape sequence
type Color string

const (
	ColorDefault Color = "\033[0m"
	ColorGray    Color = "\033[38;2;150;150;150m"
	ColorWhite   Color = "\033[38;2;255;255;255m"

	ColorLightRed Color = "\033[38;2;255;150;150m"
	ColorRed      Color = "\033[38;2;255;0;0m"

	ColorLightGreen Color = "\033[38;2;150;255;150m"
	ColorGreen      Color = "\033[38;2;0;255;0m"

	ColorLightYellow Color = "\033[38;2;255;255;150m"

	ColorLightBlue   Color = "\033[38;2;150;150;255m"
	ColorLightPurple Color = "\033[38;2;200;150;255m"
	ColorLightOrange Color = "\033[38;2;255;200;150m"
)

// statusColors colours order and stock statuses in tables
var statusColors = map[string]Color{
	"PENDING":    ColorLightYellow,
	"DISPATCHED": ColorLightBlue,
	"RECEIVED":   ColorLightGreen,
	"APPROVED":   ColorLightGreen,
	"CANCELLED":  ColorLightRed,
	"LOGGED":     ColorGray,
	"Optimal":    ColorLightGreen,
	"Low Stock":  ColorLightYellow,
	"Stockout":   ColorLightRed,
	"active":     ColorLightGreen,
	"inactive":   ColorGray,
}
