package utils

import (
	"fmt"
	"os"
	"time"
)

// MessageType selects the color of a console message.
type MessageType int

const (
	DefaultMessage MessageType = iota
	SuccessMessage
	ErrorMessage
	StatusMessage
)

// DefaultColor resets the terminal color.
const DefaultColor = "\x1b[0m"

var messageColors = map[MessageType]string{
	DefaultMessage: DefaultColor,
	StatusMessage:  "\x1b[36m",
	SuccessMessage: "\x1b[32m",
	ErrorMessage:   "\x1b[31m",
}

// DecorateText wraps s in the color of its message type.
// The text is returned as is when NO_COLOR is set (https://no-color.org).
func DecorateText(s string, msgType MessageType) string {
	color, ok := messageColors[msgType]
	if !ok || os.Getenv("NO_COLOR") != "" {
		return s
	}
	return color + s + DefaultColor
}

// FormatTime prints a duration the way it is reported after a composition: "1.50s", "2m 3.00s", "1h 0m 5.00s".
func FormatTime(d time.Duration) string {
	var (
		days  = int64(d / (24 * time.Hour))
		hours = int64(d/time.Hour) % 24
		mins  = int64(d/time.Minute) % 60
		secs  = (d % time.Minute).Seconds()
	)
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %.2fs", days, hours, mins, secs)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %.2fs", hours, mins, secs)
	case mins > 0:
		return fmt.Sprintf("%dm %.2fs", mins, secs)
	}
	return fmt.Sprintf("%.2fs", secs)
}
