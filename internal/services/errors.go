package services

import "errors"

// Standard service errors.
var (
	ErrInvalidMessageID = errors.New("invalid message ID")
	ErrInvalidFlag      = errors.New("invalid flag value")
	ErrEmptyEmoji       = errors.New("empty emoji token")
	ErrInvalidTimeframe = errors.New("invalid timeframe")
)

// Timeframes is the closed set of accepted stats timeframes.
var Timeframes = []string{"all", "24h", "7d", "30d"}

// ValidTimeframe reports whether tf is one of the accepted timeframes.
func ValidTimeframe(tf string) bool {
	for _, t := range Timeframes {
		if t == tf {
			return true
		}
	}
	return false
}
