package intake

import (
	"fmt"
	"regexp"
	"time"
)

var ticketPattern = regexp.MustCompile(`^EG\d{8}$`)

// NewTicketNumber returns "EG" followed by the last eight digits of the
// epoch milliseconds of now. Numbers are not checked against the store.
func NewTicketNumber(now time.Time) string {
	return fmt.Sprintf("EG%08d", now.UnixMilli()%100_000_000)
}

// IsTicketNumber reports whether s has the intake ticket shape
func IsTicketNumber(s string) bool {
	return ticketPattern.MatchString(s)
}
