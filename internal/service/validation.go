package service

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	validate     = validator.New()
)

// IsValidEmail applies the same loose shape check the public forms use
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// NormalizeEmail trims and lower-cases an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Pagination holds a normalized page request
type Pagination struct {
	Page  int
	Limit int
}

// NewPagination clamps page to >= 1 and limit to [1, MaxPageSize].
// A zero limit means the caller did not ask for one.
func NewPagination(page, limit int) Pagination {
	if page < 1 {
		page = 1
	}
	switch {
	case limit == 0:
		limit = DefaultPageSize
	case limit < 1:
		limit = 1
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	return Pagination{Page: page, Limit: limit}
}

// Offset returns the number of rows to skip
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages returns ceil(total / limit)
func (p Pagination) TotalPages(total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(p.Limit)))
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// optionalText trims s and returns nil when nothing is left
func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// leadColumnWidths mirrors the VARCHAR widths of the leads table
var leadColumnWidths = []struct {
	column string
	max    int
	err    error
}{
	{"name", 255, ErrNameTooLong},
	{"email", 255, ErrEmailTooLong},
	{"phone", 50, ErrInvalidPhone},
	{"preferred_contact", 50, ErrInvalidPreferredContact},
	{"ticket_number", 100, ErrInvalidTicketNumber},
}

// checkLeadWidths rejects column values longer than the store accepts.
// Values may be string or *string; anything else is skipped.
func checkLeadWidths(values map[string]interface{}) error {
	for _, w := range leadColumnWidths {
		var v string
		switch t := values[w.column].(type) {
		case string:
			v = t
		case *string:
			if t == nil {
				continue
			}
			v = *t
		default:
			continue
		}
		if utf8.RuneCountInString(v) > w.max {
			return w.err
		}
	}
	return nil
}

// optionalTextPtr is optionalText for pointer inputs
func optionalTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return optionalText(*s)
}

// parseUserReference accepts a JSON number or numeric string and returns a
// positive id.
func parseUserReference(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case float64:
		if t <= 0 || t != math.Trunc(t) || t > math.MaxInt64 {
			return 0, false
		}
		return int64(t), true
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil || id <= 0 {
			return 0, false
		}
		return id, true
	default:
		return 0, false
	}
}

func isWholePositive(v float64) bool {
	return v > 0 && v == math.Trunc(v) && !math.IsInf(v, 0)
}
