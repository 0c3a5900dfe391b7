// internal/rules/formats.go
package rules

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

/*
 * Leaf format checks for Email, Date and DateTime schemas.
 *
 * Email: exactly one '@', non-empty local part, domain with at least one
 * '.' that is neither its first nor its last character. Other dots may sit
 * anywhere, so a@.b.co passes and a@.com does not.
 * Date: YYYY-MM-DD naming a real calendar day (2026-02-30 fails).
 * DateTime: YYYY-MM-DDTHH:MM[:SS][Z|+HH:MM|-HH:MM], date part as above,
 * hour < 24, minute and second < 60, offset hour < 24.
 *
 * No locale handling and no fractional seconds.
 */

const dateLayout = "2006-01-02"

var dateTimeRegex = regexp.MustCompile(
	`^(\d{4}-\d{2}-\d{2})T(\d{2}):(\d{2})(?::(\d{2}))?(Z|[+-](\d{2}):(\d{2}))?$`,
)

// ValidEmail reports whether s has the shape local@domain.tld.
func ValidEmail(s string) bool {
	if strings.Count(s, "@") != 1 {
		return false
	}
	local, domain, _ := strings.Cut(s, "@")
	if local == "" {
		return false
	}
	if len(domain) < 3 {
		return false
	}
	return strings.Contains(domain[1:len(domain)-1], ".")
}

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	if len(s) != len(dateLayout) {
		return false
	}
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// ValidDateTime reports whether s is a YYYY-MM-DDTHH:MM[:SS][zone] date-time.
func ValidDateTime(s string) bool {
	m := dateTimeRegex.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	if !ValidDate(m[1]) {
		return false
	}
	if !inRange(m[2], 23) || !inRange(m[3], 59) {
		return false
	}
	if m[4] != "" && !inRange(m[4], 59) {
		return false
	}
	if m[6] != "" && (!inRange(m[6], 23) || !inRange(m[7], 59)) {
		return false
	}
	return true
}

// inRange parses a two-digit field and checks it against max.
func inRange(digits string, max int) bool {
	n, err := strconv.Atoi(digits)
	return err == nil && n >= 0 && n <= max
}
