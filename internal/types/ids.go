package types

import (
	"time"

	"github.com/google/uuid"
)

// ReportID identifies one stored validation report (UUIDv7).
// String alias keeps type safety while serializing as a plain string.
type ReportID string

// NewReportID generates a UUIDv7 report identifier.
// Time-ordered IDs ensure sequential inserts cluster in B-tree pages.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewReportID() ReportID {
	return ReportID(uuid.Must(uuid.NewV7()).String())
}

// ParseReportID validates and converts a string to ReportID.
func ParseReportID(s string) (ReportID, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", err
	}
	return ReportID(s), nil
}

// ReportIDTime extracts the timestamp embedded in a UUIDv7 ID.
// Returns zero time for invalid UUIDs; caller should check IsZero().
func ReportIDTime(id ReportID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}
