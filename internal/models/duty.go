package models

import (
	"fmt"
	"strings"
)

// Duty represents one shift, from start to stop, owned by one username.
// status=false means the duty is open (in progress), status=true means it
// has been stopped. Stop fields stay empty until the stop transition.
//
// Dates, times and coordinates are opaque strings: the duty-history sort
// relies on lexicographic comparison of the date/time strings, so they must
// not be silently upgraded to typed values.
type Duty struct {
	ID             string `json:"id" db:"id"`
	Username       string `json:"username" db:"username"`
	StoreName      string `json:"storeName" db:"store_name"`
	StartDate      string `json:"dutyStartDate" db:"start_date"`
	StartTime      string `json:"dutyStartTime" db:"start_time"`
	StartLatitude  string `json:"startLatitude" db:"start_latitude"`
	StartLongitude string `json:"startLongitude" db:"start_longitude"`
	Status         bool   `json:"status" db:"status"`
	StopDate       string `json:"dutyStopDate" db:"stop_date"`
	StopTime       string `json:"dutyStopTime" db:"stop_time"`
	StopLatitude   string `json:"stopLatitude" db:"stop_latitude"`
	StopLongitude  string `json:"stopLongitude" db:"stop_longitude"`
	CreatedAt      int64  `json:"created_at" db:"created_at"`
	UpdatedAt      int64  `json:"updated_at" db:"updated_at"`

	// LocationUpdates is the append-only GPS trail captured while the duty
	// is open. Loaded from the location_updates table, insertion order.
	LocationUpdates []LocationUpdate `json:"updateLocation" db:"-"`
}

// LocationUpdate is one GPS sample on an open duty's travel path.
// CapturedAt is assigned server-side at append time (epoch seconds).
type LocationUpdate struct {
	ID         int64  `json:"id" db:"id"`
	DutyID     string `json:"-" db:"duty_id"`
	Latitude   string `json:"latitude" db:"latitude"`
	Longitude  string `json:"longitude" db:"longitude"`
	CapturedAt int64  `json:"timestamp" db:"captured_at"`
}

// DutyStop carries the fields written exactly once at the stop transition.
type DutyStop struct {
	StopDate      string
	StopTime      string
	StopLatitude  string
	StopLongitude string
}

// IsOpen reports whether the duty is still in progress.
func (d *Duty) IsOpen() bool {
	return !d.Status
}

// SplitTimestamp splits a combined "date, time" string from the client into
// its two halves. The delimiter is fixed; anything that does not split into
// exactly two parts is a validation error.
func SplitTimestamp(s string) (date, clock string, err error) {
	parts := strings.Split(s, ", ")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("timestamp %q is not in \"date, time\" format", s)
	}
	return parts[0], parts[1], nil
}
