package store

import (
	"context"
	"errors"

	"dutytrack-backend/internal/models"
)

// ErrNotFound is returned when no record matches a lookup: an unknown duty
// id, a username with no open duty, or a failed credential match.
var ErrNotFound = errors.New("not found")

// UserStore looks up seeded users for login. Users are never mutated by this
// service.
type UserStore interface {
	// FindByCredentials returns the user whose username and password both
	// match exactly, or ErrNotFound. Passwords are compared as-is; hashing
	// is out of scope for this system.
	FindByCredentials(ctx context.Context, username, password string) (models.User, error)
}

// StoreDirectory is the read-only fuzzy lookup over named locations.
type StoreDirectory interface {
	// Search returns all stores whose name contains the query,
	// case-insensitive. An empty query matches every store.
	Search(ctx context.Context, name string) ([]models.Store, error)
}

// DutyStore is the stateful core: one open-or-closed duty per record, with
// an append-only GPS trail while open.
//
// Nothing here enforces "at most one open duty per username". Starting a
// second duty without stopping the first leaves two open records; the
// open-duty lookups resolve the ambiguity by picking the most recently
// created one. See DESIGN.md.
type DutyStore interface {
	// Start persists a new open duty and returns it with its assigned id.
	Start(ctx context.Context, duty models.Duty) (models.Duty, error)

	// AppendLocation records a GPS sample on username's open duty with a
	// server-assigned capture time. ErrNotFound if no duty is open. The
	// append is a single atomic write, never read-modify-write.
	AppendLocation(ctx context.Context, username, latitude, longitude string) (models.LocationUpdate, error)

	// Stop closes the duty with the given id and writes the stop fields.
	// ErrNotFound if the id is unknown. There is no guard against stopping
	// an already-closed duty: a second stop re-applies the update.
	Stop(ctx context.Context, dutyID string, stop models.DutyStop) error

	// History returns username's closed duties ordered by
	// (start date, start time) descending, compared lexicographically.
	History(ctx context.Context, username string) ([]models.Duty, error)

	// Pending returns username's open duties. Under the intended invariant
	// this is zero or one records, but the store does not enforce that.
	Pending(ctx context.Context, username string) ([]models.Duty, error)

	// TravelPath returns the location updates of username's open duty in
	// insertion order. ErrNotFound if no duty is open.
	TravelPath(ctx context.Context, username string) ([]models.LocationUpdate, error)
}

// DeviceStore keeps FCM device registrations used to fan out duty
// start/stop notifications.
type DeviceStore interface {
	Register(ctx context.Context, username, token, platform string) error
	Tokens(ctx context.Context) ([]string, error)
}
