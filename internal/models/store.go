package models

// Store is a named location a duty can be started at. Reference data,
// read-only to this service. Coordinates are transmitted as strings and
// never parsed numerically.
type Store struct {
	Name      string `json:"name" db:"name"`
	Latitude  string `json:"latitude" db:"latitude"`
	Longitude string `json:"longitude" db:"longitude"`
}
