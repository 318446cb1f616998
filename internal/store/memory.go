package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"dutytrack-backend/internal/models"

	"github.com/google/uuid"
)

// Memory is an in-process implementation of all four store interfaces. It
// backs the handler tests and is handy for running the server without a
// database. Same observable semantics as Postgres, including the
// most-recent-open-duty tie-break and the missing double-stop guard.
type Memory struct {
	mu      sync.Mutex
	users   []models.User
	stores  []models.Store
	duties  []*models.Duty
	devices map[string]deviceRecord
	nextID  int64
}

type deviceRecord struct {
	username string
	platform string
}

func NewMemory() *Memory {
	return &Memory{devices: make(map[string]deviceRecord)}
}

// AddUser seeds a login user.
func (m *Memory) AddUser(username, password string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = append(m.users, models.User{
		ID:        uuid.New().String(),
		Username:  username,
		Password:  password,
		CreatedAt: time.Now().Unix(),
	})
}

// AddStore seeds a directory entry.
func (m *Memory) AddStore(name, latitude, longitude string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stores = append(m.stores, models.Store{Name: name, Latitude: latitude, Longitude: longitude})
}

func (m *Memory) FindByCredentials(_ context.Context, username, password string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username && u.Password == password {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (m *Memory) Search(_ context.Context, name string) ([]models.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	needle := strings.ToLower(name)
	matches := []models.Store{}
	for _, s := range m.stores {
		if strings.Contains(strings.ToLower(s.Name), needle) {
			matches = append(matches, s)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	return matches, nil
}

func (m *Memory) Start(_ context.Context, duty models.Duty) (models.Duty, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().Unix()
	duty.ID = uuid.New().String()
	duty.Status = false
	duty.CreatedAt = now
	duty.UpdatedAt = now
	duty.LocationUpdates = []models.LocationUpdate{}

	stored := duty
	m.duties = append(m.duties, &stored)
	return duty, nil
}

// openDuty returns the most recently started open duty for username.
// Appends to m.duties keep insertion order, so the last open match wins.
func (m *Memory) openDuty(username string) *models.Duty {
	for i := len(m.duties) - 1; i >= 0; i-- {
		d := m.duties[i]
		if d.Username == username && d.IsOpen() {
			return d
		}
	}
	return nil
}

func (m *Memory) AppendLocation(_ context.Context, username, latitude, longitude string) (models.LocationUpdate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	duty := m.openDuty(username)
	if duty == nil {
		return models.LocationUpdate{}, ErrNotFound
	}

	m.nextID++
	update := models.LocationUpdate{
		ID:         m.nextID,
		DutyID:     duty.ID,
		Latitude:   latitude,
		Longitude:  longitude,
		CapturedAt: time.Now().Unix(),
	}
	duty.LocationUpdates = append(duty.LocationUpdates, update)
	duty.UpdatedAt = update.CapturedAt
	return update, nil
}

func (m *Memory) Stop(_ context.Context, dutyID string, stop models.DutyStop) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, d := range m.duties {
		if d.ID == dutyID {
			d.Status = true
			d.StopDate = stop.StopDate
			d.StopTime = stop.StopTime
			d.StopLatitude = stop.StopLatitude
			d.StopLongitude = stop.StopLongitude
			d.UpdatedAt = time.Now().Unix()
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) History(_ context.Context, username string) ([]models.Duty, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	history := []models.Duty{}
	for _, d := range m.duties {
		if d.Username == username && !d.IsOpen() {
			history = append(history, copyDuty(d))
		}
	}
	sort.SliceStable(history, func(i, j int) bool {
		if history[i].StartDate != history[j].StartDate {
			return history[i].StartDate > history[j].StartDate
		}
		return history[i].StartTime > history[j].StartTime
	})
	return history, nil
}

func (m *Memory) Pending(_ context.Context, username string) ([]models.Duty, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pending := []models.Duty{}
	for i := len(m.duties) - 1; i >= 0; i-- {
		d := m.duties[i]
		if d.Username == username && d.IsOpen() {
			pending = append(pending, copyDuty(d))
		}
	}
	return pending, nil
}

func (m *Memory) TravelPath(_ context.Context, username string) ([]models.LocationUpdate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	duty := m.openDuty(username)
	if duty == nil {
		return nil, ErrNotFound
	}
	path := make([]models.LocationUpdate, len(duty.LocationUpdates))
	copy(path, duty.LocationUpdates)
	return path, nil
}

func (m *Memory) Register(_ context.Context, username, token, platform string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.devices[token] = deviceRecord{username: username, platform: platform}
	return nil
}

func (m *Memory) Tokens(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tokens := make([]string, 0, len(m.devices))
	for token := range m.devices {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens, nil
}

func copyDuty(d *models.Duty) models.Duty {
	out := *d
	out.LocationUpdates = make([]models.LocationUpdate, len(d.LocationUpdates))
	copy(out.LocationUpdates, d.LocationUpdates)
	return out
}
