package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dutytrack-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Postgres implements UserStore, StoreDirectory, DutyStore and DeviceStore
// on top of a shared sqlx connection pool.
type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) FindByCredentials(ctx context.Context, username, password string) (models.User, error) {
	var user models.User
	query := `SELECT id, username, password, created_at FROM users WHERE username = $1 AND password = $2`
	err := p.db.GetContext(ctx, &user, query, username, password)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("finding user: %w", err)
	}
	return user, nil
}

func (p *Postgres) Search(ctx context.Context, name string) ([]models.Store, error) {
	stores := []models.Store{}
	query := `SELECT name, latitude, longitude FROM stores WHERE name ILIKE '%' || $1 || '%' ORDER BY name`
	if err := p.db.SelectContext(ctx, &stores, query, name); err != nil {
		return nil, fmt.Errorf("searching stores: %w", err)
	}
	return stores, nil
}

func (p *Postgres) Start(ctx context.Context, duty models.Duty) (models.Duty, error) {
	now := time.Now().Unix()
	duty.ID = uuid.New().String()
	duty.Status = false
	duty.CreatedAt = now
	duty.UpdatedAt = now
	duty.LocationUpdates = []models.LocationUpdate{}

	query := `
		INSERT INTO duties (
			id, username, store_name, start_date, start_time,
			start_latitude, start_longitude, status,
			stop_date, stop_time, stop_latitude, stop_longitude,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, '', '', '', '', $8, $9)
	`
	_, err := p.db.ExecContext(ctx, query,
		duty.ID, duty.Username, duty.StoreName, duty.StartDate, duty.StartTime,
		duty.StartLatitude, duty.StartLongitude, duty.CreatedAt, duty.UpdatedAt,
	)
	if err != nil {
		return models.Duty{}, fmt.Errorf("inserting duty: %w", err)
	}
	return duty, nil
}

// openDutyID resolves the open duty for a username. When more than one duty
// is open (the uniqueness invariant is not enforced at write time) the most
// recently created one wins.
func (p *Postgres) openDutyID(ctx context.Context, username string) (string, error) {
	var id string
	query := `SELECT id FROM duties WHERE username = $1 AND status = FALSE ORDER BY created_at DESC, id LIMIT 1`
	err := p.db.GetContext(ctx, &id, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("finding open duty: %w", err)
	}
	return id, nil
}

func (p *Postgres) AppendLocation(ctx context.Context, username, latitude, longitude string) (models.LocationUpdate, error) {
	dutyID, err := p.openDutyID(ctx, username)
	if err != nil {
		return models.LocationUpdate{}, err
	}

	update := models.LocationUpdate{
		DutyID:     dutyID,
		Latitude:   latitude,
		Longitude:  longitude,
		CapturedAt: time.Now().Unix(),
	}

	// Single INSERT into the child table: concurrent appends cannot clobber
	// each other the way a whole-document read-modify-write could.
	query := `
		INSERT INTO location_updates (duty_id, latitude, longitude, captured_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err = p.db.QueryRowContext(ctx, query,
		update.DutyID, update.Latitude, update.Longitude, update.CapturedAt,
	).Scan(&update.ID)
	if err != nil {
		return models.LocationUpdate{}, fmt.Errorf("inserting location update: %w", err)
	}
	return update, nil
}

func (p *Postgres) Stop(ctx context.Context, dutyID string, stop models.DutyStop) error {
	query := `
		UPDATE duties
		SET status = TRUE,
		    stop_date = $1,
		    stop_time = $2,
		    stop_latitude = $3,
		    stop_longitude = $4,
		    updated_at = $5
		WHERE id = $6
	`
	res, err := p.db.ExecContext(ctx, query,
		stop.StopDate, stop.StopTime, stop.StopLatitude, stop.StopLongitude,
		time.Now().Unix(), dutyID,
	)
	if err != nil {
		return fmt.Errorf("stopping duty: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("stopping duty: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) History(ctx context.Context, username string) ([]models.Duty, error) {
	// Lexicographic string order: descending sort is only chronological
	// when the client sends sortable date/time strings.
	query := `
		SELECT * FROM duties
		WHERE username = $1 AND status = TRUE
		ORDER BY start_date DESC, start_time DESC
	`
	return p.selectDuties(ctx, query, username)
}

func (p *Postgres) Pending(ctx context.Context, username string) ([]models.Duty, error) {
	query := `
		SELECT * FROM duties
		WHERE username = $1 AND status = FALSE
		ORDER BY created_at DESC
	`
	return p.selectDuties(ctx, query, username)
}

func (p *Postgres) selectDuties(ctx context.Context, query, username string) ([]models.Duty, error) {
	duties := []models.Duty{}
	if err := p.db.SelectContext(ctx, &duties, query, username); err != nil {
		return nil, fmt.Errorf("selecting duties: %w", err)
	}
	if len(duties) == 0 {
		return duties, nil
	}

	ids := make([]string, len(duties))
	for i, d := range duties {
		ids[i] = d.ID
	}

	inQuery, args, err := sqlx.In(
		`SELECT id, duty_id, latitude, longitude, captured_at
		 FROM location_updates WHERE duty_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("building location query: %w", err)
	}

	updates := []models.LocationUpdate{}
	if err := p.db.SelectContext(ctx, &updates, p.db.Rebind(inQuery), args...); err != nil {
		return nil, fmt.Errorf("selecting location updates: %w", err)
	}

	byDuty := make(map[string][]models.LocationUpdate, len(duties))
	for _, u := range updates {
		byDuty[u.DutyID] = append(byDuty[u.DutyID], u)
	}
	for i := range duties {
		trail := byDuty[duties[i].ID]
		if trail == nil {
			trail = []models.LocationUpdate{}
		}
		duties[i].LocationUpdates = trail
	}
	return duties, nil
}

func (p *Postgres) TravelPath(ctx context.Context, username string) ([]models.LocationUpdate, error) {
	dutyID, err := p.openDutyID(ctx, username)
	if err != nil {
		return nil, err
	}

	updates := []models.LocationUpdate{}
	query := `
		SELECT id, duty_id, latitude, longitude, captured_at
		FROM location_updates
		WHERE duty_id = $1
		ORDER BY id
	`
	if err := p.db.SelectContext(ctx, &updates, query, dutyID); err != nil {
		return nil, fmt.Errorf("selecting travel path: %w", err)
	}
	return updates, nil
}

func (p *Postgres) Register(ctx context.Context, username, token, platform string) error {
	query := `
		INSERT INTO device_tokens (username, token, platform, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (token)
		DO UPDATE SET username = EXCLUDED.username,
		              platform = EXCLUDED.platform,
		              updated_at = EXCLUDED.updated_at
	`
	if _, err := p.db.ExecContext(ctx, query, username, token, platform, time.Now().Unix()); err != nil {
		return fmt.Errorf("registering device token: %w", err)
	}
	return nil
}

func (p *Postgres) Tokens(ctx context.Context) ([]string, error) {
	tokens := []string{}
	if err := p.db.SelectContext(ctx, &tokens, `SELECT token FROM device_tokens`); err != nil {
		return nil, fmt.Errorf("listing device tokens: %w", err)
	}
	return tokens, nil
}
