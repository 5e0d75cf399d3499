package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Widget struct {
	ID     string          `json:"id"`
	Type   string          `json:"type"`
	Config json.RawMessage `json:"config,omitempty"`
}

type Dashboard struct {
	ID        string    `json:"id"`
	Owner     string    `json:"user"`
	Name      string    `json:"name"`
	Widgets   []Widget  `json:"widgets"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const dashboardColumns = `id, owner, name, widgets, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanDashboard(sc scanner) (*Dashboard, error) {
	var (
		d       Dashboard
		widgets string
	)
	if err := sc.Scan(&d.ID, &d.Owner, &d.Name, &widgets, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(widgets), &d.Widgets); err != nil {
		return nil, fmt.Errorf("decode widgets of %s: %w", d.ID, err)
	}
	if d.Widgets == nil {
		d.Widgets = []Widget{}
	}
	return &d, nil
}

func (s *Store) ListDashboards(ctx context.Context, owner string) ([]Dashboard, error) {
	rs, err := s.db.QueryContext(ctx, s.rebind(`SELECT `+dashboardColumns+` FROM dashboards WHERE owner = ? ORDER BY created_at, id`), owner)
	if err != nil {
		return nil, fmt.Errorf("list dashboards: %w", err)
	}
	defer rs.Close()

	out := []Dashboard{}
	for rs.Next() {
		d, err := scanDashboard(rs)
		if err != nil {
			return nil, fmt.Errorf("scan dashboard: %w", err)
		}
		out = append(out, *d)
	}
	return out, rs.Err()
}

// GetDashboard returns ErrNotFound for ids owned by someone else.
func (s *Store) GetDashboard(ctx context.Context, owner, id string) (*Dashboard, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+dashboardColumns+` FROM dashboards WHERE id = ? AND owner = ?`), id, owner)
	d, err := scanDashboard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("dashboard %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get dashboard: %w", err)
	}
	return d, nil
}

// SaveDashboard creates d when it has no id and updates it otherwise. Updates
// only touch dashboards owned by d.Owner.
func (s *Store) SaveDashboard(ctx context.Context, d *Dashboard) error {
	if d.Widgets == nil {
		d.Widgets = []Widget{}
	}
	widgets, err := json.Marshal(d.Widgets)
	if err != nil {
		return fmt.Errorf("encode widgets: %w", err)
	}
	now := time.Now().UTC()

	if d.ID == "" {
		d.ID = uuid.NewString()
		d.CreatedAt = now
		d.UpdatedAt = now
		_, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO dashboards (`+dashboardColumns+`) VALUES (?, ?, ?, ?, ?, ?)`),
			d.ID, d.Owner, d.Name, string(widgets), d.CreatedAt, d.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert dashboard: %w", err)
		}
		return nil
	}

	res, err := s.db.ExecContext(ctx, s.rebind(`UPDATE dashboards SET name = ?, widgets = ?, updated_at = ? WHERE id = ? AND owner = ?`),
		d.Name, string(widgets), now, d.ID, d.Owner)
	if err != nil {
		return fmt.Errorf("update dashboard: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update dashboard: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("dashboard %s: %w", d.ID, ErrNotFound)
	}

	saved, err := s.GetDashboard(ctx, d.Owner, d.ID)
	if err != nil {
		return err
	}
	*d = *saved
	return nil
}

func (s *Store) DeleteDashboard(ctx context.Context, owner, id string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM dashboards WHERE id = ? AND owner = ?`), id, owner)
	if err != nil {
		return fmt.Errorf("delete dashboard: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete dashboard: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("dashboard %s: %w", id, ErrNotFound)
	}
	return nil
}
