package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/medplat/internal/dataset"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "medplat.db")
	ctx := context.Background()

	s1, err := Open(ctx, Options{Driver: DriverSQLite, SQLitePath: path})
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(ctx, Options{SQLitePath: path})
	require.NoError(t, err)
	defer s2.Close()
	assert.Equal(t, DriverSQLite, s2.Driver())
	assert.NoError(t, s2.Ping(ctx))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "mongo"})
	assert.Error(t, err)
}

func TestOpen_PostgresRequiresURL(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: DriverPostgres})
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestRebind(t *testing.T) {
	pg := &Store{driver: DriverPostgres}
	assert.Equal(t, "UPDATE t SET a = $1 WHERE b = $2", pg.rebind("UPDATE t SET a = ? WHERE b = ?"))

	lite := &Store{driver: DriverSQLite}
	assert.Equal(t, "SELECT ?", lite.rebind("SELECT ?"))
}

func TestRows_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rows := []dataset.Row{
		dataset.NewRow("ward", "A", "admissions", "12"),
		dataset.NewRow("ward", "B", "admissions", 7.0, "note", nil),
	}
	n, err := s.InsertRows(ctx, "batch-1", rows)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := s.ListRows(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, []string{"_id", "ward", "admissions"}, got[0].Keys())
	id, _ := got[0].Get("_id")
	assert.Equal(t, "1", id)
	v, _ := got[1].Get("admissions")
	assert.Equal(t, 7.0, v)

	count, err := s.CountRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRows_LimitAndDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var rows []dataset.Row
	for i := 0; i < 5; i++ {
		rows = append(rows, dataset.NewRow("n", i))
	}
	_, err := s.InsertRows(ctx, "b", rows)
	require.NoError(t, err)

	got, err := s.ListRows(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	deleted, err := s.DeleteRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), deleted)

	got, err = s.ListRows(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestUsers(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, User{Username: "alice", PasswordHash: "h1", Role: "admin"}))
	require.NoError(t, s.CreateUser(ctx, User{Username: "bob", PasswordHash: "h2", Role: "doctor", Email: "bob@example.org"}))

	err := s.CreateUser(ctx, User{Username: "alice", PasswordHash: "x", Role: "nurse"})
	assert.ErrorIs(t, err, ErrConflict)

	u, err := s.GetUser(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "doctor", u.Role)
	assert.Equal(t, "bob@example.org", u.Email)
	assert.False(t, u.CreatedAt.IsZero())

	_, err = s.GetUser(ctx, "carol")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.UpdatePassword(ctx, "bob", "h3"))
	require.NoError(t, s.SetRole(ctx, "bob", "nurse"))
	u, err = s.GetUser(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "h3", u.PasswordHash)
	assert.Equal(t, "nurse", u.Role)

	assert.ErrorIs(t, s.SetRole(ctx, "carol", "nurse"), ErrNotFound)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Empty(t, users[0].PasswordHash)
}

func TestDashboards_PerOwner(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	d := &Dashboard{
		Owner: "alice",
		Name:  "Ward X",
		Widgets: []Widget{
			{ID: "w1", Type: "bar", Config: json.RawMessage(`{"x":"ward","y":"admissions"}`)},
		},
	}
	require.NoError(t, s.SaveDashboard(ctx, d))
	require.NotEmpty(t, d.ID)

	got, err := s.GetDashboard(ctx, "alice", d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ward X", got.Name)
	require.Len(t, got.Widgets, 1)
	assert.JSONEq(t, `{"x":"ward","y":"admissions"}`, string(got.Widgets[0].Config))

	_, err = s.GetDashboard(ctx, "bob", d.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := s.ListDashboards(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, list)

	// bob cannot overwrite or delete alice's dashboard
	err = s.SaveDashboard(ctx, &Dashboard{ID: d.ID, Owner: "bob", Name: "mine"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteDashboard(ctx, "bob", d.ID), ErrNotFound)

	update := &Dashboard{ID: d.ID, Owner: "alice", Name: "Ward X v2"}
	require.NoError(t, s.SaveDashboard(ctx, update))
	assert.Equal(t, "Ward X v2", update.Name)
	assert.Empty(t, update.Widgets)

	list, err = s.ListDashboards(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, s.DeleteDashboard(ctx, "alice", d.ID))
	assert.ErrorIs(t, s.DeleteDashboard(ctx, "alice", d.ID), ErrNotFound)
}
