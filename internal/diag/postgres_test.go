package diag_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aivs/query-service/internal/diag"
)

type row struct {
	level     string
	message   string
	attemptID *string
	attrs     map[string]any
}

type fakeDB struct {
	mu   sync.Mutex
	rows []row
	err  error
}

func (f *fakeDB) Exec(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
	if f.err != nil {
		return pgconn.CommandTag{}, f.err
	}
	var attrs map[string]any
	_ = json.Unmarshal([]byte(args[4].(string)), &attrs)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, row{
		level:     args[1].(string),
		message:   args[2].(string),
		attemptID: args[3].(*string),
		attrs:     attrs,
	})
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func TestPostgresHandler_WritesRows(t *testing.T) {
	db := &fakeDB{}
	log := slog.New(diag.NewPostgresHandler(db, slog.LevelInfo))

	log.With("attemptId", "a-9", "policy", "contact").Error("fetch error", "err", errors.New("dial tcp: refused"))
	log.Debug("dropped")

	require.Len(t, db.rows, 1)
	r := db.rows[0]
	assert.Equal(t, "ERROR", r.level)
	assert.Equal(t, "fetch error", r.message)
	require.NotNil(t, r.attemptID)
	assert.Equal(t, "a-9", *r.attemptID)
	assert.Equal(t, "dial tcp: refused", r.attrs["err"])
	assert.Equal(t, "contact", r.attrs["policy"])
}

func TestPostgresHandler_Groups(t *testing.T) {
	db := &fakeDB{}
	log := slog.New(diag.NewPostgresHandler(db, nil)).WithGroup("http")

	log.Info("api response", "status", 200, slog.Group("body", "message", "ok"))

	require.Len(t, db.rows, 1)
	assert.Nil(t, db.rows[0].attemptID)
	assert.EqualValues(t, 200, db.rows[0].attrs["http.status"])
	assert.Equal(t, "ok", db.rows[0].attrs["http.body.message"])
}

func TestPostgresHandler_InsertError(t *testing.T) {
	h := diag.NewPostgresHandler(&fakeDB{err: errors.New("conn closed")}, nil)
	err := h.Handle(context.Background(), slog.Record{Message: "x"})
	assert.ErrorContains(t, err, "insert diagnostic")
}

func TestTee(t *testing.T) {
	db := &fakeDB{}
	var buf bytes.Buffer
	log := slog.New(diag.Tee{
		slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		diag.NewPostgresHandler(db, slog.LevelWarn),
	})

	log.Debug("payload built")
	log.Warn("submission refused")

	assert.Contains(t, buf.String(), "payload built")
	assert.Contains(t, buf.String(), "submission refused")
	require.Len(t, db.rows, 1)
	assert.Equal(t, "submission refused", db.rows[0].message)
}
