// Package diag carries operator-facing diagnostics. The submission controller
// logs through *slog.Logger; the handlers here decide where those lines go.
package diag

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// execer is the part of *pgxpool.Pool the handler needs.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresHandler is a slog.Handler writing each record as one row of
// query_diagnostics.
type PostgresHandler struct {
	db     execer
	level  slog.Leveler
	attrs  []slog.Attr
	prefix string
}

// NewPostgresHandler returns a handler recording records at or above level.
func NewPostgresHandler(db execer, level slog.Leveler) *PostgresHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &PostgresHandler{db: db, level: level}
}

func (h *PostgresHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *PostgresHandler) Handle(ctx context.Context, r slog.Record) error {
	fields := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		addAttr(fields, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		addAttr(fields, h.prefix, a)
		return true
	})

	var attemptID *string
	if v, ok := fields["attemptId"].(string); ok {
		attemptID = &v
	}

	attrs, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal diagnostic attrs: %w", err)
	}

	_, err = h.db.Exec(context.WithoutCancel(ctx),
		`INSERT INTO query_diagnostics (logged_at, level, message, attempt_id, attrs)
		 VALUES ($1, $2, $3, $4, $5::jsonb)`,
		r.Time.UTC(), r.Level.String(), r.Message, attemptID, string(attrs),
	)
	if err != nil {
		return fmt.Errorf("insert diagnostic: %w", err)
	}
	return nil
}

func (h *PostgresHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (h *PostgresHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

// addAttr flattens groups into dotted keys and stringifies errors.
func addAttr(dst map[string]any, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p = prefix + a.Key + "."
		}
		for _, g := range v.Group() {
			addAttr(dst, p, g)
		}
		return
	}
	if a.Key == "" {
		return
	}
	key := strings.TrimSuffix(prefix, ".")
	if key != "" {
		key += "."
	}
	key += a.Key
	switch val := v.Any().(type) {
	case error:
		dst[key] = val.Error()
	default:
		dst[key] = val
	}
}
