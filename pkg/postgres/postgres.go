// Package postgres serves rxform definition documents from a PostgreSQL
// table, reloading on LISTEN/NOTIFY.
//
// The table holds one document per form and a trigger announces the form
// name on every write:
//
//	CREATE TABLE forms (name TEXT PRIMARY KEY, document BYTEA NOT NULL);
//
//	CREATE FUNCTION notify_form_change() RETURNS trigger AS $$
//	BEGIN
//	    PERFORM pg_notify('form_changed', NEW.name);
//	    RETURN NEW;
//	END;
//	$$ LANGUAGE plpgsql;
//
//	CREATE TRIGGER form_change AFTER INSERT OR UPDATE ON forms
//	    FOR EACH ROW EXECUTE FUNCTION notify_form_change();
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Defaults match the schema in the package documentation.
const (
	DefaultTable   = "forms"
	DefaultChannel = "form_changed"
)

// Source emits the document of one named form.
type Source struct {
	pool    *pgxpool.Pool
	name    string
	table   string
	channel string
}

// Option configures a Source.
type Option func(*Source)

// WithTable sets the table holding the documents.
func WithTable(table string) Option {
	return func(s *Source) {
		s.table = table
	}
}

// WithChannel sets the notification channel the trigger publishes on.
func WithChannel(channel string) Option {
	return func(s *Source) {
		s.channel = channel
	}
}

// New returns a Source for the form called name.
func New(pool *pgxpool.Pool, name string, opts ...Option) *Source {
	s := &Source{
		pool:    pool,
		name:    name,
		table:   DefaultTable,
		channel: DefaultChannel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Watch implements rxform.Watcher. It holds one pooled connection for as
// long as ctx lives. The stored document, if any, is emitted first.
func (s *Source) Watch(ctx context.Context) (<-chan []byte, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{s.channel}.Sanitize()); err != nil {
		conn.Release()
		return nil, fmt.Errorf("listen on %s: %w", s.channel, err)
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		defer conn.Release()

		if !s.forward(ctx, out) {
			return
		}
		for {
			n, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				continue
			}
			if n.Payload != s.name {
				continue
			}
			if !s.forward(ctx, out) {
				return
			}
		}
	}()
	return out, nil
}

// forward sends the stored document on out. It reports false once ctx is
// done. A missing row is skipped.
func (s *Source) forward(ctx context.Context, out chan<- []byte) bool {
	doc, err := s.load(ctx)
	if err != nil {
		return ctx.Err() == nil
	}
	select {
	case out <- doc:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Source) load(ctx context.Context) ([]byte, error) {
	query := fmt.Sprintf("SELECT document FROM %s WHERE name = $1", pgx.Identifier{s.table}.Sanitize())
	var doc []byte
	if err := s.pool.QueryRow(ctx, query, s.name).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("form %q not found: %w", s.name, err)
		}
		return nil, err
	}
	return doc, nil
}
