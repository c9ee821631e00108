package postgres

import (
	"context"
	_ "embed"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	otelpgx "github.com/webitel/webitel-go-kit/infra/otel/instrumentation/pgx"

	conf "github.com/webitel/video-exporter/config"
	dberr "github.com/webitel/video-exporter/internal/errors"
	"github.com/webitel/video-exporter/internal/store"
)

//go:embed schema.sql
var schema string

// Querier is the subset of *pgxpool.Pool the stores use.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the struct implementing the Store interface.
type Store struct {
	postStore     store.PostStore
	settingsStore store.SettingsStore
	config        *conf.DatabaseConfig
	pool          *pgxpool.Pool
	conn          Querier
}

// New creates a new Store instance.
func New(config *conf.DatabaseConfig) *Store {
	return &Store{config: config}
}

// NewWithQuerier builds an already opened Store on top of q.
func NewWithQuerier(q Querier) *Store {
	return &Store{conn: q}
}

func (s *Store) Posts() store.PostStore {
	if s.postStore == nil {
		ps, err := NewPostStore(s)
		if err != nil {
			return nil
		}
		s.postStore = ps
	}
	return s.postStore
}

func (s *Store) Settings() store.SettingsStore {
	if s.settingsStore == nil {
		ss, err := NewSettingsStore(s)
		if err != nil {
			return nil
		}
		s.settingsStore = ss
	}
	return s.settingsStore
}

// Database returns the database connection or a custom error if it is not opened.
func (s *Store) Database() (Querier, error) {
	if s.conn == nil {
		return nil, dberr.NewDBInternalError("database", errors.New("database connection is not opened"))
	}
	return s.conn, nil
}

// Open establishes a connection to the database and returns a custom error if it fails.
func (s *Store) Open() error {
	config, err := pgxpool.ParseConfig(s.config.Url)
	if err != nil {
		return dberr.NewDBInternalError("open.parse_config", err)
	}

	// Attach the OpenTelemetry tracer for pgx
	config.ConnConfig.Tracer = otelpgx.NewTracer(otelpgx.WithTrimSQLInSpanName())

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return dberr.NewDBInternalError("open.connect", err)
	}
	s.pool = pool
	s.conn = pool
	slog.Debug("video_exporter.store.connection_opened", slog.String("message", "postgres: connection opened"))
	return nil
}

// Migrate creates the exporter's own tables. The posts table belongs to the CMS.
func (s *Store) Migrate(ctx context.Context) error {
	db, err := s.Database()
	if err != nil {
		return err
	}
	if _, err := db.Exec(ctx, schema); err != nil {
		return dberr.NewDBInternalError("migrate", err)
	}
	return nil
}

// Ping checks the pool can reach the database.
func (s *Store) Ping(ctx context.Context) error {
	if s.pool == nil {
		_, err := s.Database()
		return err
	}
	if err := s.pool.Ping(ctx); err != nil {
		return dberr.NewDBInternalError("ping", err)
	}
	return nil
}

// Close closes the database connection and returns a custom error if it fails.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
		slog.Debug("video_exporter.store.connection_closed", slog.String("message", "postgres: connection closed"))
		s.pool = nil
	}
	s.conn = nil
	return nil
}

// mapPgError converts constraint violations to typed DB errors.
func mapPgError(id string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return &dberr.DBUniqueViolationError{
				DBError: *dberr.NewDBError(id, pgErr.Message),
				Column:  pgErr.ConstraintName,
			}
		case "23503": // foreign_key_violation
			return &dberr.DBForeignKeyViolationError{
				DBError:         *dberr.NewDBError(id, pgErr.Message),
				ForeignKeyTable: pgErr.TableName,
			}
		}
	}
	return dberr.NewDBInternalError(id, err)
}
