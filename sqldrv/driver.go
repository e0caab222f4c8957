// Package sqldrv implements the oraclient driver contract on top of
// database/sql. Each distinct DSN gets its own *sql.DB, which is the pool;
// connection handles are *sql.Conn checked out of it.
package sqldrv

import (
	"context"
	"database/sql"
	"errors"
	"github.com/aurorasolar/go-oraclient/oraclient"
	"github.com/aurorasolar/go-oraclient/utils"
	"go.uber.org/zap"
	"time"
)

var ErrNotOpen = errors.New("sqldrv: connection is not open")

// Dialect adapts oraclient connection strings to one database/sql driver.
type Dialect struct {
	// Name is the database/sql driver name.
	Name string

	// DSN translates parsed connection string attributes into the driver's
	// data source name.
	DSN func(attrs oraclient.Attributes, logger *zap.Logger) (string, error)

	// SchemaStatement builds the statement setting the session schema. Nil
	// keeps the Oracle statement.
	SchemaStatement func(schema string) string

	// PingQuery is a cheap statement that succeeds on any live connection.
	PingQuery string

	// NativePooling is set when the DSN already carries the pool settings.
	// Otherwise they are applied to the *sql.DB.
	NativePooling bool
}

type Driver struct {
	dialect Dialect
	logger  *zap.Logger
	openDB  func(driverName, dsn string) (*sql.DB, error)

	mtx   utils.SessionedMutex
	pools map[string]*sql.DB
}

var _ oraclient.Driver = (*Driver)(nil)

func New(dialect Dialect, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{
		dialect: dialect,
		logger:  logger.Named(dialect.Name),
		openDB:  sql.Open,
		pools:   make(map[string]*sql.DB),
	}
}

// NewConn parses connString and returns an unopened connection.
func (d *Driver) NewConn(connString string) (oraclient.Conn, error) {
	attrs, err := oraclient.ParseAttributes(connString)
	if err != nil {
		return nil, err
	}
	if ds, _ := attrs.Get(oraclient.KeyDataSource); ds == "" {
		return nil, &oraclient.ValidationError{Field: oraclient.KeyDataSource,
			Reason: "missing from the connection string"}
	}

	dsn, err := d.dialect.DSN(attrs, d.logger)
	if err != nil {
		return nil, err
	}
	return &Conn{drv: d, dsn: dsn, attrs: attrs}, nil
}

// Close closes every pool opened by the driver.
func (d *Driver) Close() error {
	sess := d.mtx.Lock()
	defer sess.Unlock()

	var firstErr error
	for dsn, db := range d.pools {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(d.pools, dsn)
	}
	return firstErr
}

// NumPools returns the number of pools currently held.
func (d *Driver) NumPools() int {
	sess := d.mtx.ReadLock()
	defer sess.Unlock()
	return len(d.pools)
}

func (d *Driver) pool(dsn string, attrs oraclient.Attributes) (*sql.DB, error) {
	sess := d.mtx.ReadLock()
	defer sess.Unlock()
	if db := d.pools[dsn]; db != nil {
		return db, nil
	}

	sess.Upgrade()
	if db := d.pools[dsn]; db != nil {
		return db, nil
	}

	db, err := d.openDB(d.dialect.Name, dsn)
	if err != nil {
		return nil, err
	}
	if !d.dialect.NativePooling {
		if err := configurePool(db, attrs); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	d.pools[dsn] = db
	d.logger.Debug("Created connection pool", zap.Int("pools", len(d.pools)))
	return db, nil
}

// configurePool maps the pool attributes onto database/sql's own pool knobs.
func configurePool(db *sql.DB, attrs oraclient.Attributes) error {
	pooling, err := attrs.Bool(oraclient.KeyPooling)
	if err != nil {
		return err
	}
	minPool, err := attrs.Int(oraclient.KeyMinPoolSize)
	if err != nil {
		return err
	}
	maxPool, err := attrs.Int(oraclient.KeyMaxPoolSize)
	if err != nil {
		return err
	}
	lifetime, err := attrs.Int(oraclient.KeyConnectionLifeTime)
	if err != nil {
		return err
	}

	if maxPool != nil {
		db.SetMaxOpenConns(*maxPool)
	}
	if minPool != nil {
		db.SetMaxIdleConns(*minPool)
	}
	if lifetime != nil {
		db.SetConnMaxLifetime(time.Duration(*lifetime) * time.Second)
	}
	if pooling != nil && !*pooling {
		db.SetMaxIdleConns(0)
	}
	return nil
}

// Conn is a connection handle backed by a *sql.Conn once opened.
type Conn struct {
	drv   *Driver
	dsn   string
	attrs oraclient.Attributes
	conn  *sql.Conn
}

var _ oraclient.Conn = (*Conn)(nil)
var _ oraclient.SchemaStatementer = (*Conn)(nil)

func (c *Conn) Open() error {
	return c.OpenContext(context.Background())
}

func (c *Conn) OpenContext(ctx context.Context) error {
	if c.conn != nil {
		return errors.New("sqldrv: connection is already open")
	}

	db, err := c.drv.pool(c.dsn, c.attrs)
	if err != nil {
		return err
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		return err
	}
	c.conn = conn
	return nil
}

func (c *Conn) Exec(query string) error {
	return c.ExecContext(context.Background(), query)
}

func (c *Conn) ExecContext(ctx context.Context, query string) error {
	if c.conn == nil {
		return ErrNotOpen
	}
	_, err := c.conn.ExecContext(ctx, query)
	return err
}

// Close returns the connection to its pool. Closing an unopened connection
// is a no-op.
func (c *Conn) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// SQL exposes the underlying connection for queries. It is nil until the
// connection is opened.
func (c *Conn) SQL() *sql.Conn {
	return c.conn
}

func (c *Conn) CurrentSchemaStatement(schema string) string {
	if c.drv.dialect.SchemaStatement == nil {
		return ""
	}
	return c.drv.dialect.SchemaStatement(schema)
}
