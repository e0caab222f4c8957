package oraclient

import (
	"context"
)

// Driver creates unopened connection handles. Implementations own pooling,
// network I/O and authentication.
type Driver interface {
	NewConn(connString string) (Conn, error)
}

// Conn is a connection handle produced by a Driver. Open and OpenContext
// establish the session; Close releases the handle whether or not it was
// opened.
type Conn interface {
	Open() error
	OpenContext(ctx context.Context) error
	Exec(query string) error
	ExecContext(ctx context.Context, query string) error
	Close() error
}

// SchemaStatementer is implemented by connections whose database sets the
// session schema with a statement other than Oracle's ALTER SESSION. An
// empty result falls back to the Oracle statement.
type SchemaStatementer interface {
	CurrentSchemaStatement(schema string) string
}

// ConnectionFactory is the consumer-facing part of Factory.
type ConnectionFactory interface {
	Open(hook OpenHook) (Conn, error)
	OpenContext(ctx context.Context, hook OpenHook) (Conn, error)
}
