package oraclient

import (
	"context"
	"errors"
)

// ErrNotMocked is returned when a TestConn method is called without a
// corresponding Func field set.
var ErrNotMocked = errors.New("oraclient.TestConn: method not mocked, set the corresponding Func field")

// TestDriver is a Driver for unit tests. Without NewConnFunc it hands out
// empty TestConns.
type TestDriver struct {
	NewConnFunc func(connString string) (Conn, error)
}

var _ Driver = (*TestDriver)(nil)

func (d *TestDriver) NewConn(connString string) (Conn, error) {
	if d.NewConnFunc != nil {
		return d.NewConnFunc(connString)
	}
	return &TestConn{}, nil
}

// TestConn is a Conn for unit tests. Open and Close succeed unless mocked;
// statements fail with ErrNotMocked unless mocked.
type TestConn struct {
	OpenFunc        func() error
	OpenContextFunc func(ctx context.Context) error
	ExecFunc        func(query string) error
	ExecContextFunc func(ctx context.Context, query string) error
	CloseFunc       func() error
}

var _ Conn = (*TestConn)(nil)

func (c *TestConn) Open() error {
	if c.OpenFunc != nil {
		return c.OpenFunc()
	}
	return nil
}

func (c *TestConn) OpenContext(ctx context.Context) error {
	if c.OpenContextFunc != nil {
		return c.OpenContextFunc(ctx)
	}
	return nil
}

func (c *TestConn) Exec(query string) error {
	if c.ExecFunc != nil {
		return c.ExecFunc(query)
	}
	return ErrNotMocked
}

func (c *TestConn) ExecContext(ctx context.Context, query string) error {
	if c.ExecContextFunc != nil {
		return c.ExecContextFunc(ctx, query)
	}
	return ErrNotMocked
}

func (c *TestConn) Close() error {
	if c.CloseFunc != nil {
		return c.CloseFunc()
	}
	return nil
}
