package oraclient

import (
	"context"
)

// OpenHook runs right after a connection has been opened and its session
// schema set. Returning an error fails the open.
type OpenHook func(ctx context.Context, conn Conn) error

// Options configures a Factory. Optional numeric and boolean settings are
// pointers: nil leaves the driver's own default in effect.
type Options struct {
	// DataSource is the target identity: a TNS alias, an easy-connect
	// string or a full descriptor. Required.
	DataSource string

	// TnsnamesFile is the path to a tnsnames.ora file. Its directory is
	// exported as TNS_ADMIN before the connection string is built.
	TnsnamesFile string

	// DefaultSchema is set as the session schema after every open.
	DefaultSchema string

	Pooling      *bool
	MinPoolSize  *int
	MaxPoolSize  *int
	IncrPoolSize *int
	DecrPoolSize *int

	// ConnectionLifeTime and ConnectionTimeout are in seconds.
	ConnectionLifeTime *int
	ConnectionTimeout  *int

	UserName string
	Password string

	ConnectionOpen OpenHook
}

func Bool(v bool) *bool {
	return &v
}

func Int(v int) *int {
	return &v
}

// Validate checks the required fields.
func (o *Options) Validate() error {
	if o.DataSource == "" {
		return &ValidationError{Field: "DataSource", Reason: "must not be empty"}
	}
	return nil
}

// clone copies the options, including the targets of pointer fields, so the
// copy is unaffected by later changes to the original.
func (o Options) clone() Options {
	res := o
	res.Pooling = cloneBool(o.Pooling)
	res.MinPoolSize = cloneInt(o.MinPoolSize)
	res.MaxPoolSize = cloneInt(o.MaxPoolSize)
	res.IncrPoolSize = cloneInt(o.IncrPoolSize)
	res.DecrPoolSize = cloneInt(o.DecrPoolSize)
	res.ConnectionLifeTime = cloneInt(o.ConnectionLifeTime)
	res.ConnectionTimeout = cloneInt(o.ConnectionTimeout)
	return res
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	return Bool(*v)
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	return Int(*v)
}
