package oraclient

import (
	"context"
	"fmt"
	"github.com/aurorasolar/go-oraclient/utils"
	"github.com/aurorasolar/go-oraclient/visibility"
	"go.uber.org/zap"
	"os"
	"path/filepath"
	"sync"
)

const (
	TnsAdminEnv = "TNS_ADMIN"

	metricsOpName = "OracleConnect"
)

type FactoryOption func(*Factory)

// WithLogger sets the logger used by the factory and handed to open hooks
// through their context. A nil logger disables logging.
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		if logger == nil {
			logger = zap.NewNop()
		}
		f.logger = logger
	}
}

// WithMetrics sets the sink receiving per-open metrics.
func WithMetrics(sink visibility.MetricsSink) FactoryOption {
	return func(f *Factory) {
		if sink == nil {
			sink = visibility.NullSink
		}
		f.metrics = sink
	}
}

// Factory builds connection strings from Options and opens connections
// through a Driver. It is safe for concurrent use.
type Factory struct {
	opts    Options
	drv     Driver
	logger  *zap.Logger
	metrics visibility.MetricsSink

	setenv    func(key, value string) error
	lookupEnv func(key string) (string, bool)

	attrsOnce sync.Once
	attrs     string
	attrsErr  error

	credOnce sync.Once
	cred     string
	credErr  error
}

var _ ConnectionFactory = (*Factory)(nil)

// NewFactory validates opts and returns a factory holding a private copy of
// them.
func NewFactory(drv Driver, opts Options, fopts ...FactoryOption) (*Factory, error) {
	if drv == nil {
		return nil, &ValidationError{Field: "driver", Reason: "must not be nil"}
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	f := &Factory{
		opts:      opts.clone(),
		drv:       drv,
		logger:    zap.NewNop(),
		metrics:   visibility.NullSink,
		setenv:    os.Setenv,
		lookupEnv: os.LookupEnv,
	}
	for _, o := range fopts {
		if o != nil {
			o(f)
		}
	}
	return f, nil
}

// Build creates a factory from options filled in by configure, which may
// consult other services (secret stores, the environment) and fail.
func Build(drv Driver, configure func(*Options) error,
	fopts ...FactoryOption) (*Factory, error) {

	var opts Options
	if configure != nil {
		if err := configure(&opts); err != nil {
			return nil, err
		}
	}
	return NewFactory(drv, opts, fopts...)
}

// Options returns a copy of the factory configuration.
func (f *Factory) Options() Options {
	return f.opts.clone()
}

// ConnectionStringAttributes returns the credential-free connection string.
// It is computed once; the first call also publishes TNS_ADMIN when a
// tnsnames file is configured.
func (f *Factory) ConnectionStringAttributes() (string, error) {
	f.attrsOnce.Do(func() {
		f.attrs, f.attrsErr = f.buildAttributes()
	})
	return f.attrs, f.attrsErr
}

// ConnectionString returns the connection string with the configured
// credentials. It is computed once.
func (f *Factory) ConnectionString() (string, error) {
	f.credOnce.Do(func() {
		f.cred, f.credErr = f.CredentialString(f.opts.UserName, f.opts.Password)
	})
	return f.cred, f.credErr
}

// CredentialString returns the connection string for explicit credentials.
// The result is not cached.
func (f *Factory) CredentialString(userName, password string) (string, error) {
	attrs, err := f.ConnectionStringAttributes()
	if err != nil {
		return "", err
	}
	return credentialAttributes(userName, password).String() + ";" + attrs, nil
}

func (f *Factory) buildAttributes() (string, error) {
	if f.opts.TnsnamesFile != "" {
		if err := f.publishTnsAdmin(); err != nil {
			return "", err
		}
	}

	if err := f.opts.Validate(); err != nil {
		return "", err
	}

	res := optionAttributes(&f.opts).String()
	f.logger.Debug("Oracle connection string", zap.String("attributes", res))
	return res, nil
}

// The tnsnames.ora lookup order of the Oracle client starts with the
// directory named by TNS_ADMIN.
func (f *Factory) publishTnsAdmin() error {
	path, err := filepath.Abs(f.opts.TnsnamesFile)
	if err != nil {
		return &ValidationError{Field: "TnsnamesFile", Reason: err.Error()}
	}
	dir := filepath.Dir(path)

	if prev, ok := f.lookupEnv(TnsAdminEnv); ok && prev != dir {
		f.logger.Warn("Overriding TNS_ADMIN set elsewhere in the process",
			zap.String("previous", prev), zap.String("tns_admin", dir))
	}
	if err := f.setenv(TnsAdminEnv, dir); err != nil {
		return fmt.Errorf("oraclient: failed to set %s: %w", TnsAdminEnv, err)
	}

	f.logger.Debug("Published TNS_ADMIN", zap.String("tns_admin", dir))
	return nil
}

// Open opens a connection with the configured credentials, blocking until
// the driver is done.
func (f *Factory) Open(hook OpenHook) (Conn, error) {
	connString, err := f.ConnectionString()
	if err != nil {
		return nil, err
	}
	return f.open(context.Background(), connString, hook, false)
}

// OpenContext opens a connection with the configured credentials. A
// cancelled ctx aborts the attempt.
func (f *Factory) OpenContext(ctx context.Context, hook OpenHook) (Conn, error) {
	connString, err := f.ConnectionString()
	if err != nil {
		return nil, err
	}
	return f.open(ctx, connString, hook, true)
}

// OpenAs opens a connection with explicit credentials.
func (f *Factory) OpenAs(userName, password string, hook OpenHook) (Conn, error) {
	connString, err := f.CredentialString(userName, password)
	if err != nil {
		return nil, err
	}
	return f.open(context.Background(), connString, hook, false)
}

// OpenAsContext opens a connection with explicit credentials, honoring ctx.
func (f *Factory) OpenAsContext(ctx context.Context, userName, password string,
	hook OpenHook) (Conn, error) {

	connString, err := f.CredentialString(userName, password)
	if err != nil {
		return nil, err
	}
	return f.open(ctx, connString, hook, true)
}

func (f *Factory) open(ctx context.Context, connString string, hook OpenHook,
	withContext bool) (Conn, error) {

	// Already memoized by the time a connection string exists
	attrs, _ := f.ConnectionStringAttributes()

	met := visibility.NewMetricsContext(metricsOpName)
	defer f.metrics.SubmitSegmentMetrics(met)
	bench := met.Benchmark("OpenDuration")
	defer bench.Done()

	conn, err := f.drv.NewConn(connString)
	if err != nil {
		return nil, f.openFailed(met, attrs, err)
	}

	cl := utils.NewCleanupErr(conn.Close)
	defer func() {
		if cerr := cl.Cleanup(); cerr != nil {
			f.logger.Warn("Failed to release the connection after a failed open",
				zap.String("attributes", attrs), zap.Error(cerr))
		}
	}()

	hookCtx := visibility.ImbueContext(ctx, f.logger)
	if withContext {
		err = f.openWithContext(hookCtx, conn, hook)
	} else {
		err = f.openBlocking(hookCtx, conn, hook)
	}
	if err != nil {
		return nil, f.openFailed(met, attrs, err)
	}

	cl.Disarm()
	met.AddCount("Opened", 1)
	return conn, nil
}

func (f *Factory) openBlocking(ctx context.Context, conn Conn, hook OpenHook) error {
	if err := conn.Open(); err != nil {
		return err
	}
	return f.runOpenHooks(ctx, conn, hook, false)
}

func (f *Factory) openWithContext(ctx context.Context, conn Conn, hook OpenHook) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := conn.OpenContext(ctx); err != nil {
		return err
	}
	if err := f.runOpenHooks(ctx, conn, hook, true); err != nil {
		return err
	}
	// The driver may have finished just as ctx was cancelled
	return ctx.Err()
}

// runOpenHooks applies the default schema, then the configured hook, then
// the per-call hook.
func (f *Factory) runOpenHooks(ctx context.Context, conn Conn, hook OpenHook,
	withContext bool) error {

	if f.opts.DefaultSchema != "" {
		var err error
		if withContext {
			err = SetCurrentSchemaContext(ctx, conn, f.opts.DefaultSchema)
		} else {
			err = SetCurrentSchema(conn, f.opts.DefaultSchema)
		}
		if err != nil {
			return err
		}
	}

	if f.opts.ConnectionOpen != nil {
		if err := f.opts.ConnectionOpen(ctx, conn); err != nil {
			return err
		}
	}

	if hook != nil {
		return hook(ctx, conn)
	}
	return nil
}

func (f *Factory) openFailed(met *visibility.MetricsContext, attrs string, err error) error {
	met.AddCount("OpenFailed", 1)
	f.logger.Error("Failed to open Oracle connection",
		zap.String("attributes", attrs), zap.Error(err))
	return &OpenError{Attributes: attrs, cause: err}
}
