package main

import (
	"context"
	"fmt"
	"github.com/aurorasolar/go-oraclient/config"
	"github.com/aurorasolar/go-oraclient/oraclient"
	"github.com/aurorasolar/go-oraclient/sqldrv"
	"github.com/aurorasolar/go-oraclient/utils"
	"github.com/aurorasolar/go-oraclient/visibility"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/external"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"net/http"
	"os"
	"time"
)

var dialects = map[string]sqldrv.Dialect{
	"oracle":   sqldrv.Oracle,
	"postgres": sqldrv.Postgres,
	"sqlite":   sqldrv.Sqlite,
}

var loadAWSConfig = func() (aws.Config, error) {
	return external.LoadDefaultAWSConfig()
}

var makeLogger = func(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "oraping",
		Short:         "Build connection strings and check database connectivity",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := rootCmd.PersistentFlags()
	config.BindFlags(flags)
	flags.String("dialect", "oracle", "database dialect: oracle, postgres or sqlite")
	flags.BoolP("verbose", "v", false, "development logging at debug level")
	flags.Duration("timeout", 30*time.Second, "overall timeout")

	attrsCmd := &cobra.Command{
		Use:   "attrs",
		Short: "Print the connection string attributes, without credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFactory(cmd, func(ctx context.Context, env *pingEnv) error {
				attrs, err := env.factory.ConnectionStringAttributes()
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), attrs)
				return nil
			})
		},
	}

	pingCmd := &cobra.Command{
		Use:   "ping",
		Short: "Open a connection and run the check query",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFactory(cmd, func(ctx context.Context, env *pingEnv) error {
				query := utils.GetFlagS(cmd.Flags(), "query")
				if query == "" {
					query = env.dialect.PingQuery
				}
				return visibility.RunInstrumented(ctx, "Ping", env.sink, env.logger,
					func(ctx context.Context) error {
						return ping(ctx, cmd, env.factory, query)
					})
			})
		},
	}
	pingCmd.Flags().String("query", "",
		"query run on the new connection (default: the dialect's check query)")

	rootCmd.AddCommand(attrsCmd, pingCmd, utils.MakeCompletionCmd())
	return rootCmd
}

func ping(ctx context.Context, cmd *cobra.Command, f *oraclient.Factory, query string) error {
	start := time.Now()
	conn, err := f.OpenContext(ctx, func(ctx context.Context, conn oraclient.Conn) error {
		return conn.ExecContext(ctx, query)
	})
	if err != nil {
		return err
	}
	defer conn.Close()

	elapsed := time.Since(start)
	visibility.CL(ctx).Info("Connection is alive", zap.Duration("elapsed", elapsed))
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "alive in %s\n", elapsed)
	return nil
}

type pingEnv struct {
	dialect sqldrv.Dialect
	factory *oraclient.Factory
	logger  *zap.Logger
	sink    visibility.MetricsSink
}

// loadOptions reads flags over the environment over the config file, then
// resolves the AWS secret when one is named.
func loadOptions(ctx context.Context, cmd *cobra.Command) (oraclient.Options, error) {
	v, err := config.New(cmd.Flags())
	if err != nil {
		return oraclient.Options{}, err
	}
	opts, err := config.Load(v)
	if err != nil {
		return oraclient.Options{}, err
	}

	if secretID := config.SecretID(v); secretID != "" {
		awsConfig, err := loadAWSConfig()
		if err != nil {
			return oraclient.Options{}, err
		}
		if err := config.ResolveSecret(ctx, awsConfig, secretID, &opts); err != nil {
			return oraclient.Options{}, err
		}
	}
	return opts, nil
}

// makeSink reports to New Relic when a license key is present in the
// environment.
func makeSink(ctx context.Context) (visibility.MetricsSink, func()) {
	key := os.Getenv("NEW_RELIC_LICENSE_KEY")
	if key == "" {
		return visibility.NullSink, func() {}
	}
	sink := visibility.NewTelemetrySink(key, "oraping", os.Getenv("NEW_RELIC_ENV"),
		http.DefaultClient)
	return sink, func() { sink.SendMetrics(ctx) }
}

func withFactory(cmd *cobra.Command, fn func(ctx context.Context, env *pingEnv) error) error {
	flags := cmd.Flags()

	dialectName := utils.GetFlagS(flags, "dialect")
	dialect, ok := dialects[dialectName]
	if !ok {
		return fmt.Errorf("unknown dialect %q", dialectName)
	}

	logger, err := makeLogger(utils.GetFlagB(flags, "verbose"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	timeout, err := flags.GetDuration("timeout")
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	opts, err := loadOptions(ctx, cmd)
	if err != nil {
		return err
	}

	drv := sqldrv.New(dialect, logger)
	defer func() { _ = drv.Close() }()

	sink, flush := makeSink(ctx)
	defer flush()

	f, err := oraclient.NewFactory(drv, opts, oraclient.WithLogger(logger),
		oraclient.WithMetrics(sink))
	if err != nil {
		return err
	}
	return fn(ctx, &pingEnv{dialect: dialect, factory: f, logger: logger, sink: sink})
}
