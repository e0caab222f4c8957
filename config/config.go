// Package config loads oraclient.Options from command-line flags, ORACLE_*
// environment variables, an optional configuration file and AWS Secrets
// Manager.
package config

import (
	"fmt"
	"github.com/aurorasolar/go-oraclient/oraclient"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"strings"
)

const (
	FlagConfig             = "config"
	FlagDataSource         = "data-source"
	FlagTnsnamesFile       = "tnsnames-file"
	FlagDefaultSchema      = "default-schema"
	FlagPooling            = "pooling"
	FlagMinPoolSize        = "min-pool-size"
	FlagMaxPoolSize        = "max-pool-size"
	FlagIncrPoolSize       = "incr-pool-size"
	FlagDecrPoolSize       = "decr-pool-size"
	FlagConnectionLifetime = "connection-lifetime"
	FlagConnectionTimeout  = "connection-timeout"
	FlagUser               = "user"
	FlagPassword           = "password"
	FlagSecretID           = "secret-id"

	EnvPrefix = "ORACLE"
)

type stringField struct {
	key, usage string
	ref        func(o *oraclient.Options) *string
}

type intField struct {
	key, usage string
	ref        func(o *oraclient.Options) **int
}

var stringFields = []stringField{
	{FlagDataSource, "TNS alias, easy-connect string or descriptor",
		func(o *oraclient.Options) *string { return &o.DataSource }},
	{FlagTnsnamesFile, "path to tnsnames.ora, exported as TNS_ADMIN",
		func(o *oraclient.Options) *string { return &o.TnsnamesFile }},
	{FlagDefaultSchema, "session schema set after every open",
		func(o *oraclient.Options) *string { return &o.DefaultSchema }},
	{FlagUser, "user name",
		func(o *oraclient.Options) *string { return &o.UserName }},
	{FlagPassword, "password",
		func(o *oraclient.Options) *string { return &o.Password }},
}

var intFields = []intField{
	{FlagMinPoolSize, "minimum pool size",
		func(o *oraclient.Options) **int { return &o.MinPoolSize }},
	{FlagMaxPoolSize, "maximum pool size",
		func(o *oraclient.Options) **int { return &o.MaxPoolSize }},
	{FlagIncrPoolSize, "connections added when the pool grows",
		func(o *oraclient.Options) **int { return &o.IncrPoolSize }},
	{FlagDecrPoolSize, "connections removed when the pool shrinks",
		func(o *oraclient.Options) **int { return &o.DecrPoolSize }},
	{FlagConnectionLifetime, "connection lifetime in seconds",
		func(o *oraclient.Options) **int { return &o.ConnectionLifeTime }},
	{FlagConnectionTimeout, "connection timeout in seconds",
		func(o *oraclient.Options) **int { return &o.ConnectionTimeout }},
}

// BindFlags registers the connection flags on fs.
func BindFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "configuration file (yaml, json or toml)")
	for _, f := range stringFields {
		fs.String(f.key, "", f.usage)
	}
	fs.Bool(FlagPooling, true, "enable connection pooling")
	for _, f := range intFields {
		fs.Int(f.key, 0, f.usage)
	}
	fs.String(FlagSecretID, "", "AWS Secrets Manager secret holding the credentials")
}

// EnvName returns the environment variable read for a flag, e.g.
// ORACLE_DATA_SOURCE for --data-source.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// New layers the flags registered by BindFlags over the ORACLE_* environment,
// over the configuration file named by --config or ORACLE_CONFIG.
func New(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	if path := v.GetString(FlagConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	return v, nil
}

// Load builds Options from v. Keys not set in any layer stay unset, so the
// flag defaults never reach the connection string.
func Load(v *viper.Viper) (oraclient.Options, error) {
	var res oraclient.Options

	for _, f := range stringFields {
		if v.IsSet(f.key) {
			*f.ref(&res) = v.GetString(f.key)
		}
	}

	if v.IsSet(FlagPooling) {
		val, err := cast.ToBoolE(v.Get(FlagPooling))
		if err != nil {
			return oraclient.Options{}, malformed(FlagPooling, "a boolean", v.Get(FlagPooling))
		}
		res.Pooling = &val
	}

	for _, f := range intFields {
		if !v.IsSet(f.key) {
			continue
		}
		val, err := cast.ToIntE(v.Get(f.key))
		if err != nil {
			return oraclient.Options{}, malformed(f.key, "an integer", v.Get(f.key))
		}
		*f.ref(&res) = &val
	}

	return res, nil
}

// SecretID returns the secret named by --secret-id or ORACLE_SECRET_ID.
func SecretID(v *viper.Viper) string {
	return v.GetString(FlagSecretID)
}

func malformed(key, kind string, val interface{}) error {
	return &oraclient.ValidationError{Field: key,
		Reason: fmt.Sprintf("%v is not %s (--%s or %s)", val, kind, key, EnvName(key))}
}
