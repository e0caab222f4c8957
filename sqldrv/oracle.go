package sqldrv

import (
	"github.com/aurorasolar/go-oraclient/oraclient"
	_ "github.com/godror/godror"
	"go.uber.org/zap"
	"strconv"
	"strings"
	"time"
)

// Oracle talks to Oracle Database through godror. Pool settings are handed to
// the godror session pool.
var Oracle = Dialect{
	Name:          "godror",
	DSN:           godrorDSN,
	PingQuery:     "SELECT 1 FROM DUAL",
	NativePooling: true,
}

var godrorPoolParams = []struct {
	key, param string
}{
	{oraclient.KeyMinPoolSize, "poolMinSessions"},
	{oraclient.KeyMaxPoolSize, "poolMaxSessions"},
	{oraclient.KeyIncrPoolSize, "poolIncrement"},
}

var godrorDurationParams = []struct {
	key, param string
}{
	{oraclient.KeyConnectionLifeTime, "poolSessionMaxLifetime"},
	{oraclient.KeyConnectionTimeout, "poolWaitTimeout"},
}

// godrorDSN renders the logfmt-style parameters godror parses, e.g.
// user="scott" password="tiger" connectString="ORCL" poolMaxSessions=10
func godrorDSN(attrs oraclient.Attributes, logger *zap.Logger) (string, error) {
	var parts []string

	if user, _ := attrs.Get(oraclient.KeyUserID); user != "" {
		parts = append(parts, "user="+strconv.Quote(user))
	}
	if pwd, _ := attrs.Get(oraclient.KeyPassword); pwd != "" {
		parts = append(parts, "password="+strconv.Quote(pwd))
	}
	ds, _ := attrs.Get(oraclient.KeyDataSource)
	parts = append(parts, "connectString="+strconv.Quote(ds))

	pooling, err := attrs.Bool(oraclient.KeyPooling)
	if err != nil {
		return "", err
	}
	if pooling != nil && !*pooling {
		parts = append(parts, "standaloneConnection=1")
	}

	for _, p := range godrorPoolParams {
		val, err := attrs.Int(p.key)
		if err != nil {
			return "", err
		}
		if val != nil {
			parts = append(parts, p.param+"="+strconv.Itoa(*val))
		}
	}

	for _, p := range godrorDurationParams {
		val, err := attrs.Int(p.key)
		if err != nil {
			return "", err
		}
		if val != nil {
			dur := time.Duration(*val) * time.Second
			parts = append(parts, p.param+"="+dur.String())
		}
	}

	if _, ok := attrs.Get(oraclient.KeyDecrPoolSize); ok {
		logger.Debug("godror has no pool decrement setting, ignoring it",
			zap.String("attribute", oraclient.KeyDecrPoolSize))
	}

	return strings.Join(parts, " "), nil
}
