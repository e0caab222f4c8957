package sqldrv

import (
	"github.com/aurorasolar/go-oraclient/oraclient"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"strconv"
)

// Sqlite opens local SQLite files, handy for development and tests. The data
// source is the database file path; SQLite has no session schema.
var Sqlite = Dialect{
	Name:      "sqlite3",
	DSN:       sqliteDSN,
	PingQuery: "SELECT 1",
}

func sqliteDSN(attrs oraclient.Attributes, logger *zap.Logger) (string, error) {
	path, _ := attrs.Get(oraclient.KeyDataSource)

	timeout, err := attrs.Int(oraclient.KeyConnectionTimeout)
	if err != nil {
		return "", err
	}
	if timeout == nil {
		return path, nil
	}
	return path + "?_busy_timeout=" + strconv.Itoa(*timeout*1000), nil
}
