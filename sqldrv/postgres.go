package sqldrv

import (
	"github.com/aurorasolar/go-oraclient/oraclient"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"net"
	"strconv"
	"strings"
)

// Postgres talks to PostgreSQL through pgx. The data source uses the
// easy-connect shape host[:port]/dbname. The session schema is the
// search_path.
var Postgres = Dialect{
	Name:            "pgx",
	DSN:             pgxDSN,
	PingQuery:       "SELECT 1",
	SchemaStatement: postgresSchemaStatement,
}

func postgresSchemaStatement(schema string) string {
	return "SET search_path TO " + pq.QuoteIdentifier(schema)
}

func pgxDSN(attrs oraclient.Attributes, logger *zap.Logger) (string, error) {
	ds, _ := attrs.Get(oraclient.KeyDataSource)

	hostPort, dbName := ds, ""
	if slash := strings.IndexByte(ds, '/'); slash >= 0 {
		hostPort, dbName = ds[:slash], ds[slash+1:]
	}

	host, port := hostPort, ""
	if strings.Contains(hostPort, ":") {
		var err error
		host, port, err = net.SplitHostPort(hostPort)
		if err != nil {
			return "", &oraclient.ValidationError{Field: oraclient.KeyDataSource,
				Reason: "expected host[:port]/dbname"}
		}
	}
	if host == "" {
		return "", &oraclient.ValidationError{Field: oraclient.KeyDataSource,
			Reason: "expected host[:port]/dbname"}
	}

	params := [][2]string{{"host", host}}
	if port != "" {
		params = append(params, [2]string{"port", port})
	}
	if dbName != "" {
		params = append(params, [2]string{"dbname", dbName})
	}
	if user, _ := attrs.Get(oraclient.KeyUserID); user != "" {
		params = append(params, [2]string{"user", user})
	}
	if pwd, _ := attrs.Get(oraclient.KeyPassword); pwd != "" {
		params = append(params, [2]string{"password", pwd})
	}

	timeout, err := attrs.Int(oraclient.KeyConnectionTimeout)
	if err != nil {
		return "", err
	}
	if timeout != nil {
		params = append(params, [2]string{"connect_timeout", strconv.Itoa(*timeout)})
	}

	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p[0]+"="+quotePgValue(p[1]))
	}
	return strings.Join(parts, " "), nil
}

// quotePgValue quotes a keyword/value connection parameter when needed.
func quotePgValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
