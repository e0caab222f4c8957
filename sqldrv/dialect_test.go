package sqldrv

import (
	"github.com/aurorasolar/go-oraclient/oraclient"
	"github.com/aurorasolar/go-oraclient/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"path/filepath"
	"testing"
)

func parse(t *testing.T, s string) oraclient.Attributes {
	attrs, err := oraclient.ParseAttributes(s)
	require.NoError(t, err)
	return attrs
}

func TestGodrorDSN(t *testing.T) {
	sink, logger := utils.NewMemorySinkLogger()

	dsn, err := godrorDSN(parse(t, "User Id=scott;Password=\"ti;ger\";"+
		"Data Source=db.example.com:1521/ORCL;Pooling=False;Min Pool Size=2;"+
		"Max Pool Size=10;Incr Pool Size=1;Decr Pool Size=3;"+
		"Connection Lifetime=60;Connection Timeout=15"), logger)
	require.NoError(t, err)
	assert.Equal(t, `user="scott" password="ti;ger" `+
		`connectString="db.example.com:1521/ORCL" standaloneConnection=1 `+
		`poolMinSessions=2 poolMaxSessions=10 poolIncrement=1 `+
		`poolSessionMaxLifetime=1m0s poolWaitTimeout=15s`, dsn)
	assert.Contains(t, sink.String(), "Decr Pool Size")

	dsn, err = godrorDSN(parse(t, "Data Source=ORCL;Pooling=True"), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, `connectString="ORCL"`, dsn)

	_, err = godrorDSN(parse(t, "Data Source=ORCL;Pooling=maybe"), zap.NewNop())
	assert.Error(t, err)
	_, err = godrorDSN(parse(t, "Data Source=ORCL;Connection Timeout=soon"), zap.NewNop())
	assert.Error(t, err)
}

func TestPgxDSN(t *testing.T) {
	dsn, err := pgxDSN(parse(t, "User Id=solar;Password=it's secret;"+
		"Data Source=pg.example.com:5433/designs;Connection Timeout=5"), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, `host=pg.example.com port=5433 dbname=designs user=solar `+
		`password='it\'s secret' connect_timeout=5`, dsn)

	dsn, err = pgxDSN(parse(t, "Data Source=localhost"), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "host=localhost", dsn)

	dsn, err = pgxDSN(parse(t, "Data Source=[::1]:5432/db"), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "host=::1 port=5432 dbname=db", dsn)

	for _, bad := range []string{"Data Source=/designs", "Data Source=a:b:c/db"} {
		_, err = pgxDSN(parse(t, bad), zap.NewNop())
		var valErr *oraclient.ValidationError
		assert.ErrorAs(t, err, &valErr, bad)
	}
}

func TestQuotePgValue(t *testing.T) {
	assert.Equal(t, "plain", quotePgValue("plain"))
	assert.Equal(t, "''", quotePgValue(""))
	assert.Equal(t, `'a b'`, quotePgValue("a b"))
	assert.Equal(t, `'c:\\tmp'`, quotePgValue(`c:\tmp`))
}

func TestSqliteDSN(t *testing.T) {
	dsn, err := sqliteDSN(parse(t, "Data Source=/tmp/x.db"), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", dsn)

	dsn, err = sqliteDSN(parse(t, "Data Source=/tmp/x.db;Connection Timeout=2"), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db?_busy_timeout=2000", dsn)
}

func TestSchemaStatements(t *testing.T) {
	conn, err := New(Postgres, nil).NewConn("Data Source=localhost/db")
	require.NoError(t, err)
	assert.Equal(t, `SET search_path TO "Solar"`,
		conn.(*Conn).CurrentSchemaStatement("Solar"))
	assert.Equal(t, `SET search_path TO "a""b"`,
		conn.(*Conn).CurrentSchemaStatement(`a"b`))

	conn, err = New(Oracle, nil).NewConn("Data Source=ORCL")
	require.NoError(t, err)
	assert.Equal(t, "", conn.(*Conn).CurrentSchemaStatement("SOLAR"))
}

func TestPingQueries(t *testing.T) {
	assert.Equal(t, "SELECT 1 FROM DUAL", Oracle.PingQuery)
	for _, d := range []Dialect{Postgres, Sqlite} {
		assert.Equal(t, "SELECT 1", d.PingQuery, d.Name)
	}

	// The check query runs on a real SQLite connection
	conn, err := New(Sqlite, nil).NewConn("Data Source=" +
		filepath.Join(t.TempDir(), "ping.db"))
	require.NoError(t, err)
	require.NoError(t, conn.Open())
	defer conn.Close()
	assert.NoError(t, conn.Exec(Sqlite.PingQuery))
}
