package oraclient

import (
	"context"
)

// SetCurrentSchema sets the session schema of an open connection.
func SetCurrentSchema(conn Conn, schema string) error {
	stmt, err := currentSchemaStatement(conn, schema)
	if err != nil {
		return err
	}
	return conn.Exec(stmt)
}

// SetCurrentSchemaContext is SetCurrentSchema honoring ctx.
func SetCurrentSchemaContext(ctx context.Context, conn Conn, schema string) error {
	stmt, err := currentSchemaStatement(conn, schema)
	if err != nil {
		return err
	}
	return conn.ExecContext(ctx, stmt)
}

func currentSchemaStatement(conn Conn, schema string) (string, error) {
	if schema == "" {
		return "", &ValidationError{Field: "schema", Reason: "must not be empty"}
	}
	if ss, ok := conn.(SchemaStatementer); ok {
		if stmt := ss.CurrentSchemaStatement(schema); stmt != "" {
			return stmt, nil
		}
	}
	return "ALTER SESSION SET CURRENT_SCHEMA = " + schema, nil
}
