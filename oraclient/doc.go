// Package oraclient opens database connections from structured options.
//
// Options describe the data source, pool tuning hints passed verbatim to the
// driver, credentials, a default session schema and an optional hook that
// runs after every successful open. A Factory turns Options into two
// memoized connection strings (attributes only, and attributes with
// credentials) and opens connections through a Driver.
//
// The Factory owns no pool, retry loop or background work. Pooling, network
// I/O and authentication are the driver's business; see package sqldrv for
// database/sql backed drivers.
//
// Setting Options.TnsnamesFile publishes the file's directory as TNS_ADMIN in
// the process environment. The environment is process-wide: factories with
// different TnsnamesFile values in one process overwrite each other and the
// last one to build its connection string wins.
package oraclient
