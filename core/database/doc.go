// Package database provides the Postgres connection layer.
//
// It wraps GORM with the pgx-backed postgres driver and applies sane
// connection pool defaults. All canonical records store instants in UTC,
// so the session timezone is pinned to UTC at connect time.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
package database
