// Package database opens the GORM connection backing the operation journal.
//
// Connect supports MySQL for shared deployments and SQLite for local runs
// and tests. TableColumns and MissingColumns inspect a table so callers can
// verify a migrated schema.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	missing, err := database.MissingColumns(db, "storage_events", []string{"op", "bucket"})
package database
