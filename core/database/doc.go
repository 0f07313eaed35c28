// Package database handles database connections.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly configure
// MySQL and SQLite connections based on the application's configuration.
//
// # Connect
//
// The Connect function establishes a connection for the configured driver. It is agnostic
// to the domain schema: feature packages own their models and migrations, this package
// only hands them a ready connection with sane pool settings.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
