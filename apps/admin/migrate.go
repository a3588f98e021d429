package main

import (
	"github.com/jmoiron/sqlx"

	"github.com/jbmukiza/mahudhurio/storage/database"
)

// mockable
var (
	openDBFunc  = database.Open
	migrateFunc = database.RunMigrationCommand
)

func (cli *commandLine) migrate(args []string) error {
	command := "up"
	if len(args) > 0 {
		command = args[0]
		args = args[1:]
	}

	db, err := openDBFunc(cli.conf)
	if err != nil {
		return err
	}
	defer func(db *sqlx.DB) { _ = db.Close() }(db)

	return migrateFunc(db, command, args...)
}
