package main

import "github.com/jbmukiza/mahudhurio/storage/database"

var createDBFunc = database.CreateIfNotExist // mockable

func (cli *commandLine) createDB() error {
	return createDBFunc(cli.conf)
}
