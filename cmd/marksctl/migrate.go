package main

import (
	"fmt"

	"github.com/KedarDamale/MarksMania/pkg/database"
)

var (
	migrateUpFunc   = database.RunMigrations      // mockable
	migrateDownFunc = database.RollbackMigrations // mockable
)

func (cli *commandLine) migrate(command string, steps int) error {
	switch command {
	case "up":
		return migrateUpFunc(cli.db, cli.logger)
	case "down":
		return migrateDownFunc(cli.db, steps, cli.logger)
	default:
		return fmt.Errorf("%q: no such command", command)
	}
}
