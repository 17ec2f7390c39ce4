package models

import (
	"log"

	"bitbucket.org/mmdatafocus/sitework_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Employee{}, &Project{},
		&DailySignIn{},
		&TimeEntry{}, &Timesheet{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
