package main

import (
	"log"

	"fportal/config"
	"fportal/database"
	"fportal/policy"
)

// Standalone full-corpus repair for the course/user mirror tables. Run it
// after bulk imports or whenever the "my courses" views look stale:
//
//	go run ./scripts
func main() {
	config.LoadConfig()
	database.ConnectDb()

	report, err := policy.ReconcileAll(database.Database.Db)
	if err != nil {
		log.Fatalf("Reconciliation failed: %v", err)
	}

	log.Printf("Checked %d courses", report.CoursesChecked)
	log.Printf("Fixed %d courses", report.CoursesFixed)
	log.Printf("Fixed %d users", report.UsersFixed)
	log.Printf("Restored %d relationships", report.RelationshipsFixed)
}
