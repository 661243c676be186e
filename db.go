package main

import (
	"database/sql"
	"log"
	"os"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// openStore connects to Postgres when DATABASE_URL is set; otherwise it
// falls back to the in-memory store so the service can run locally without
// a database. The schema itself is managed outside this service.
func openStore() Store {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		log.Default().Println("Warning: DATABASE_URL not set, using in-memory store")
		return NewMemStore()
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Error connecting to the database:", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatal("Cannot reach the database:", err)
	}
	log.Default().Println("Database connection established successfully")

	return NewPGStore(db)
}
