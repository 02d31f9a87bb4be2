package db

import (
	"database/sql"
)

// Database is the connection lifecycle owned by main; everything else takes
// the raw *sql.DB.
type Database interface {
	Connect() error
	Close() error
	DB() *sql.DB
}
