package db

// Database combines the SQL registry and the NoSQL snapshot archive behind
// one interface so call sites can hold a single handle
type Database interface {
	SQLDatabase
	NoSQLDatabase
}
