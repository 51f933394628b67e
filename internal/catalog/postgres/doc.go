// Package postgres implements catalog.Store on PostgreSQL with pgx.
//
// Queries are composed with squirrel. The filter builders in query.go are
// pure so the generated SQL can be tested without a database.
package postgres
