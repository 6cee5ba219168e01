// Package application wires resolved settings into running infrastructure.
// It opens the database, builds the metrics registry, handlers and router,
// and creates the HTTP server, leaving the main package to CLI parsing and
// orchestration.
package application
