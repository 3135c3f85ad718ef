// Package journal persists recording history in SQLite so completed and
// failed sessions survive daemon restarts and can be inspected from the CLI.
package journal
