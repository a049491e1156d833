// Package journal keeps a SQLite history of router lifecycle operations.
package journal
