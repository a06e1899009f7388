// Package repositories provides the SQLite persistence layer backing the session store.
package repositories
