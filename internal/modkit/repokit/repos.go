// Package repokit holds the store seams repositories bind to
package repokit

import "usagereport/internal/platform/store"

// Queryer is the read and write surface a repo runs statements on
type Queryer = store.RowQuerier

// TxRunner can execute a function inside a transaction
type TxRunner = store.TxRunner

type (
	// Rows are the result set of a query
	Rows = store.Rows

	// Row is a single row result
	Row = store.Row

	// CommandTag is the result of a statement that modifies data
	CommandTag = store.CommandTag
)
