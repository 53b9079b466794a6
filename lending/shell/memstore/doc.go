// Package memstore provides in-memory implementations of the circulation ports: a catalog of items,
// a borrower directory and a loan repository. All of them are safe for concurrent use and are used by
// the memory backend of the service, the load generator and the tests.
package memstore
