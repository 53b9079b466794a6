// Package shell holds the imperative side of the circulation service: the ports the coordinator consumes
// (catalog, borrower directory, loan repository, notification sink), shared observability helpers,
// retry with exponential backoff for outbound delivery, and the mapping of domain events to storable
// records.
//
// Sub-packages provide the coordinator itself and the adapters plugged into these ports.
package shell
