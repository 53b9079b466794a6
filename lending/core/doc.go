// Package core contains the domain model for loan circulation in a lending catalog:
// items with scarce copies, borrowers with loan limits and the loans between them.
//
// Loans are plain snapshots. State transitions are decided by the pure Decide functions in the
// features packages, which return a DecisionResult carrying the new snapshot, the inventory effect
// and the domain event to publish, or a typed Rejection.
//
// "Overdue" is never stored. It is derived from the calendar with Loan.IsOverdue.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package core
