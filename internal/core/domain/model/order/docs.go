// Package order contains the order aggregate and its value objects.
//
// The aggregate root Order owns a sequence of immutable Items, a Status that
// moves along a fixed lifecycle graph, and a derived total that is always the
// exact sum of quantity × unit price over the items. HistoryEntry records one
// immutable audit row per accepted status transition.
//
// The package is pure computation: it performs no I/O and holds no locks.
// Concurrency control lives at the persistence boundary, where status changes
// are applied with an atomic compare-and-update.
package order
