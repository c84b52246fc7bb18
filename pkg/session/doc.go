/*
Package session orchestrates edits of stored designs.

A Manager loads a design into a designer, applies a mutation and saves the
result while holding a per-design lock, so concurrent editors of the same design
never lose each other's changes. An optional DistributedLocker extends the lock
across replicas sharing one store.
*/
package session
