// Package store provides the asynchronous key-value persistence
// capability the guide's stateful components are built on.
//
// Two backends are included:
//
//   - [MemoryStore]: process-local map, the default and the test double
//   - [BoltStore]: durable single-file backend (bbolt)
//
// Both satisfy [Store]; consumers never depend on a concrete backend.
//
// Package-level helpers layer common policies over any Store:
// JSON encoding ([GetJSON]/[SetJSON]), expiring entries
// ([SetWithTTL]/[GetWithTTL]/[CleanupExpired]) and whole-store backup
// ([Export]/[Import]).
//
// # Error policy
//
// A missing key is [ErrNotFound]. Consumers of the capability treat
// storage failures as degradation, not fatal errors: a collection that
// cannot load yields zero items, history that cannot persist keeps
// working in memory for the session.
package store
