// Package workflow persists and mutates per-user workflow instances.
//
// # Instances
//
// A Workflow is created from a catalog definition by Store.Initialize, with
// every step copied from its template in the not-started state. Only one
// instance per workflow id exists at a time; initializing again overwrites it.
//
// # Progress and completion
//
// Progress is derived, never set: after every step update it is the rounded
// percentage of completed steps. Skipped steps do not count. The first time
// progress reaches 100 the workflow is stamped completed, deactivated, and the
// completion handler runs on its own goroutine. CompletedAt never changes
// once set.
//
// # Failure tolerance
//
// The store is advisory. Read failures degrade to empty state, write failures
// are logged, and updates for unknown workflows or steps are logged no-ops.
// The only error surfaced to callers is ErrNotFound from Initialize.
//
// # Context bag
//
// SetContext/Context/ClearContext carry ad-hoc data between a step and the
// feature it navigates to. The bag is replaced as a whole on every write.
package workflow
