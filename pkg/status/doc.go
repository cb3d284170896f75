/*
Package status owns per-file refactor state, filesystem access and progress
reporting for vue3-migrate.

	            +-------------+
	            |   Engine    |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+-----+
	|   Files   |           | Reporter |
	| (Storage) |           | (UI/UX)  |
	+-----------+           +----------+

🔄 Per-file state machine:

	PENDING → LOCATING → REQUESTING → REWRITING → WRITTEN
	   │           │            │            │
	   └→ SKIPPED  └────────────┴────────────┴→ FAILED

SKIPPED is decided before the source is read, so a rerun over a directory
that was already converted issues no completion requests.

🤝 Interfaces:
  - FileManager: read, existence checks and atomic writes
  - Reporter: batch progress and per-file outcome tracking
  - FileFormatter: status message formatting

🔍 Example:

	mgr := status.New("", &logger).WithConsole(console)

	// File operations
	ok, err := mgr.FileExists(ctx, "App_refactored.vue")
	err = mgr.WriteFileAtomic(ctx, "App_refactored.vue", content)

	// Progress reporting
	mgr.StartOperation(ctx, total)
	mgr.TrackOutcome(ctx, outcome)
	mgr.FinishOperation(ctx)
*/
package status
