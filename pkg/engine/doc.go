/*
Package engine implements the batch refactor engine of vue3-migrate.

	+-----------+     +-----------+     +------------+     +-----------+
	| Discover  | --> |  Locate   | --> |  Complete  | --> |  Splice   |
	| (globs)   |     | (fragment)|     | (service)  |     |  + write  |
	+-----------+     +-----------+     +------------+     +-----------+
	                                                             |
	                                                       +-----+-----+
	                                                       |  Records  |
	                                                       +-----------+

🎯 Purpose:
- Runs one file through PENDING → LOCATING → REQUESTING → REWRITING → WRITTEN
- Folds a directory into an ordered list of tagged outcomes
- Keeps at most one completion request in flight

🔄 Batch flow:
1. Discover lists every .vue file below the directory, minus generated outputs and ignores
2. Each file is refactored in order; a failure is logged and recorded
3. The configured delay is waited after every file but the last
4. Written files append a metrics.Record

Skips are decided before the source is read. A rerun over a converted
directory issues no completion requests unless Overwrite is set.

Only the first run of eligible candidates is used. When the first candidate
did not finish with "stop" the fragment is replaced by nothing and a warning
is logged.

🤝 Collaborators:
  - completion.Client: the external rewrite service
  - status.FileManager: reads and atomic writes
  - status.Reporter: progress and outcome tracking
  - Locator: compiled from Config.Pattern unless overridden

🔍 Example:

	e, err := engine.New(engine.Options{
		Config:   cfg,
		Client:   client,
		Files:    mgr,
		Reporter: mgr,
	})
	if err != nil {
		return err
	}
	outcomes, err := e.RefactorMany(ctx, "src")
	table, _ := metrics.Render(e.Records())
*/
package engine
