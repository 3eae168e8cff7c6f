/*
Package operation drives a sync run from start to finish.

	+-------------+
	|  Operator   |
	| (Sync/Status)|
	+------+------+
	       |
	+------+------+
	|   Runner    |
	| (Next/Step) |
	+------+------+
	       |
	+------+------+
	|   syncer    |
	+-------------+

🎯 Purpose:
- Builds a syncer from options
- Pumps it batch by batch (or job by job)
- Forwards every state to a status.Reporter

🔄 Flow:
1. Validates options and creates the syncer
2. Prepares the run (resolve, create target, record last sync)
3. Loops Next (async) or Step (sequential) until done
4. Finishes or fails the reporter exactly once

🔍 Example:

	op, err := operation.New(operation.Options{
		Sources:  []string{"/home/me/notes"},
		Target:   "/mnt/backup",
		Async:    true,
		Reporter: status.NewLogReporter(),
	})
	if err != nil {
		return err
	}
	return op.Sync(ctx)
*/
package operation
