/*
Package syncer mirrors a set of source files and directories into a target tree.

	+-----------+     +-----------+     +-------------+
	| Validate  | --> |  Resolve  | --> |  Scheduler  | --> State, State, ...
	| (params)  |     |  (jobs)   |     | (batches)   |
	+-----------+     +-----+-----+     +------+------+
	                        |                  |
	                        v                  v
	                  .last_file_sync    Job.Execute
	                     (record)       (diff + copy)

🎯 Purpose:
- One-way, incremental copy of every source into target/<basename>
- Only rewrite files whose content differs, always mirror permission bits
- Report progress after every batch

🔄 Flow:
 1. New validates sources against the target (no side effects)
 2. Prepare expands directories into jobs, parents first, then writes the
    last-sync record into the target root
 3. Next pops a batch of independent jobs and runs them concurrently,
    Step runs a single job on the caller's goroutine
 4. ErrDone marks the end of the run

⚡ Ordering:
A batch never holds a job together with one of its descendants, and a batch is
fully awaited before the next one is formed. Combined with the parent-first
resolution order this guarantees a directory exists before anything is written
into it.

🔍 Example:

	s, err := syncer.New(syncer.Options{Sources: sources, Target: target})
	if err != nil {
		return err
	}
	for st, err := range s.States(ctx) {
		if err != nil {
			return err
		}
		fmt.Printf("%d/%d\n", st.Done, st.Total)
	}
*/
package syncer
