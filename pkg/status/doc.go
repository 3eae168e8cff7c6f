/*
Package status reports sync progress to people and logs.

	            +-------------+
	            |  Reporter   |
	            +------+------+
	                   |
	     +-------------+-------------+
	     |             |             |
	+----+----+  +-----+-----+  +----+----+
	|   Log   |  |  Console  |  |   Bar   |
	| zerolog |  |  log pkg  |  |  pterm  |
	+---------+  +-----------+  +---------+

🎯 Purpose:
- Turns syncer.State snapshots into output
- Keeps formatting in one place (FileFormatter)
- Lets callers combine outputs (MultiReporter)

🔄 Flow:
1. Start is called once the job list is known
2. Update is called after every batch
3. Finish or Fail closes the run

🔍 Example:

	rep := status.MultiReporter{
		status.NewLogReporter(),
		status.NewBarReporter(os.Stderr),
	}
	rep.Start(ctx, s.Total())
*/
package status
