/*
Package flatten moves files with a given extension out of the nested folders of
each patient directory and into the top level of that patient directory.

	+-------------+      +-------------+      +-------------+
	|    Lister   | ---> |  Processor  | ---> |  Relocator  |
	| (patients)  |      | (one dir)   |      | (moves)     |
	+-------------+      +------+------+      +-------------+
	                            |
	                     +------+------+
	                     |   Finder    |
	                     | (snapshot)  |
	                     +-------------+

🎯 Purpose:
- List the patient directories directly under a root
- Snapshot every matching file in a patient subtree before touching anything
- Move each file to the patient directory, never overwriting what is there
- Report before/moved/after counts per patient and a total for the run

🔄 Flow:
1. Run lists patients (sorted) and starts the progress reporter
2. Processor finds candidates, short-circuits when there are none
3. Relocator moves candidates one by one, pausing after each move
4. Processor re-scans the patient directory and reports the after count

🤝 Collaborators:
- Sink: receives every user-facing message (info, warning, error)
- Progress: receives one unit of work per patient

Nothing in this package keeps global state. Loggers travel in the context
(zerolog.Ctx) and the Sink is passed explicitly.

🔍 Example:

	summary, err := flatten.Run(ctx, flatten.Options{
		Root:      "/mnt/disk",
		Extension: ".dcm",
		Delay:     10 * time.Millisecond,
		Sink:      log.New(os.Stdout, zerolog.Nop()),
	})
*/
package flatten
