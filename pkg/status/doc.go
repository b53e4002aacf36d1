/*
Package status reports how far a run has come.

	            +-------------+
	            |  Progress   |
	            | (per unit)  |
	            +------+------+
	                   |
	      +------------+-----------+
	      |            |           |
	+-----+-----+ +----+----+ +----+----+
	|    Bar    | |   Log   | |   Nop   |
	|  (pterm)  | |(zerolog)| | (quiet) |
	+-----------+ +---------+ +---------+

🎯 Purpose:
- Show completion percentage while patient directories are processed
- Keep the same numbers in the logs when no terminal is attached
- Format durations and progress lines the same way everywhere

Progress never feeds back into the run; every reporter can be swapped for
Nop without changing what gets moved.
*/
package status
