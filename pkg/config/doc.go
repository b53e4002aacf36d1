/*
Package config loads dcmflat settings from a file.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	   +--------+------+------+--------+
	   |        |             |        |
	+--+---+ +--+---+     +---+--+ +---+--+
	| YAML | | JSON |     | HCL  | | TOML |
	+------+ +------+     +------+ +------+

🎯 Purpose:
- Read optional defaults for every command line flag
- Reject unknown keys so typos do not pass silently
- Validate values before a run starts

🔄 Flow:
1. Pick a decoder from the file extension
2. Decode into a shape where unset keys stay nil
3. Overlay the set keys onto Default()
4. Validate

Command line flags that are set explicitly win over the file.

🔍 Example:

	# dcmflat.yaml
	root: /mnt/disk
	extension: .dcm
	delay: 25ms
	exclude:
	  - "derived/**"

	# dcmflat.hcl
	root      = env.DCM_ROOT
	delay     = "0s"
	progress  = false
*/
package config
