/*
Package status manages file access and outcome tracking for patchrc.

	            +-------------+
	            |   Status    |
	            |  (Manager)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|   Files   |           |  Logs   |
	| (Storage) |           | (UI/UX) |
	+-----------+           +---------+

🎯 Purpose:
- Reads target files and writes rewritten content back atomically
- Tracks the per-file outcome of a batch (updated, missing, failed, ...)
- Provides user-friendly status lines and the final count summary

🔄 Flow:
1. The batch runner reads file content through the Manager
2. Rewritten content is written through a temp file and renamed into place
3. Every file's outcome is tracked with its edit count and checksum
4. Counts are tallied for the summary and the strict exit policy

⚡ Key Responsibilities:
- Atomic file writes (a failed write never leaves a half-rewritten file)
- Outcome tracking in batch order
- Progress and summary formatting
- User-facing feedback via pterm printers

🤝 Interfaces:
- FileManager: file operations
- StatusReporter: outcome tracking and progress
- FileFormatter: presentation of outcomes
*/
package status
