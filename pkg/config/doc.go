/*
Package config manages configuration parsing and validation for patchrc.

	            +-------------+
	            |   Config    |
	            | (Rules/Tasks)|
	            +------+------+
	                   |
	      +-----------+-----------+
	      |           |           |
	+-----+-----+ +---+----+ +---+----+
	|   YAML    | |  JSON  | |  HCL   |
	+-----------+ +--------+ +--------+

🎯 Purpose:
- Loads rule and task definitions from YAML, JSON, or HCL
- Validates that triggers compile and tasks reference known rules
- Resolves duplicate rule names by explicit version (highest wins)
- Hashes the validated config for drift detection

🔄 Flow:
1. Reads configuration from file, format selected by extension
2. Decodes strictly (unknown fields are rejected)
3. Resolves rule versions and compiles every trigger
4. Applies defaults (root, max_parallel) and hands off to the batch

📝 Design Philosophy:
Target paths and rules live in configuration passed into the runner, never
in hard-coded lists, so the rewriter stays testable against synthetic
in-memory content.
*/
package config
