// Package config loads the optional patchdir project file.
//
//	            +-------------+
//	            |   Config    |
//	            | base/target |
//	            +------+------+
//	                   |
//	      +------------+------------+
//	      |            |            |
//	+-----+----+ +-----+----+ +-----+----+
//	|   YAML   | |   HCL    | |   JSON   |
//	|  Parser  | |  Parser  | |  Parser  |
//	+----------+ +----------+ +----------+
//
// 🎯 Purpose:
// - Describe one base directory, an optional patch target and hide patterns
// - Pick a parser from the file extension
// - Resolve relative paths against the file's own directory
//
// The file only feeds the command line tool. The patch package never reads it;
// callers build a patch.Directory from the loaded values.
//
// 🔍 Example (.patchdir.hcl):
//
//	base   = "."
//	target = "../proj${suffix}"
//	hide   = [".git", "**/*.log"]
package config
