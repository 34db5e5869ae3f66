/*
Package patch copies or moves entries from a base directory into a patch
directory that mirrors the base's relative layout.

	+-------------+          +-----------------+
	|    base     |  rel(p)  |   patch root    |
	|  /data/proj | -------> | /data/proj__patch|
	+------+------+          +--------+--------+
	       |                          |
	   a/b.txt  ----- Copy/Move ---> a/b.txt

🎯 Purpose:
- Resolve a source path and prove it lies strictly below the base
- Compute patchRoot/rel(source)
- Merge-copy the source there, then delete it for a move

🛂 Scope:
Every source is resolved (symlinks included) before it is compared with the
base, and the check runs before the first write. Sources outside the base and
the base itself fail with ErrOutOfScope.

📋 Merge semantics:
Files that already exist in the patch root are overwritten, files that only
exist there are kept. Copies keep permission bits and modification times.

💥 Errors:
- ErrConfig: the base is missing or not a directory
- ErrOutOfScope: the source is not strictly below the base
- ErrFileSystem: copy or delete failed; see FileSystemError.Phase

🔍 Example:

	dir, err := patch.New("/data/proj", "")
	if err != nil {
		return err
	}
	dst, err := dir.Copy(ctx, "/data/proj/a/b.txt") // /data/proj__patch/a/b.txt
*/
package patch
