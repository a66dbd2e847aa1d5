// Package album persists finalized photos into named album directories.
//
// Each album maps to a slugged directory under paths.album_dir. Writes are
// atomic (temp file, fsync, rename) and serialized across processes by a
// lock file in the state directory, so two pickers saving into the same
// album never interleave. Saved assets are recorded in the ledger when a
// recorder is attached.
package album
