// Package selection owns the index bookkeeping of the picker pipeline.
//
// Partition splits a batch into the items that need processing and the
// pass-through positions that are emitted untouched. Merge writes processed
// replacements back to their original positions. Nothing else in the
// pipeline needs to know where an item came from.
package selection
