// Package ledger records finished selections and saved album assets in
// SQLite.
//
// Every pipeline invocation writes one selection row when its completion
// fires, whether delivered or cancelled. Album saves add an asset row keyed
// by a generated id and linked to the invocation that produced it. The
// history and album commands read from here.
//
// Schema changes bump schemaVersion in schema.go; users delete the ledger to
// adopt a new schema.
package ledger
