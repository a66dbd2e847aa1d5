// Package logs reads the picker log file for the CLI.
//
// Reads use bounded memory: the trailing-lines view keeps a ring of the last
// N matches, and follow mode polls from a byte offset until its context ends.
// An optional substring filter narrows output to one invocation.
package logs
