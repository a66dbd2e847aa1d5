// Package main hosts the mediapick CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into picking sessions
// against local media, ledger and album queries, health checks, and
// configuration scaffolding. Configuration resolution and logger setup live
// in the shared command context so subcommands only deal with presentation.
//
// New behavior belongs in the internal packages first; commands here only
// wire and render it.
package main
