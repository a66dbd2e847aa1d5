// Package preflight provides readiness checks for the directories and
// external services mediapick depends on.
//
// The CLI "mediapick check" command runs RunAll and CheckSystemDeps and
// renders the results; "mediapick pick" runs the directory checks before
// opening a picker so a read-only album directory is reported up front
// instead of as a failed save after the user has already made a selection.
package preflight
