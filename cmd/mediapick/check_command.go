package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"mediapick/internal/deps"
	"mediapick/internal/preflight"
	"mediapick/internal/stage"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify tools, directories, and stage readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			failures := 0

			fmt.Fprintln(out, renderSectionHeader("Dependencies", colorize))
			statuses := preflight.CheckSystemDeps(cfg)
			for _, status := range statuses {
				fmt.Fprintln(out, renderStatusLine(status.Name, dependencyKind(status), status.Detail, colorize))
			}
			failures += len(deps.MissingRequired(statuses))

			fmt.Fprintln(out, renderSectionHeader("Preflight", colorize))
			results := preflight.RunAll(cmd.Context(), cfg)
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			failures += len(preflight.Failed(results))

			sess, err := buildSession(cfg, ctx.loggerValue(), sessionOptions{})
			if err != nil {
				return err
			}
			defer sess.Close()

			fmt.Fprintln(out, renderSectionHeader("Stages", colorize))
			summary := sess.pipeline.Status(cmd.Context())
			for _, h := range sortedHealth(summary.StageHealth) {
				kind := statusOK
				if !h.Ready {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(h.Name, kind, h.Detail, colorize))
			}
			if !summary.Ready() {
				failures++
			}

			if failures > 0 {
				return errors.New("one or more checks failed")
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
}

func dependencyKind(status deps.Status) statusKind {
	switch {
	case status.Available:
		return statusOK
	case status.Optional:
		return statusWarn
	default:
		return statusError
	}
}

func sortedHealth(health map[string]stage.Health) []stage.Health {
	out := make([]stage.Health, 0, len(health))
	for _, h := range health {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
