// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package pipeline

// Marker is the token that separates two stages. The templating step rewrites `|` to it.
const Marker = "--pipe"

// Stage is one command invocation within a pipeline.
type Stage struct {
	Command string   // Command name, empty for an empty group
	Args    []string // Arguments, not including the command name
}

// Split partitions args into stages on Marker. The marker itself is consumed.
// k markers always give k+1 stages, so an empty list gives one empty stage.
func Split(args []string) []Stage {
	groups := [][]string{{}}

	for _, arg := range args {
		if arg == Marker {
			groups = append(groups, []string{})
			continue
		}

		groups[len(groups)-1] = append(groups[len(groups)-1], arg)
	}

	stages := make([]Stage, 0, len(groups))

	for _, g := range groups {
		s := Stage{Args: []string{}}
		if len(g) > 0 {
			s.Command = g[0]
			s.Args = g[1:]
		}

		stages = append(stages, s)
	}

	return stages
}
