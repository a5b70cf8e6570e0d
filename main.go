// Package main is the entry point for the hbstats CLI tool, which captures
// handball matches play by play and computes team, goalkeeper and goal-zone
// statistics from the event log.
package main

import "github.com/pable/go-hb-stats/cmd"

func main() {
	cmd.Execute()
}
