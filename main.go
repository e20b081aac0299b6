// Package main is the entry point for the nbametrics CLI tool, which ingests
// NBA play-by-play logs and computes team-foul / penalty (bonus) metrics.
package main

import "github.com/pable/go-nba-metrics/cmd"

func main() {
	cmd.Execute()
}
