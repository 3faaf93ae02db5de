// Package main is the entry point for the pitchmetrics CLI tool, which charts
// baseball games pitch by pitch and reports pitch-mix metrics.
package main

import "github.com/pable/go-pitch-metrics/cmd"

func main() {
	cmd.Execute()
}
