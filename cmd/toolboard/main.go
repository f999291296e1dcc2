// Command toolboard scores the tool catalog, serves the leaderboard API and
// writes the weekly snapshot.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
