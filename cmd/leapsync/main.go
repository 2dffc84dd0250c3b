// Package main provides the CLI entrypoint for LeapSync.
package main

import (
	"github.com/leapstack-labs/leapsync/internal/cli"

	// Register the bundled database adapters.
	_ "github.com/leapstack-labs/leapsync/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapsync/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leapsync/pkg/adapters/sqlite"
)

func main() {
	cli.Execute()
}
