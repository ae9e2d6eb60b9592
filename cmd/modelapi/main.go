// @title modelapi
// @version 1.0
// @description Metadata-driven JSON:API resource server
// @host localhost:8100
// @BasePath /api/rest
package main

import (
	"fmt"
	"os"

	"evalgo.org/modelapi/internal/commands"
	"evalgo.org/modelapi/internal/version"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	version.Version = Version
	version.BuildTime = BuildTime
	version.GitCommit = GitCommit

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
