package main

import (
	"context"
	"log"

	"github.com/solo-io/ghrelease/pkg/cli"
)

func main() {
	ctx := context.Background()
	if err := cli.CreateGitHubRelease().ExecuteContext(ctx); err != nil {
		log.Fatalf("exiting: %s", err)
	}
}
