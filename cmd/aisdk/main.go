// Command aisdk is the command-line client for the platform API.
package main

import (
	"context"
	"os"

	"aisdk/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
