// # cmd/rapidscore/main.go
package main

import (
	"os"

	"rapidscore/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
