package main

import (
	"os"

	"github.com/pyritecloud/pyrite/cmd"
)

// Version can be set during build with -ldflags
var version = "dev"

func main() {
	cmd.SetVersion(version)
	os.Exit(cmd.Execute())
}
