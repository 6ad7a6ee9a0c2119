package main

import (
	"github.com/a13labs/m3uflat/cli/cmd"

	_ "github.com/a13labs/m3uflat/cli/cmd/parse"
	_ "github.com/a13labs/m3uflat/cli/cmd/serve"
	_ "github.com/a13labs/m3uflat/cli/cmd/token"
)

func main() {
	cmd.Execute()
}
