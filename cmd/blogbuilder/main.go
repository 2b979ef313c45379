package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/blogbuilder/cmd/blogbuilder/commands"
	foundationerrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/version"
)

func main() {
	var cli commands.CLI
	global := &commands.Global{}
	ctx := kong.Parse(&cli,
		kong.Name("blogbuilder"),
		kong.Description("Static blog generator: Markdown posts in, deployable site out."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global, &cli),
	)

	if err := ctx.Run(); err != nil {
		foundationerrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}
