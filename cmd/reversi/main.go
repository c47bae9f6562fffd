package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version      kong.VersionFlag `short:"v" help:"Show version"`
	Play         PlayCmd          `cmd:"" default:"withargs" help:"Play against the computer in the terminal"`
	Simulate     SimulateCmd      `cmd:"" help:"Play many games headlessly and report statistics"`
	PolicyServer PolicyServerCmd  `cmd:"policy-server" help:"Serve a built-in policy over websocket"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("reversi"),
		kong.Description("Reversi against a pluggable computer opponent"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
