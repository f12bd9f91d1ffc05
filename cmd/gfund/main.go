package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/inconshreveable/log15"
	"gopkg.in/urfave/cli.v1"

	"github.com/vitelabs/go-crowdfund/cmd/utils"
	"github.com/vitelabs/go-crowdfund/config"
	"github.com/vitelabs/go-crowdfund/node"
)

// gfund is the command-line client of the crowdfunding ledger

var (
	log = log15.New("module", "gfund/main")

	app = cli.NewApp()

	configFlags = []cli.Flag{
		utils.ConfigFileFlag,
	}
	generalFlags = []cli.Flag{
		utils.DataDirFlag,
		utils.LogLevelFlag,
		utils.SweepSpecFlag,
	}
	httpFlags = []cli.Flag{
		utils.RPCEnabledFlag,
		utils.RPCListenAddrFlag,
		utils.RPCCorsFlag,
	}

	errorOut = color.New(color.FgRed, color.Bold)
)

func init() {
	app.Name = filepath.Base(os.Args[0])
	app.Version = Version
	app.Usage = "the crowdfunding ledger cli application"

	app.Commands = []cli.Command{
		versionCommand,
		accountCommand,
		projectCommand,
		serveCommand,
	}
	sort.Sort(cli.CommandsByName(app.Commands))

	app.Flags = utils.MergeFlags(configFlags, generalFlags, httpFlags)
	app.Before = beforeAction
}

func main() {
	if err := app.Run(os.Args); err != nil {
		errorOut.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func beforeAction(ctx *cli.Context) error {
	lvl := ctx.GlobalString(utils.LogLevelFlag.Name)
	if lvl == "" {
		lvl = "warn"
	}
	// one-shot commands only log to the terminal, serve sets up its own
	node.InitLog(&config.Config{LogLevel: lvl})
	return nil
}

// withNode opens the ledger in the configured data dir, runs fn and closes
// the ledger again.
func withNode(ctx *cli.Context, fn func(n *node.Node) error) error {
	cfg, err := utils.MakeConfig(ctx)
	if err != nil {
		return err
	}
	n, err := node.New(cfg)
	if err != nil {
		return err
	}
	if err := n.Open(); err != nil {
		if err == node.ErrDataDirUsed {
			return fmt.Errorf("%v: stop the running gfund serve or use its rpc endpoint", err)
		}
		return err
	}
	defer n.Stop()
	log.Debug("ledger opened", "datadir", cfg.DataDir)
	return fn(n)
}
