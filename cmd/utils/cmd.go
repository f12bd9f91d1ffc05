package utils

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/inconshreveable/log15"
	"gopkg.in/urfave/cli.v1"

	"github.com/vitelabs/go-crowdfund/config"
	"github.com/vitelabs/go-crowdfund/node"
)

// MakeConfig loads the config file and environment, then applies the command
// line flags on top.
func MakeConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx.GlobalString(ConfigFileFlag.Name))
	if err != nil {
		return nil, err
	}
	if dir := ctx.GlobalString(DataDirFlag.Name); dir != "" {
		cfg.DataDir = dir
		cfg.LogDir = ""
	}
	if lvl := ctx.GlobalString(LogLevelFlag.Name); lvl != "" {
		cfg.LogLevel = lvl
	}
	if ctx.GlobalIsSet(RPCEnabledFlag.Name) {
		cfg.RPC.Enabled = ctx.GlobalBool(RPCEnabledFlag.Name)
	}
	if addr := ctx.GlobalString(RPCListenAddrFlag.Name); addr != "" {
		cfg.RPC.ListenAddr = addr
	}
	if origins := ctx.GlobalStringSlice(RPCCorsFlag.Name); len(origins) > 0 {
		cfg.RPC.CorsOrigins = origins
	}
	if spec := ctx.GlobalString(SweepSpecFlag.Name); spec != "" {
		cfg.SweepSpec = spec
	}
	if cfg.LogDir == "" && cfg.DataDir != "" {
		cfg.LogDir = filepath.Join(cfg.DataDir, "runlog")
	}
	return cfg, cfg.Validate()
}

// StartNode starts the node and stops it on the first interrupt.
func StartNode(node *node.Node) error {
	if err := node.Start(); err != nil {
		log15.Error("Error starting node", "err", err)
		return err
	}

	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(c)
		<-c
		log15.Info("Got interrupt, shutting down...")
		go node.Stop()
		for i := 10; i > 0; i-- {
			<-c
			if i > 1 {
				log15.Warn("Already shutting down.", "times", i-1)
			}
		}
	}()
	return nil
}
