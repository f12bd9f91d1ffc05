package main

import (
	"gopkg.in/urfave/cli.v1"

	"github.com/vitelabs/go-crowdfund/cmd/utils"
	"github.com/vitelabs/go-crowdfund/node"
)

var serveCommand = cli.Command{
	Name:   "serve",
	Usage:  "Run the ledger with the deadline sweeper and the HTTP-RPC endpoint",
	Action: serve,
	Description: `gfund serve

Keeps the data dir locked until interrupted. JSON-RPC 2.0 methods live under
the "fund" namespace, e.g. fund.CreateProject or fund.Contribute.`,
}

func serve(ctx *cli.Context) error {
	cfg, err := utils.MakeConfig(ctx)
	if err != nil {
		return err
	}
	node.InitLog(cfg)

	n, err := node.New(cfg)
	if err != nil {
		return err
	}
	if err := utils.StartNode(n); err != nil {
		return err
	}
	if endpoint := n.HTTPEndpoint(); endpoint != "" {
		okOut.Printf("Serving JSON-RPC on http://%s\n", endpoint)
	}
	n.Wait()
	return nil
}
