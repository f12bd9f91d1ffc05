package utils

import (
	"gopkg.in/urfave/cli.v1"
)

var (
	// Config settings
	ConfigFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "Json configuration file (default = gfund.config.json in the working directory)",
	}

	// General settings
	DataDirFlag = cli.StringFlag{
		Name:  "datadir",
		Usage: "use for store all files",
	}
	LogLevelFlag = cli.StringFlag{
		Name:  "loglevel",
		Usage: "log level: crit, error, warn, info, debug",
	}

	// HTTP RPC Settings
	RPCEnabledFlag = cli.BoolFlag{
		Name:  "rpc",
		Usage: "Enable the HTTP-RPC server",
	}
	RPCListenAddrFlag = cli.StringFlag{
		Name:  "rpcaddr",
		Usage: "HTTP-RPC server listening address",
	}
	RPCCorsFlag = cli.StringSliceFlag{
		Name:  "rpccors",
		Usage: "Origins allowed to call the HTTP-RPC server from a browser",
	}

	SweepSpecFlag = cli.StringFlag{
		Name:  "sweep",
		Usage: "cron spec of the deadline sweeper, e.g. \"@every 1m\"",
	}
)

// MergeFlags merges the given flag slices.
func MergeFlags(flagsSet ...[]cli.Flag) []cli.Flag {
	var ret []cli.Flag
	for _, flags := range flagsSet {
		ret = append(ret, flags...)
	}
	return ret
}
