package main

import (
	"fmt"
	"runtime"

	"gopkg.in/urfave/cli.v1"
)

const (
	VersionMajor = 0          // Major version component of the current release
	VersionMinor = 1          // Minor version component of the current release
	VersionPatch = 0          // Patch version component of the current release
	VersionMeta  = "unstable" // Version metadata to append to the version string
)

var Version = func() string {
	v := fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
	if VersionMeta != "" {
		v += "-" + VersionMeta
	}
	return v
}()

var versionCommand = cli.Command{
	Action:    version,
	Name:      "version",
	Usage:     "Print version numbers",
	ArgsUsage: " ",
	Category:  "MISCELLANEOUS COMMANDS",
}

func version(ctx *cli.Context) error {
	fmt.Println("gfund")
	fmt.Println("Version:", Version)
	fmt.Println("Architecture:", runtime.GOARCH)
	fmt.Println("Go Version:", runtime.Version())
	fmt.Println("Operating System:", runtime.GOOS)
	return nil
}
