package main

import (
	"fmt"

	"gopkg.in/urfave/cli.v1"

	"github.com/vitelabs/go-crowdfund/common/types"
	"github.com/vitelabs/go-crowdfund/fund"
	"github.com/vitelabs/go-crowdfund/node"
	"github.com/vitelabs/go-crowdfund/rpcapi/api"
)

var (
	creatorFlag = cli.StringFlag{
		Name:  "creator",
		Usage: "address of the project creator",
	}
	titleFlag = cli.StringFlag{
		Name:  "title",
		Usage: "project title",
	}
	descFlag = cli.StringFlag{
		Name:  "desc",
		Usage: "project description",
	}
	daysFlag = cli.Uint64Flag{
		Name:  "days",
		Usage: "fundraising window in days",
	}
	goalFlag = cli.StringFlag{
		Name:  "goal",
		Usage: "goal amount",
	}

	projectCommand = cli.Command{
		Name:     "project",
		Usage:    "Create projects and move funds through them",
		Category: "PROJECT COMMANDS",
		Subcommands: []cli.Command{
			{
				Name:   "create",
				Usage:  "Create a new project",
				Action: projectCreate,
				Flags:  []cli.Flag{creatorFlag, titleFlag, descFlag, daysFlag, goalFlag},
			},
			{
				Name:   "list",
				Usage:  "List all projects in creation order",
				Action: projectList,
			},
			{
				Name:      "info",
				Usage:     "Print the state of a project",
				Action:    projectInfo,
				ArgsUsage: "<project>",
			},
			{
				Name:      "contribute",
				Usage:     "Pledge funds from an account to a project",
				Action:    projectContribute,
				ArgsUsage: "<project> <contributor> <amount>",
			},
			{
				Name:      "evaluate",
				Usage:     "Check goal and deadline of a project",
				Action:    projectEvaluate,
				ArgsUsage: "<project>",
			},
			{
				Name:      "payout",
				Usage:     "Pay the balance of a successful project to its creator",
				Action:    projectPayout,
				ArgsUsage: "<project>",
			},
			{
				Name:      "refund",
				Usage:     "Return a pledge from an expired project",
				Action:    projectRefund,
				ArgsUsage: "<project> <contributor>",
			},
		},
	}
)

// parseAddresses reads exactly n leading address arguments.
func parseAddresses(ctx *cli.Context, n, nargs int) ([]types.Address, error) {
	if ctx.NArg() != nargs {
		return nil, fmt.Errorf("usage: %s %s", ctx.Command.HelpName, ctx.Command.ArgsUsage)
	}
	addrs := make([]types.Address, 0, n)
	for i := 0; i < n; i++ {
		addr, err := types.HexToAddress(ctx.Args().Get(i))
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

func projectCreate(ctx *cli.Context) error {
	creator, err := types.HexToAddress(ctx.String(creatorFlag.Name))
	if err != nil {
		return fmt.Errorf("--%s: %v", creatorFlag.Name, err)
	}
	args := api.CreateProjectArgs{
		Creator:      creator,
		Title:        ctx.String(titleFlag.Name),
		Description:  ctx.String(descFlag.Name),
		DurationDays: ctx.Uint64(daysFlag.Name),
		GoalAmount:   ctx.String(goalFlag.Name),
	}
	return withNode(ctx, func(n *node.Node) error {
		var info api.ProjectInfo
		if err := api.NewFundApi(n).CreateProject(args, &info); err != nil {
			return err
		}
		okOut.Println("Project created")
		return printJSON(info)
	})
}

func projectList(ctx *cli.Context) error {
	return withNode(ctx, func(n *node.Node) error {
		var list []types.Address
		if err := api.NewFundApi(n).ListProjects(api.Empty{}, &list); err != nil {
			return err
		}
		for i, addr := range list {
			fmt.Printf("Project #%d: %s\n", i, addr)
		}
		return nil
	})
}

func projectInfo(ctx *cli.Context) error {
	addrs, err := parseAddresses(ctx, 1, 1)
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node.Node) error {
		var info api.ProjectInfo
		if err := api.NewFundApi(n).GetProjectInfo(api.ProjectArgs{Project: addrs[0]}, &info); err != nil {
			return err
		}
		return printJSON(info)
	})
}

func projectContribute(ctx *cli.Context) error {
	addrs, err := parseAddresses(ctx, 2, 3)
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node.Node) error {
		var info api.ProjectInfo
		err := api.NewFundApi(n).Contribute(api.ContributeArgs{
			Project:     addrs[0],
			Contributor: addrs[1],
			Amount:      ctx.Args().Get(2),
		}, &info)
		if err != nil {
			return err
		}
		okOut.Printf("Contributed %s\n", ctx.Args().Get(2))
		printField("Balance", info.Balance)
		printField("State", info.State)
		return nil
	})
}

func projectEvaluate(ctx *cli.Context) error {
	addrs, err := parseAddresses(ctx, 1, 1)
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node.Node) error {
		var state fund.State
		if err := api.NewFundApi(n).Evaluate(api.ProjectArgs{Project: addrs[0]}, &state); err != nil {
			return err
		}
		printField("State", state)
		return nil
	})
}

func projectPayout(ctx *cli.Context) error {
	addrs, err := parseAddresses(ctx, 1, 1)
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node.Node) error {
		var reply api.TransferReply
		if err := api.NewFundApi(n).Payout(api.ProjectArgs{Project: addrs[0]}, &reply); err != nil {
			return err
		}
		printTransfer(reply)
		return nil
	})
}

func projectRefund(ctx *cli.Context) error {
	addrs, err := parseAddresses(ctx, 2, 2)
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node.Node) error {
		var reply api.TransferReply
		if err := api.NewFundApi(n).Refund(api.RefundArgs{Project: addrs[0], Contributor: addrs[1]}, &reply); err != nil {
			return err
		}
		printTransfer(reply)
		return nil
	})
}

func printTransfer(reply api.TransferReply) {
	if reply.Result == fund.TransferSucceeded.String() {
		okOut.Println("Transfer succeeded")
	} else {
		warnOut.Println("Transfer failed, funds stay with the project and the call can be retried")
	}
	printField("Balance", reply.Project.Balance)
	printField("State", reply.Project.State)
}
