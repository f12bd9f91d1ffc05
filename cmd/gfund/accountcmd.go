package main

import (
	"encoding/hex"
	"fmt"

	"gopkg.in/urfave/cli.v1"

	"github.com/vitelabs/go-crowdfund/common/types"
	"github.com/vitelabs/go-crowdfund/node"
	"github.com/vitelabs/go-crowdfund/rpcapi/api"
)

var (
	accountCommand = cli.Command{
		Name:     "account",
		Usage:    "Manage accounts",
		Category: "ACCOUNT COMMANDS",
		Description: `Create addresses and move test funds into them. Contributions are
charged from these balances and payouts and refunds are credited to them.`,
		Subcommands: []cli.Command{
			{
				Name:        "new",
				Usage:       "Create a new account",
				Action:      accountNew,
				Description: "Generate a key pair and print its address and private key",
			},
			{
				Name:      "deposit",
				Usage:     "Credit test funds to an account",
				Action:    accountDeposit,
				ArgsUsage: "<address> <amount>",
			},
			{
				Name:      "balance",
				Usage:     "Print the balance of an account",
				Action:    accountBalance,
				ArgsUsage: "<address>",
			},
		},
	}
)

func accountNew(ctx *cli.Context) error {
	addr, priv, err := types.CreateAddress()
	if err != nil {
		return err
	}
	printField("Address", addr)
	printField("PrivateKey", hex.EncodeToString(priv))
	warnOut.Println("Keep the private key safe, it is not stored anywhere.")
	return nil
}

func accountDeposit(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return fmt.Errorf("usage: %s %s", ctx.Command.HelpName, ctx.Command.ArgsUsage)
	}
	addr, err := types.HexToAddress(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node.Node) error {
		var balance string
		if err := api.NewFundApi(n).Deposit(api.AccountArgs{Address: addr, Amount: ctx.Args().Get(1)}, &balance); err != nil {
			return err
		}
		okOut.Printf("Deposited %s\n", ctx.Args().Get(1))
		printField("Balance", balance)
		return nil
	})
}

func accountBalance(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("usage: %s %s", ctx.Command.HelpName, ctx.Command.ArgsUsage)
	}
	addr, err := types.HexToAddress(ctx.Args().First())
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node.Node) error {
		var balance string
		if err := api.NewFundApi(n).GetBalance(api.AccountArgs{Address: addr}, &balance); err != nil {
			return err
		}
		printField("Balance", balance)
		return nil
	})
}
