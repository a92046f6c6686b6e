// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/airalab/go-robonomics/lib/datalog"
)

func init() {
	DatalogCmd.AddCommand(datalogWriteCmd, datalogReadCmd)
}

// DatalogCmd groups the Datalog pallet commands.
var DatalogCmd = &cobra.Command{
	Use:   "datalog",
	Short: "Write and read Datalog pallet records",
}

var datalogWriteCmd = &cobra.Command{
	Use:   "write [data]",
	Short: "Record data on chain, from the argument or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := dataFromArgsOrStdin(args)
		if err != nil {
			return err
		}

		c, err := connect()
		if err != nil {
			return err
		}

		receipt, err := datalog.New(c).Record(string(data))
		if err != nil {
			return err
		}

		fmt.Printf("Datalog record submitted: %s\n", color.GreenString(receipt.ID()))
		fmt.Printf("Extrinsic hash: %s\n", receipt.ExtrinsicHash.Hex())
		return nil
	},
}

var datalogReadCmd = &cobra.Command{
	Use:   "read [address]",
	Short: "Print the latest datalog record of an address, or of the seed account",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var address string
		if len(args) == 1 {
			address = args[0]
		}

		c, err := connect()
		if err != nil {
			return err
		}

		record, err := datalog.New(c).Latest(address, nil)
		if err != nil {
			return err
		}

		moment := time.UnixMilli(int64(record.Moment())).UTC()
		fmt.Printf("%s %s\n",
			color.CyanString(moment.Format("2006-01-02 15:04:05")),
			string(record.Payload))
		return nil
	},
}

func dataFromArgsOrStdin(args []string) ([]byte, error) {
	if len(args) == 1 {
		return []byte(args[0]), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no data given on the command line or stdin")
	}
	return data, nil
}
