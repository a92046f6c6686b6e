// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/airalab/go-robonomics/lib/launch"
)

// LaunchCmd sends a Launch pallet command to a robot.
var LaunchCmd = &cobra.Command{
	Use:   "launch <robot> <parameter>",
	Short: "Send a launch command to a robot account",
	Long: `Send a launch command to a robot account. The parameter is either a
32 byte hex string or an IPFS CIDv0 (Qm...) pointing at the command payload.
Example:
	robonomics launch 4GzMLepDF5nKTWDM6XpB3CrBcFmwgazcVFAD3ZBNAjKT6hQJ QmWXk8D1Fh5XFLSc9QLAUnyUosz9JjBYBBsFzRY2eOMBgM`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connect()
		if err != nil {
			return err
		}

		receipt, err := launch.New(c).Send(args[0], args[1])
		if err != nil {
			return err
		}

		fmt.Printf("Launch submitted: %s\n", color.GreenString(receipt.ID()))
		fmt.Printf("Extrinsic hash: %s\n", receipt.ExtrinsicHash.Hex())
		return nil
	},
}
