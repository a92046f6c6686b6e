// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/airalab/go-robonomics/lib/rws"
)

func init() {
	RWSCmd.AddCommand(rwsDevicesCmd, rwsDaysLeftCmd)
}

// RWSCmd groups the Robonomics Web Services subscription commands.
var RWSCmd = &cobra.Command{
	Use:   "rws",
	Short: "Inspect Robonomics Web Services subscriptions",
}

var rwsDevicesCmd = &cobra.Command{
	Use:   "devices [owner]",
	Short: "List the device allow-list of a subscription owner",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var owner string
		if len(args) == 1 {
			owner = args[0]
		}

		c, err := connect()
		if err != nil {
			return err
		}

		devices, err := rws.New(c).Devices(owner, nil)
		if err != nil {
			return err
		}

		if len(devices) == 0 {
			fmt.Println("No devices set.")
			return nil
		}
		for _, device := range devices {
			fmt.Println(color.GreenString(device))
		}
		return nil
	},
}

var rwsDaysLeftCmd = &cobra.Command{
	Use:   "days-left [owner]",
	Short: "Show how many days of a subscription remain",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var owner string
		if len(args) == 1 {
			owner = args[0]
		}

		c, err := connect()
		if err != nil {
			return err
		}

		days, active, err := rws.New(c).DaysLeft(owner, nil)
		if err != nil {
			return err
		}

		switch {
		case !active:
			fmt.Println(color.RedString("No active subscription."))
		case days < 0:
			fmt.Println(color.GreenString("Lifetime subscription."))
		default:
			fmt.Printf("%s days left.\n", color.GreenString("%d", days))
		}
		return nil
	},
}
