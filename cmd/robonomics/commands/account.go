// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"encoding/hex"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/airalab/go-robonomics/lib/account"
)

func init() {
	AccountCmd.AddCommand(accountGenerateCmd, accountInspectCmd)
}

// AccountCmd groups the key management commands.
var AccountCmd = &cobra.Command{
	Use:   "account",
	Short: "Generate and inspect Robonomics accounts",
}

var accountGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a fresh account and print its mnemonic",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		acc, mnemonic, err := account.Generate()
		if err != nil {
			return err
		}

		printAccount(acc)
		fmt.Printf("Mnemonic:   %s\n", color.YellowString(mnemonic))
		fmt.Println("Store the mnemonic safely, it is the only way to recover the account.")
		return nil
	},
}

var accountInspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the address and public key derived from --seed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		acc, err := signer()
		if err != nil {
			return err
		}
		if acc == nil {
			return fmt.Errorf("no --seed given")
		}

		printAccount(acc)
		return nil
	},
}

func printAccount(acc *account.Account) {
	fmt.Printf("Address:    %s\n", color.GreenString(acc.Address()))
	fmt.Printf("Public key: 0x%s\n", hex.EncodeToString(acc.PublicKey()))
	fmt.Printf("Network:    ss58 prefix %d\n", acc.SS58Prefix())
}
