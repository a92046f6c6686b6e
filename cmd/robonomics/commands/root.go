// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package commands implements the robonomics command line interface on
// top of the lib packages.
package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/airalab/go-robonomics/config"
	"github.com/airalab/go-robonomics/lib/account"
	"github.com/airalab/go-robonomics/lib/client"
)

const envPrefix = "ROBONOMICS"

// RootCmd is the robonomics root command.
var RootCmd = &cobra.Command{
	Use:   "robonomics",
	Short: "Command line interface to the Robonomics networks",
	Long: `Robonomics command line interface.
Examples:
	robonomics datalog write "device is alive" --seed "$ROBONOMICS_SEED"
	robonomics datalog read 4GzMLepDF5nKTWDM6XpB3CrBcFmwgazcVFAD3ZBNAjKT6hQJ
	robonomics launch <robot> QmWXk8D1Fh5XFLSc9QLAUnyUosz9JjBYBBsFzRY2eOMBgM
	robonomics account generate`,
	SilenceUsage:      true,
	PersistentPreRunE: setupGlobals,
}

// Execute runs the CLI.
func Execute() error {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func init() {
	cobra.OnInitialize(initEnv)

	RootCmd.PersistentFlags().String("remote", config.KusamaEndpoint,
		"websocket endpoint of the node to talk to")
	RootCmd.PersistentFlags().String("seed", "",
		"account seed: a mnemonic or a 0x prefixed raw hex seed")
	RootCmd.PersistentFlags().String("rws-owner", "",
		"reroute extrinsics through the RWS subscription of this owner address")
	RootCmd.PersistentFlags().String("log-level", "warn",
		"log level: trace, debug, info, warn, error")

	for _, flag := range []string{"remote", "seed", "rws-owner", "log-level"} {
		if err := viper.BindPFlag(flag, RootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding --%s: %s", flag, err))
		}
	}

	RootCmd.AddCommand(DatalogCmd, LaunchCmd, AccountCmd, RWSCmd)
}

// initEnv lets every flag be set through ROBONOMICS_* variables, for
// example ROBONOMICS_SEED or ROBONOMICS_REMOTE.
func initEnv() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
}

func setupGlobals(cmd *cobra.Command, args []string) error {
	level, err := zerolog.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	zerolog.SetGlobalLevel(level)
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	return nil
}

// signer builds the account from --seed, nil when no seed was given.
func signer() (*account.Account, error) {
	seed := viper.GetString("seed")
	if seed == "" {
		return nil, nil
	}
	return account.New(seed)
}

// connect dials the node configured by the global flags.
func connect() (*client.Client, error) {
	var options []client.Option

	acc, err := signer()
	if err != nil {
		return nil, err
	}
	if acc != nil {
		options = append(options, client.WithSigner(acc))
	}

	if owner := viper.GetString("rws-owner"); owner != "" {
		options = append(options, client.WithRWSOwner(owner))
	}

	return client.Connect(viper.GetString("remote"), options...)
}
