// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandTree(t *testing.T) {
	names := make(map[string]bool)
	for _, sub := range RootCmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"datalog", "launch", "account", "rws"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}

	for _, flag := range []string{"remote", "seed", "rws-owner", "log-level"} {
		assert.NotNil(t, RootCmd.PersistentFlags().Lookup(flag), "missing flag %s", flag)
	}
}

func TestDataFromArgs(t *testing.T) {
	data, err := dataFromArgsOrStdin([]string{"hello"})
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}
