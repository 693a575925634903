package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCommand(t *testing.T, root *cobra.Command, name string) *cobra.Command {
	t.Helper()
	for _, c := range root.Commands() {
		if c.Name() == name {
			return c
		}
	}
	t.Fatalf("command %q not registered", name)
	return nil
}

func TestNewRootCmd(t *testing.T) {
	root := NewRootCmd("1.2.3")

	t.Run("version and name", func(t *testing.T) {
		assert.Equal(t, "smart-commit", root.Use)
		assert.Equal(t, "1.2.3", root.Version)
	})

	t.Run("workflow flags registered", func(t *testing.T) {
		for _, name := range []string{"atomic", "dry-run", "no-push", "force", "repo", "commit-type"} {
			assert.NotNil(t, root.Flags().Lookup(name), name)
		}
		for _, name := range []string{"config", "verbose", "debug"} {
			assert.NotNil(t, root.PersistentFlags().Lookup(name), name)
		}
	})

	t.Run("config command flags", func(t *testing.T) {
		cfgCmd := findCommand(t, root, "config")
		for _, name := range []string{"show", "save", "backend", "url", "model"} {
			assert.NotNil(t, cfgCmd.Flags().Lookup(name), name)
		}
	})

	t.Run("test command flags", func(t *testing.T) {
		testCmd := findCommand(t, root, "test")
		require.NotNil(t, testCmd.Flags().Lookup("backend"))
		require.NotNil(t, testCmd.Flags().Lookup("all"))
	})

	t.Run("cache command flags", func(t *testing.T) {
		cacheCmd := findCommand(t, root, "cache")
		require.NotNil(t, cacheCmd.Flags().Lookup("stats"))
		require.NotNil(t, cacheCmd.Flags().Lookup("clear"))
	})
}

func TestCacheCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	run := func(args ...string) string {
		c := newCacheCmd()
		var out bytes.Buffer
		c.SetOut(&out)
		c.SetArgs(args)
		require.NoError(t, c.Execute())
		return out.String()
	}

	t.Run("stats is the default", func(t *testing.T) {
		assert.Contains(t, run(), "directories: 0")
	})

	t.Run("explicit stats flag", func(t *testing.T) {
		assert.Contains(t, run("--stats"), "recorded scopes: 0")
	})

	t.Run("clear then stats in one invocation", func(t *testing.T) {
		out := run("--clear", "--stats")
		assert.Contains(t, out, "scope cache cleared")
		assert.Contains(t, out, "directories: 0")
	})

	t.Run("clear alone skips stats", func(t *testing.T) {
		out := run("--clear")
		assert.Contains(t, out, "scope cache cleared")
		assert.NotContains(t, out, "directories")
	})
}
