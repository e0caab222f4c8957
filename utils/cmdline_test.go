package utils

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"testing"
)

func TestCmdlineHelpers(t *testing.T) {
	cobra.EnableCommandSorting = false

	// Test normal parsing
	wasRun, rootCmd := makeRunCmd(t)
	rootCmd.SetArgs([]string{"run", "--dataSource", "ORCL",
		"--pooling", "--maxPool", "321"})
	err := rootCmd.Execute()
	assert.NoError(t, err)
	assert.True(t, *wasRun)

	// Test completion
	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0660)
	require.NoError(t, err)
	oldOut := os.Stdout
	defer func() {
		os.Stdout = oldOut
	}()
	os.Stdout = devNull
	wasRun, rootCmd = makeRunCmd(t)
	rootCmd.SetArgs([]string{"completion", "--zsh"})
	err = rootCmd.Execute()
	assert.NoError(t, err)
	assert.False(t, *wasRun)
}

func TestBadFlagTypes(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Bool("pooling", true, "")
	fs.Int("maxPool", 5, "")
	fs.String("dataSource", "ORCL", "")
	require.NoError(t, fs.Parse(nil))

	assert.True(t, GetFlagB(fs, "pooling"))
	assert.Equal(t, "ORCL", GetFlagS(fs, "dataSource"))

	assert.Panics(t, func() {
		GetFlagB(fs, "maxPool")
	})
	assert.Panics(t, func() {
		GetFlagS(fs, "missing")
	})
}

func makeRunCmd(t *testing.T) (*bool, *cobra.Command) {
	wasRun := false

	var rootCmd = &cobra.Command{
		Use: "oraping",
	}
	runCmd := &cobra.Command{
		Use: "run",
		Run: func(cmd *cobra.Command, args []string) {
			assert.Equal(t, "ORCL", GetFlagS(cmd.Flags(), "dataSource"))
			assert.True(t, GetFlagB(cmd.Flags(), "pooling"))
			maxPool, err := cmd.Flags().GetInt("maxPool")
			assert.NoError(t, err)
			assert.Equal(t, 321, maxPool)
			wasRun = true
		},
	}
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("dataSource", "", "string")
	runCmd.Flags().Bool("pooling", false, "bool")
	runCmd.Flags().Int("maxPool", 0, "int")

	rootCmd.AddCommand(MakeCompletionCmd())

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	return &wasRun, rootCmd
}
