package main

import (
	"fmt"

	"github.com/lunfardo314/sestring"
	"github.com/lunfardo314/sestring/pipeline"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <hex>...",
	Short: "Resolve encoded strings to text",
	Long: `Strings are resolved in parallel, at most 'parallel' from the config at once.
Resolved texts are printed one per line in the order of arguments.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment(cmd)
		if err != nil {
			return err
		}
		inputs := make([][]byte, len(args))
		for i, arg := range args {
			if inputs[i], err = decodeHex(arg); err != nil {
				return err
			}
		}
		params, _ := cmd.Flags().GetStringSlice("param")
		newContext := func(_ uint64) (*sestring.Context, error) {
			return env.newContext(params...)
		}
		results, err := pipeline.ResolveAll(cmd.Context(), inputs, newContext, env.cfg.Parallel)
		if err != nil {
			return err
		}
		for _, r := range results {
			if r.Err != nil {
				return fmt.Errorf("'%s': %w", args[r.Seq], r.Err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), r.Resolved.Text())
		}
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringSlice("param", nil, "local parameters in order, starting from 1")
	rootCmd.AddCommand(resolveCmd)
}
