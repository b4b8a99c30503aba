package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"solidity-ir/ir/cfg"
)

func cfgCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cfg [bundle.json] [function]",
		Short: "build and print the control-flow graph for one function",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBundle(args[0])
			if err != nil {
				return err
			}
			su, err := b.decode()
			if err != nil {
				return err
			}
			fn := findFunction(su, args[1])
			if fn == nil {
				return fmt.Errorf("function %q not found in %s", args[1], args[0])
			}
			g, err := cfg.Build(fn)
			if err != nil {
				return fmt.Errorf("build cfg: %w", err)
			}
			for _, blk := range g.Blocks {
				fmt.Printf("block %d (%d statements)\n", blk.ID, len(blk.Statements))
				for _, e := range blk.Out {
					fmt.Printf("  -> %d [%s]\n", e.To, e.Label)
				}
			}
			fmt.Printf("entry=%d success=%d revert=%d\n", g.Entry, g.Success, g.Revert)
			return nil
		},
	}
}
