package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"solidity-ir/ir"
)

func decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [bundle.json]",
		Short: "decode a solc AST bundle and list its contracts and functions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBundle(args[0])
			if err != nil {
				return err
			}
			su, err := b.decode()
			if err != nil {
				return err
			}
			for _, d := range su.Declarations {
				c, ok := d.(*ir.ContractDefinition)
				if !ok {
					continue
				}
				fmt.Printf("contract %s (%s)\n", c.CanonicalName, contractKindString(c))
				for _, n := range c.Nodes {
					if fn, ok := n.(*ir.FunctionDefinition); ok {
						fmt.Printf("  function %s\n", fn.CanonicalName)
					}
				}
			}
			return nil
		},
	}
}

func contractKindString(c *ir.ContractDefinition) string {
	switch c.ContractKind {
	case ir.ContractKindInterface:
		return "interface"
	case ir.ContractKindLibrary:
		return "library"
	default:
		return "contract"
	}
}
