package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"solidity-ir/evm/fingerprint"
	"solidity-ir/evm/trace"
	"solidity-ir/ir/inherit"
)

// traceRun wraps one Interpret invocation with a correlation ID, so a
// trace produced by a long CLI/CI pipeline can be cross-referenced
// against its log line (logger.Infof below emits the same ID).
type traceRun struct {
	RunID string           `json:"run_id"`
	Trace *trace.CallTrace `json:"trace"`
}

func traceCmd() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "trace [bundle.json]",
		Short: "replay a flat opcode trace into a call tree",
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
			pcmap, err := b.pcmap(su.Tree())
			if err != nil {
				return err
			}
			tables := inherit.NewSelectorTables()
			idx := fingerprint.NewIndex()

			entries := make([]trace.Entry, len(b.Trace))
			for i, s := range b.Trace {
				entries[i] = trace.Entry{PC: s.PC, Op: s.Op, Depth: s.Depth, Stack: s.bigStack(), Memory: s.memory()}
			}

			deps := trace.Deps{
				Resolver:     nil,
				Tables:       tables,
				PCMap:        pcmap,
				Fingerprints: idx,
				CodeAt:       func(common.Address) []byte { return nil },
				ABIParamTypes: func(fqn string, selector [4]byte) []string {
					return nil
				},
			}
			tx := trace.TxContext{To: common.HexToAddress(to), Value: big.NewInt(0)}

			runID := uuid.New().String()
			logger.Infof("trace run %s: %s, %d steps", runID, args[0], len(entries))

			ct, err := trace.Interpret(context.Background(), tx, entries, deps)
			if err != nil {
				return fmt.Errorf("interpret: %w", err)
			}

			out, err := json.MarshalIndent(traceRun{RunID: runID, Trace: ct}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "0x0", "the root call's target address")
	return cmd
}
