package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"solidity-ir/evm/coverage"
)

type coverageReport struct {
	RunID               string                             `json:"run_id"`
	FunctionInstruction map[string]coverage.FunctionStats  `json:"function_instruction"`
	FunctionBranch      map[string]coverage.FunctionStats  `json:"function_branch"`
	SourceLines         map[string]uint64                  `json:"source_lines"`
}

func coverageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "coverage [bundle.json]",
		Short: "replay a bundle's trace into per-function and per-line coverage",
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
			r := b.coverageReport(pcmap)

			runID := uuid.New().String()
			logger.Infof("coverage run %s: %s", runID, args[0])

			report := coverageReport{
				RunID:               runID,
				FunctionInstruction: coverage.FunctionCoverage(r, pcmap),
				FunctionBranch:      coverage.FunctionBranchCoverage(r, pcmap),
				SourceLines:         make(map[string]uint64),
			}
			for key, hits := range coverage.SourceLineCoverage(r, pcmap) {
				report.SourceLines[fmt.Sprintf("%d:%d:%d", key.FileID, key.Offset, key.Length)] = hits
			}

			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}
