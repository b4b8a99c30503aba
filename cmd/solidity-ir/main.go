package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"solidity-ir/pkg/config"
)

var logger = log.StandardLogger()

func main() {
	root := &cobra.Command{
		Use:   "solidity-ir",
		Short: "decode, CFG-build, trace, and cover Solidity IR bundles",
	}

	var configDir, env string
	root.PersistentFlags().StringVar(&configDir, "config-dir", "", "directory containing default.yaml / <env>.yaml")
	root.PersistentFlags().StringVar(&env, "env", "", "environment overlay name")
	cobra.OnInitialize(func() {
		var err error
		if configDir == "" && env == "" {
			_, err = config.LoadFromEnv()
		} else {
			_, err = config.Load(configDir, env)
		}
		if err != nil {
			logger.Warnf("config: %v, falling back to defaults", err)
		}
		lvl, err := log.ParseLevel(config.AppConfig.Logging.Level)
		if err != nil {
			lvl = log.InfoLevel
		}
		logger.SetLevel(lvl)
	})

	root.AddCommand(decodeCmd())
	root.AddCommand(cfgCmd())
	root.AddCommand(traceCmd())
	root.AddCommand(coverageCmd())
	root.AddCommand(serveCmd())

	if err := root.Execute(); err != nil {
		logger.Fatal(err)
	}
}
