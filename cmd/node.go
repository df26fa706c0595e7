package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"starnotary/chain"
	"starnotary/config"
	"starnotary/jsonrpc"
	"starnotary/logx"
)

var (
	nodeConfigPath   string
	tuningConfigPath string
	listenAddr       string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the star notary node",
	Run: func(cmd *cobra.Command, args []string) {
		runNode()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&nodeConfigPath, "config", "c", "", "Path to node.yml")
	runCmd.Flags().StringVar(&tuningConfigPath, "tuning", "", "Path to tuning.ini")
	runCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address override")
}

func runNode() {
	addr := config.DefaultListenAddr
	if nodeConfigPath != "" {
		nodeCfg, err := config.LoadNodeConfig(nodeConfigPath)
		if err != nil {
			log.Fatalf("Failed to load node config: %v", err)
		}
		addr = nodeCfg.ListenAddr
	}
	if listenAddr != "" {
		addr = listenAddr
	}

	tuning := config.DefaultTuningConfig()
	if tuningConfigPath != "" {
		cfg, err := config.LoadTuningConfig(tuningConfigPath)
		if err != nil {
			log.Fatalf("Failed to load tuning config: %v", err)
		}
		tuning = cfg
	}

	// The chain is volatile: bootstrapped fresh (with genesis) on every start.
	registry, err := chain.New()
	if err != nil {
		log.Fatalf("Failed to initialize chain: %v", err)
	}
	logx.Info("NODE", "Chain initialized at height ", registry.Height())

	server := jsonrpc.NewServer(addr, registry, tuning)
	if corsCfg, ok := jsonrpc.CORSFromEnv(); ok {
		server.SetCORSConfig(corsCfg)
	}
	server.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logx.Info("NODE", "Shutting down")
}
