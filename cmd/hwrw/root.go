// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezrec/hwrw/bus"
	"github.com/ezrec/hwrw/config"
	"github.com/ezrec/hwrw/dispatch"
	"github.com/ezrec/hwrw/translate"
)

var f = translate.From

var rootCmd = &cobra.Command{
	Use:   "hwrw",
	Short: "Read and write memory mapped hardware registers.",
	Long: `hwrw runs register commands of the form 'r COUNT ADDR' and ` +
		`'w ADDR VALUE' against physical memory, either directly or ` +
		`through an HTTP control-plane file served by 'hwrw serve'.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log every register access")
}

// loadConfig loads the configuration named by the command flags.
func loadConfig(cmd *cobra.Command) (cfg *config.Config) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		cfg.Protocol.Verbose = true
	}

	return
}

// openBus opens the register accessor selected by the configuration.
func openBus(cfg *config.Config) (b bus.Bus, err error) {
	switch cfg.Bus.Kind {
	case config.BUS_DEVMEM:
		b, err = bus.OpenDevMem(cfg.Bus.Device, cfg.Windows)
	default:
		sim := bus.NewSim()
		for physical, value := range cfg.Bus.Registers {
			sim.Preload(physical, value)
		}
		b = sim
	}
	return
}

// newDispatcher creates a dispatcher for the bus per the configuration.
func newDispatcher(cfg *config.Config, b bus.Bus) (d *dispatch.Dispatcher) {
	d = dispatch.NewDispatcher(b, cfg.Windows)
	d.MaxInput = cfg.Protocol.MaxInput
	d.Stride = cfg.Protocol.Stride
	d.Verbose = cfg.Protocol.Verbose
	return
}
