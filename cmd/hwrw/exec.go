// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezrec/hwrw/dispatch"
)

var execCmd = &cobra.Command{
	Use:   "exec COMMAND...",
	Short: "Run register commands directly against the configured bus.",
	Long: "Each argument is one command, i.e. `exec 'r 8 0x40024000'`. " +
		"The response is printed after each command.",
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)

		b, err := openBus(cfg)
		if err != nil {
			log.Fatalf("%v: %v", cfg.Bus.Device, err)
		}
		defer b.Close()

		d := newDispatcher(cfg, b)

		failed := false
		for _, input := range args {
			if !runLocal(d, input) {
				failed = true
			}
		}

		if failed {
			b.Close()
			os.Exit(1)
		}
	},
}

// runLocal runs a command and prints its response, or its diagnostic.
func runLocal(d *dispatch.Dispatcher, input string) (ok bool) {
	status, response := d.Execute([]byte(input))
	if warning := status.Warning(); warning != nil {
		fmt.Fprintf(os.Stderr, "%v: %v\n", status.ID, warning)
	}
	if !status.Ok() {
		if len(status.Diagnostic) == 0 {
			fmt.Fprintln(os.Stderr, status.Err)
		}
		for _, line := range status.Diagnostic {
			fmt.Fprintln(os.Stderr, line)
		}
		return
	}

	os.Stdout.Write(response)
	ok = true
	return
}

func init() {
	rootCmd.AddCommand(execCmd)
}
