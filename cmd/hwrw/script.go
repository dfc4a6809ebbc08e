// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"log"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezrec/hwrw/script"
)

var scriptCmd = &cobra.Command{
	Use:   "script FILE.star",
	Short: "Run a Starlark register script.",
	Long: "Scripts call read(addr, count=1), write(addr, value) and " +
		"command(text). Integers may be predeclared with -D NAME=VALUE.",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		defines, _ := cmd.Flags().GetStringArray("define")

		cmdr, closer := newCommander(cmd)
		defer closer.Close()

		runner := script.NewRunner(cmdr)
		for _, define := range defines {
			name, text, ok := strings.Cut(define, "=")
			if !ok {
				log.Fatalf("%v: %v", define, f("expected NAME=VALUE"))
			}
			value, err := strconv.ParseUint(text, 0, 32)
			if err != nil {
				log.Fatalf("%v: %v", define, err)
			}
			runner.Defines[name] = uint32(value)
		}

		_, err := runner.Run(cmd.Context(), args[0], nil)
		if err != nil {
			closer.Close()
			log.Fatalf("%v: %v", args[0], err)
		}
	},
}

func init() {
	rootCmd.AddCommand(scriptCmd)
	scriptCmd.Flags().Bool("local", false, "Run against the configured bus instead of a server")
	scriptCmd.Flags().StringP("addr", "a", "", "Server address, i.e. http://127.0.0.1:8421")
	scriptCmd.Flags().StringArrayP("define", "D", nil, "Predeclare an integer, NAME=VALUE")
}
