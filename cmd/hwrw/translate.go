// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ezrec/hwrw/iomap"
)

// translateAddresses prints the physical and access space forms of each
// address.
func translateAddresses(output io.Writer, args []string, reverse bool) (err error) {
	for _, arg := range args {
		var value uint64
		value, err = strconv.ParseUint(arg, 0, 32)
		if err != nil {
			return
		}

		if reverse {
			access := iomap.Address(value)
			fmt.Fprintf(output, "%v -> 0x%08x\n", access, iomap.ToPhysical(access))
			continue
		}

		physical := uint32(value)
		note := ""
		if !iomap.Representable(physical) {
			note = " " + f("(not representable)")
		}
		fmt.Fprintf(output, "0x%08x -> %v%s\n", physical, iomap.ToAccessSpace(physical), note)
	}

	return
}

var translateCmd = &cobra.Command{
	Use:   "translate ADDR...",
	Short: "Show the access space address of physical addresses.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		reverse, _ := cmd.Flags().GetBool("reverse")

		err := translateAddresses(os.Stdout, args, reverse)
		if err != nil {
			log.Fatalf("%v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)
	translateCmd.Flags().BoolP("reverse", "r", false, "Translate access space addresses to physical")
}
