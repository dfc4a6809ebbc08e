// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezrec/hwrw/client"
)

// newClient creates a control-plane client for the server named by the
// --addr flag, or the configured listen address.
func newClient(cmd *cobra.Command) (c *client.Client) {
	cfg := loadConfig(cmd)

	addr, _ := cmd.Flags().GetString("addr")
	if len(addr) == 0 {
		addr = cfg.Server.Listen
	}

	c = client.NewClient(addr)
	c.Path = cfg.Server.Path
	return
}

var sendCmd = &cobra.Command{
	Use:   "send COMMAND",
	Short: "Submit a register command through the control plane.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := newClient(cmd)

		response, err := c.Command(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			log.Fatalf("%v", err)
		}

		fmt.Print(response)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status [status|resource|profile|audit]",
	Short: "Show the counters or resource use of a running server.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := newClient(cmd)

		resource := "status"
		if len(args) != 0 {
			resource = args[0]
		}

		text, err := c.Get(cmd.Context(), resource)
		if err != nil {
			log.Fatalf("%v", err)
		}

		os.Stdout.Write(text)
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(statusCmd)
	for _, cmd := range []*cobra.Command{sendCmd, statusCmd} {
		cmd.Flags().StringP("addr", "a", "", "Server address, i.e. http://127.0.0.1:8421")
	}
}
