// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezrec/hwrw/script"
	"github.com/ezrec/hwrw/translate"
)

// newCommander returns the local dispatcher with --local, or a client of
// the control plane. The closer releases the local bus.
func newCommander(cmd *cobra.Command) (cmdr script.Commander, closer io.Closer) {
	local, _ := cmd.Flags().GetBool("local")
	if !local {
		cmdr = newClient(cmd)
		closer = io.NopCloser(nil)
		return
	}

	cfg := loadConfig(cmd)
	b, err := openBus(cfg)
	if err != nil {
		log.Fatalf("%v: %v", cfg.Bus.Device, err)
	}

	cmdr = &script.Local{Dispatcher: newDispatcher(cfg, b)}
	closer = b
	return
}

// shell runs lines from the editor until end of input.
func shell(ctx context.Context, le *LineEditor, cmdr script.Commander, output io.Writer) (err error) {
	for {
		var line string
		line, err = le.GetLine("hwrw> ")
		if errors.Is(err, io.EOF) {
			err = nil
			return
		}
		if err != nil {
			return
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "quit", "exit":
			return
		case "help", "?":
			for _, usage := range translate.Usage() {
				fmt.Fprintln(output, usage)
			}
			continue
		}

		var response string
		response, err = cmdr.Command(ctx, line)
		if err != nil {
			fmt.Fprintln(output, err)
			err = nil
			continue
		}
		fmt.Fprint(output, response)
	}
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive register command shell.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmdr, closer := newCommander(cmd)
		defer closer.Close()

		le := NewLineEditor()
		defer le.Close()

		err := shell(cmd.Context(), le, cmdr, os.Stdout)
		if err != nil {
			log.Printf("%v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
	shellCmd.Flags().Bool("local", false, "Run against the configured bus instead of a server")
	shellCmd.Flags().StringP("addr", "a", "", "Server address, i.e. http://127.0.0.1:8421")
}
