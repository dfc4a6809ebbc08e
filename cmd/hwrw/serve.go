// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/ezrec/hwrw/audit"
	"github.com/ezrec/hwrw/internal/logging"
	"github.com/ezrec/hwrw/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the register control-plane file over HTTP.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)

		listen, _ := cmd.Flags().GetString("listen")
		if len(listen) != 0 {
			cfg.Server.Listen = listen
		}

		logFile := logging.Setup(cfg.Log)
		atexit.Register(func() { logFile.Close() })

		b, err := openBus(cfg)
		if err != nil {
			log.Fatalf("%v: %v", cfg.Bus.Device, err)
		}
		atexit.Register(func() { b.Close() })

		d := newDispatcher(cfg, b)
		srv := server.NewServer(d, cfg.Server.Path)

		if len(cfg.Audit.Database) != 0 {
			rec, err := audit.NewSQLiteRecorder(cfg.Audit.Database)
			if err != nil {
				log.Fatalf("%v: %v", cfg.Audit.Database, err)
			}
			rec.BatchSize = cfg.Audit.BatchSize
			d.Recorder = rec
			srv.Audit = rec
			log.Printf("Audit trail in %v", rec.Name())
		}

		_, err = srv.Listen(cfg.Server.Listen)
		if err != nil {
			log.Fatalf("%v: %v", cfg.Server.Listen, err)
		}

		log.Printf("%v bus, register windows %v", cfg.Bus.Kind, cfg.Windows)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdown)
		}()

		err = srv.Serve()
		if err != nil {
			log.Printf("%v", err)
			atexit.Exit(1)
		}

		log.Printf("Stopped")
		atexit.Exit(0)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("listen", "l", "", "Listen address, overriding the configuration")
}
