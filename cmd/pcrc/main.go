// Command pcrc is the headless recorder process: load config.json,
// connect, record, and respond to a small stdin command surface while
// running. Grounded on pcrc/cli_entry.py's console loop (start/stop/
// restart/exit/"say <text>") layered over client.Client (C9).
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pcrc-go/pcrc/client"
	"github.com/pcrc-go/pcrc/config"
	"github.com/pcrc-go/pcrc/pcrclog"
)

func main() {
	os.Exit(run())
}

func run() int {
	var configPath string
	var logPath string
	var debug bool
	flag.StringVar(&configPath, "config", config.FileName, "Path to the JSON config file")
	flag.StringVar(&logPath, "log", "logs/PCRC.log", "Path to the rotating log file")
	flag.BoolVar(&debug, "debug", false, "Enable debug-level logging")
	flag.Parse()

	cfg, wasMissing, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", configPath, err)
		return 1
	}
	if wasMissing {
		fmt.Fprintf(os.Stderr, "wrote default configuration to %s, please edit it and restart\n", configPath)
		return 1
	}

	log := pcrclog.New(pcrclog.Options{Debug: debug, FilePath: logPath})
	entry := log.WithField("component", "cli")

	entry.Info("PCRC starting up")
	entry.Infof("connecting to %s:%d as %s", cfg.Address, cfg.Port, cfg.Username)

	c := client.New(cfg, log, func(path string, err error) {
		if err != nil {
			entry.WithError(err).Warn("recording session ended without a saved replay")
		} else if path != "" {
			entry.Infof("replay saved to %s", path)
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		entry.Info("received shutdown signal")
		c.Shutdown()
	}()

	entry.Info(`enter "start" to start recording, "stop", "restart", "say <text>" or "exit"`)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		switch {
		case text == "start":
			if c.State() == client.StateDisconnected {
				entry.Info("starting recorder")
				c.Start()
			} else {
				entry.Warn("recorder already running, ignoring")
			}
		case text == "stop":
			entry.Info("stopping recorder")
			c.Stop(true)
		case text == "restart":
			entry.Info("restarting recorder")
			c.Restart(false)
		case text == "exit":
			c.Shutdown()
			return 0
		case strings.HasPrefix(text, "say "):
			c.Say(strings.TrimPrefix(text, "say "))
		default:
			entry.Warnf("unrecognized command %q", text)
		}
	}

	c.Shutdown()
	return 0
}
