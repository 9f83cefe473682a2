package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/elmanelman/judge-submit/config"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSigtermHandler(cancel)

	cmd := &cli.Command{
		Name:  "judge-submit",
		Usage: "submit code to a judging service and show the verdict",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: config.DefaultConfigFile,
				Usage: "path to the JSON configuration file",
			},
		},
		Commands: []*cli.Command{
			submitCommand(),
			interactiveCommand(),
			registerCommand(),
			pingCommand(),
			historyCommand(),
		},
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupSigtermHandler(cancel context.CancelFunc) {
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Print("\n")
		cancel()
	}()
}
