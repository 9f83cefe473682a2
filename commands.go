package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/elmanelman/judge-submit/console"
	"github.com/elmanelman/judge-submit/controller"
	"github.com/elmanelman/judge-submit/judge"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func identityFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "nickname", Usage: "nickname shown by the judge", Required: true},
		&cli.StringFlag{Name: "email", Usage: "contact email", Required: true},
	}
}

func submissionFlags() []cli.Flag {
	return append(identityFlags(),
		&cli.StringFlag{Name: "code-file", Usage: "file holding the code to submit", Required: true},
		&cli.BoolFlag{Name: "no-color", Usage: "disable colored output"},
	)
}

func submitCommand() *cli.Command {
	return &cli.Command{
		Name:  "submit",
		Usage: "submit the code file once and print the verdict",
		Flags: append(submissionFlags(),
			&cli.StringFlag{Name: "format", Value: string(console.FormatText), Usage: "output format (text or html)"},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := console.ParseFormat(cmd.String("format"))
			if err != nil {
				return err
			}
			return withApp(cmd, func(a *app) error {
				ctrl := a.controller(ctx, cmd, os.Stdout, format, nil)
				outcome, err := ctrl.Submit(ctx)
				if err != nil {
					return err
				}
				if outcome.State == controller.DoneFailure {
					return cli.Exit("", 1)
				}
				return nil
			})
		},
	}
}

func interactiveCommand() *cli.Command {
	return &cli.Command{
		Name:  "interactive",
		Usage: "press Enter to submit the code file, q to quit",
		Flags: submissionFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withApp(cmd, func(a *app) error {
				out := console.NewLockedWriter(os.Stdout)
				ctrl := a.controller(ctx, cmd, out, console.FormatText, out)
				return runInteractive(ctx, ctrl, os.Stdin, out, a.logger)
			})
		},
	}
}

// runInteractive fires one attempt per input line. Attempts run in the
// background; a line typed while one is outstanding is refused. out must be
// the writer shared with the controller's button and region.
func runInteractive(ctx context.Context, ctrl *controller.Controller, in io.Reader, out *console.LockedWriter, logger *zap.Logger) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok || strings.TrimSpace(line) == "q" {
				return nil
			}
			if ctrl.State() != controller.Idle {
				fmt.Fprintln(out, "-- submission in progress, please wait")
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := ctrl.Submit(ctx); errors.Is(err, controller.ErrBusy) {
					logger.Debug("trigger ignored while busy")
				}
			}()
		}
	}
}

func registerCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "register a visitor with the judging service",
		Flags: identityFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withApp(cmd, func(a *app) error {
				visitor, err := a.client.Register(ctx, judge.RegistrationRequest{
					Nickname: cmd.String("nickname"),
					Email:    cmd.String("email"),
				})
				if err != nil {
					return fmt.Errorf("registration failed: %w", err)
				}
				fmt.Printf("Registered %s <%s> as visitor #%d\n", visitor.Nickname, visitor.Email, visitor.ID)
				return nil
			})
		},
	}
}

func pingCommand() *cli.Command {
	return &cli.Command{
		Name:  "ping",
		Usage: "check that the judging service is reachable",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withApp(cmd, func(a *app) error {
				msg, err := a.client.Ping(ctx)
				if err != nil {
					return fmt.Errorf("ping failed: %w", err)
				}
				fmt.Println(msg)
				return nil
			})
		},
	}
}

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "list recent submission outcomes",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Value: 20, Usage: "number of outcomes to show"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withApp(cmd, func(a *app) error {
				if err := a.openJournal(); err != nil {
					return err
				}
				if a.journal == nil {
					return fmt.Errorf("journal is disabled in the configuration")
				}
				records, err := a.journal.Recent(ctx, int(cmd.Int("limit")))
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
				fmt.Fprintln(w, "Judged At\tOutcome\tStatus\tCode\tElapsed")
				for _, r := range records {
					status := r.Status
					if status == "" {
						status = "-"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%dms\n",
						r.JudgedAt.Local().Format("2006-01-02 15:04:05"), r.Outcome, status, r.StatusCode, r.ElapsedMs)
				}
				return w.Flush()
			})
		},
	}
}

func withApp(cmd *cli.Command, fn func(a *app) error) error {
	a, err := newApp(cmd.String("config"))
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.Warn("shutdown error", zap.Error(err))
		}
	}()
	return fn(a)
}

func (a *app) controller(ctx context.Context, cmd *cli.Command, out io.Writer, format console.Format, buttonOut io.Writer) *controller.Controller {
	form := console.NewFileForm(a.logger, cmd.String("nickname"), cmd.String("email"), cmd.String("code-file"))
	button := console.NewButton(buttonOut, a.cfg.UI.ReadyLabel)
	region := console.NewRegion(a.logger, out, format, !cmd.Bool("no-color") && format == console.FormatText)
	return controller.New(a.logger, a.client, form, button, region, a.cfg.UI, a.observers(ctx)...)
}
