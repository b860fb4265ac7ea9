package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/mikey-austin/mpris_remote/internal/adapters/config"
	"github.com/mikey-austin/mpris_remote/internal/adapters/output"
	"github.com/mikey-austin/mpris_remote/internal/core"
	"github.com/mikey-austin/mpris_remote/internal/mpris"
)

func main() {
	var (
		playerFlag string
		verbose    bool
	)

	root := &cobra.Command{
		Use:           "mpr [command [args...]]",
		Short:         "Remote control for MPRIS media players",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(verbose)
			defer func() { _ = logger.Sync() }()

			cfg, err := config.Load()
			if err != nil {
				return core.WrapError(core.ExitFailure, "load config", err)
			}
			selector := resolveSelector(playerFlag, os.Getenv("MPRIS_PLAYER"), cfg)

			bus, err := mpris.ConnectSessionBus()
			if err != nil {
				return core.WrapError(core.ExitFailure, "connect to session bus", err)
			}
			defer bus.Close()

			session, err := mpris.Resolve(bus, selector, logger)
			if err != nil {
				return err
			}

			name := ""
			rest := args
			if len(args) > 0 {
				name, rest = args[0], args[1:]
			}

			dispatcher := core.Dispatcher{Stdin: os.Stdin, Logger: logger}
			chunks, err := dispatcher.Dispatch(session, name, rest)
			if err != nil {
				return err
			}
			return output.StdoutPrinter{}.Print(chunks)
		},
	}

	bindFlags(root.Flags(), &playerFlag, &verbose)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return core.WrapError(core.ExitBadFlags, "parse flags", err)
	})

	interruptOnSignal()

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "mpr: %v\n", err)
		os.Exit(core.ExitCode(err))
	}
}

func bindFlags(fs *pflag.FlagSet, player *string, verbose *bool) {
	fs.StringVarP(player, "player", "p", "", `player to control ("*" means first available)`)
	fs.BoolVarP(verbose, "verbose", "v", false, "verbose logging to stderr")
}

// resolveSelector picks the player selector: flag over environment over
// config file, defaulting to any running player. Config aliases apply
// to whichever source won.
func resolveSelector(flagVal, envVal string, cfg config.Config) string {
	selector := flagVal
	if selector == "" {
		selector = envVal
	}
	if selector == "" {
		selector = cfg.Player
	}
	if selector == "" {
		selector = "*"
	}
	if alias, ok := cfg.Aliases[selector]; ok {
		selector = alias
	}
	return selector
}

// newLogger builds the verbose stderr logger. stdout stays reserved for
// command output.
func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// interruptOnSignal turns a user interrupt into a clean distinct exit
// status. Remote calls are blocking round trips, so this is the only
// cancellation point.
func interruptOnSignal() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		fmt.Fprintln(os.Stderr, "mpr: interrupted")
		os.Exit(core.ExitInterrupted)
	}()
}
