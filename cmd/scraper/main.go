// Command scraper exports geographic datasets from the ActivismeBe database.
//
// Usage:
//
//	scraper [--env-file .env] [--config scraper.yaml] [--output path] [--verbose] <command>
//
// Run "scraper list" for the available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/ActivismeBe/geo-dataset/config"
	"github.com/ActivismeBe/geo-dataset/dataset/cities"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// Command defines the interface for a runnable command.
type Command interface {
	Execute(ctx context.Context, app *App) error
	Help() string
}

// App carries the global flags and outputs shared by every command.
type App struct {
	EnvFile    string
	ConfigFile string
	OutputPath string
	Verbose    bool

	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// commands holds the registered commands.
var commands = map[string]Command{
	"scrape:cities": &citiesCmd{},
	"list":          &listCmd{},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run parses args, dispatches to the named command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := &App{Stdout: stdout, Stderr: stderr}

	flags := pflag.NewFlagSet("scraper", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&app.EnvFile, "env-file", config.DefaultEnvFile, "dotenv file with DB_* variables, ignored when missing")
	flags.StringVar(&app.ConfigFile, "config", "", "optional YAML config file")
	flags.StringVarP(&app.OutputPath, "output", "o", cities.DefaultOutputPath, "file the dataset is written to")
	flags.BoolVarP(&app.Verbose, "verbose", "v", false, "log executed SQL")
	flags.Usage = func() { printUsage(stderr, flags) }

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	level := slog.LevelInfo
	if app.Verbose {
		level = slog.LevelDebug
	}
	app.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	name := "list"
	if flags.NArg() > 0 {
		name = flags.Arg(0)
	}

	cmd, ok := commands[name]
	if !ok {
		_, _ = fmt.Fprintf(stderr, "Error: Unknown command '%s'\n\n", name)
		printUsage(stderr, flags)
		return exitUsage
	}

	if err := cmd.Execute(ctx, app); err != nil {
		if errors.Is(err, context.Canceled) {
			app.Logger.Error("operation cancelled")
			return exitError
		}
		app.Logger.Error("command failed", "command", name, "error", err.Error())
		return exitError
	}

	return exitOK
}

func printUsage(w io.Writer, flags *pflag.FlagSet) {
	_, _ = fmt.Fprintln(w, "Usage: scraper [flags] <command>")
	_, _ = fmt.Fprintln(w, "\nAvailable commands:")
	printCommands(w)
	_, _ = fmt.Fprintln(w, "\nFlags:")
	_, _ = fmt.Fprint(w, flags.FlagUsages())
}

func printCommands(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		_, _ = fmt.Fprintf(w, "  %-15s %s\n", name, commands[name].Help())
	}
}

// listCmd prints the registered commands.
type listCmd struct{}

func (c *listCmd) Execute(_ context.Context, app *App) error {
	printCommands(app.Stdout)
	return nil
}

func (c *listCmd) Help() string {
	return "Lists the available commands."
}
