// Where: internal/app/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/labstack/echo/v4"
	"github.com/poruru/ami-catalog/internal/config"
	"github.com/poruru/ami-catalog/internal/logging"
	"github.com/poruru/ami-catalog/internal/meta"
	"github.com/poruru/ami-catalog/internal/version"
)

// Dependencies holds all injected dependencies required for CLI command execution.
type Dependencies struct {
	Context context.Context
	Out     io.Writer
	// ErrOut receives log output; defaults to stderr.
	ErrOut   io.Writer
	Services ServiceFactory
	// Serve runs the local HTTP server; defaults to readapi.Serve.
	Serve func(ctx context.Context, e *echo.Echo, port int) error
}

// CLI defines the command-line interface structure parsed by Kong.
// It contains global flags and all subcommand definitions.
type CLI struct {
	Region           string `help:"AWS region"`
	TableName        string `name:"table" help:"DynamoDB table holding the AMI records"`
	EndpointDynamoDB string `name:"endpoint-dynamodb" help:"DynamoDB endpoint override"`
	EndpointS3       string `name:"endpoint-s3" help:"S3 endpoint override"`
	EndpointLambda   string `name:"endpoint-lambda" help:"Lambda endpoint override"`
	ConfigFile       string `name:"config" help:"Path to config file (default: ~/.amis/config.yaml)"`
	LogLevel         string `name:"log-level" help:"Log level (debug, info, warn, error)"`

	Put     PutCmd     `cmd:"" help:"Record an AMI from its build artifacts"`
	Get     GetCmd     `cmd:"" help:"List AMI records"`
	Notify  NotifyCmd  `cmd:"" help:"Manage bucket notifications"`
	Table   TableCmd   `cmd:"" help:"Manage the records table"`
	Serve   ServeCmd   `cmd:"" help:"Serve the read API locally"`
	Config  ConfigCmd  `cmd:"" help:"Manage configuration"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

type VersionCmd struct{}

// Run is the main entry point for CLI command execution.
// It parses the command-line arguments, identifies the requested command,
// and dispatches to the appropriate handler. Returns 0 on success, 1 on error.
func Run(args []string, deps Dependencies) int {
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}
	if deps.ErrOut == nil {
		deps.ErrOut = os.Stderr
	}
	if deps.Context == nil {
		deps.Context = context.Background()
	}

	cli := CLI{}
	parser, err := kong.New(&cli,
		kong.Name(meta.AppName),
		kong.Description("Catalog of baked AMIs and their lineage."),
		kong.Writers(out, out),
	)
	if err != nil {
		return exitWithError(out, err)
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return handleParseError(err, out)
	}

	command := ctx.Command()
	if exitCode, handled := dispatchCommand(command, cli, deps, out); handled {
		return exitCode
	}

	fmt.Fprintln(out, "unknown command")
	return 1
}

type commandHandler func(CLI, Dependencies, io.Writer) int

func dispatchCommand(command string, cli CLI, deps Dependencies, out io.Writer) (int, bool) {
	handlers := map[string]commandHandler{
		"put":           runPut,
		"get":           runGet,
		"notify attach": runNotifyAttach,
		"notify detach": runNotifyDetach,
		"table create":  runTableCreate,
		"serve":         runServe,
		"config init":   runConfigInit,
		"config show":   runConfigShow,
		"version":       func(_ CLI, _ Dependencies, out io.Writer) int { return runVersion(out) },
	}

	if handler, ok := handlers[command]; ok {
		return handler(cli, deps, out), true
	}
	return 1, false
}

// runVersion prints the version information of the CLI.
func runVersion(out io.Writer) int {
	fmt.Fprintln(out, version.GetVersion())
	return 0
}

func exitWithError(out io.Writer, err error) int {
	fmt.Fprintf(out, "Error: %v\n", err)
	return 1
}

// handleParseError provides user-friendly error messages for parse failures.
func handleParseError(err error, out io.Writer) int {
	fmt.Fprintf(out, "Error: %v\n", err)
	if strings.Contains(err.Error(), "expected one of") || strings.Contains(err.Error(), "unexpected argument") {
		fmt.Fprintf(out, "Run '%s --help' for the list of commands.\n", meta.AppName)
	}
	return 1
}

// prepare resolves the settings and configures logging for a command.
func prepare(cli CLI, deps Dependencies) (config.Settings, error) {
	settings, err := resolveSettings(cli)
	if err != nil {
		return config.Settings{}, err
	}
	if err := logging.Setup(deps.ErrOut, settings.LogLevel, logging.FormatConsole); err != nil {
		return config.Settings{}, err
	}
	return settings, nil
}
