// Where: internal/app/config_cmd.go
// What: Configuration management commands.
// Why: Persist CLI defaults such as region, table and local endpoints.
package app

import (
	"fmt"
	"io"

	"github.com/poruru/ami-catalog/internal/config"
	"gopkg.in/yaml.v3"
)

// ConfigCmd groups configuration subcommands.
type ConfigCmd struct {
	Init ConfigInitCmd `cmd:"" help:"Write the current settings as defaults"`
	Show ConfigShowCmd `cmd:"" help:"Print the config file"`
}

type (
	ConfigInitCmd struct{}
	ConfigShowCmd struct{}
)

// runConfigInit saves the resolved region, table and endpoints to the config file.
func runConfigInit(cli CLI, _ Dependencies, out io.Writer) int {
	settings, err := resolveSettings(cli)
	if err != nil {
		return exitWithError(out, err)
	}
	path, err := configPath(cli)
	if err != nil {
		return exitWithError(out, err)
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		return exitWithError(out, err)
	}
	cfg.Region = settings.Region
	cfg.Table = settings.Table
	cfg.Endpoints = settings.Endpoints
	cfg.LogLevel = settings.LogLevel
	if err := config.SaveFile(path, cfg); err != nil {
		return exitWithError(out, err)
	}

	fmt.Fprintf(out, "updated config: %s\n", path)
	return 0
}

func runConfigShow(cli CLI, _ Dependencies, out io.Writer) int {
	path, err := configPath(cli)
	if err != nil {
		return exitWithError(out, err)
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return exitWithError(out, err)
	}
	payload, err := yaml.Marshal(&cfg)
	if err != nil {
		return exitWithError(out, err)
	}
	fmt.Fprintf(out, "# %s\n%s", path, payload)
	return 0
}
