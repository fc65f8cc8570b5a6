// Where: internal/app/settings.go
// What: Settings resolution for CLI commands.
// Why: Flags win over the environment, which wins over ~/.amis/config.yaml.
package app

import (
	"strings"

	"github.com/poruru/ami-catalog/internal/config"
)

func resolveSettings(cli CLI) (config.Settings, error) {
	settings := config.FromEnv()
	override(&settings.Region, cli.Region)
	override(&settings.Table, cli.TableName)
	override(&settings.Endpoints.DynamoDB, cli.EndpointDynamoDB)
	override(&settings.Endpoints.S3, cli.EndpointS3)
	override(&settings.Endpoints.Lambda, cli.EndpointLambda)
	override(&settings.LogLevel, cli.LogLevel)

	path, err := configPath(cli)
	if err != nil {
		return config.Settings{}, err
	}
	file, err := config.LoadFile(path)
	if err != nil {
		return config.Settings{}, err
	}
	return settings.WithDefaults(file), nil
}

func configPath(cli CLI) (string, error) {
	if path := strings.TrimSpace(cli.ConfigFile); path != "" {
		return path, nil
	}
	return config.FilePath()
}

func override(target *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*target = value
	}
}
