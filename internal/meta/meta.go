// Where: internal/meta/meta.go
// What: Project identity constants.
// Why: Keep names shared by the CLI, config and env lookup in one place.
package meta

const (
	// Project Identity
	AppName   = "amis"
	EnvPrefix = "AMIS"

	// Directory Layout
	HomeDir        = ".amis"
	ConfigFileName = "config.yaml"
)
