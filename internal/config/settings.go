// Where: internal/config/settings.go
// What: Runtime settings shared by the functions and the CLI.
// Why: Both read the same region, table and endpoint overrides.
package config

import (
	"errors"
	"strings"

	"github.com/poruru/ami-catalog/internal/constants"
	"github.com/poruru/ami-catalog/internal/envutil"
)

// ErrTableRequired is returned when no table name is configured.
var ErrTableRequired = errors.New("table name is required")

// Endpoints overrides the AWS service endpoints, e.g. for LocalStack.
type Endpoints struct {
	DynamoDB string `yaml:"dynamodb,omitempty"`
	S3       string `yaml:"s3,omitempty"`
	Lambda   string `yaml:"lambda,omitempty"`
}

// Any reports whether at least one endpoint is overridden.
func (e Endpoints) Any() bool {
	return e.DynamoDB != "" || e.S3 != "" || e.Lambda != ""
}

// Settings are the resolved runtime settings.
type Settings struct {
	Region    string
	Table     string
	Endpoints Endpoints
	AccessKey string
	SecretKey string
	LogLevel  string
	LogFormat string
}

// FromEnv reads settings from the function environment.
// REGION and TABLE come from the deployment template; AMIS_* values override them.
func FromEnv() Settings {
	return Settings{
		Region: firstNonEmpty(
			envutil.GetHostEnv(constants.HostSuffixRegion),
			envutil.FirstEnv(constants.EnvRegion, constants.EnvAWSRegion),
		),
		Table: firstNonEmpty(
			envutil.GetHostEnv(constants.HostSuffixTable),
			envutil.FirstEnv(constants.EnvTable),
		),
		Endpoints: Endpoints{
			DynamoDB: envutil.GetHostEnv(constants.HostSuffixEndpointDynamoDB),
			S3:       envutil.GetHostEnv(constants.HostSuffixEndpointS3),
			Lambda:   envutil.GetHostEnv(constants.HostSuffixEndpointLambda),
		},
		AccessKey: envutil.GetHostEnv(constants.HostSuffixAccessKey),
		SecretKey: envutil.GetHostEnv(constants.HostSuffixSecretKey),
		LogLevel:  envutil.GetHostEnv(constants.HostSuffixLogLevel),
		LogFormat: envutil.GetHostEnv(constants.HostSuffixLogFormat),
	}
}

// WithDefaults fills empty fields of s from defaults.
func (s Settings) WithDefaults(defaults File) Settings {
	s.Region = firstNonEmpty(s.Region, defaults.Region)
	s.Table = firstNonEmpty(s.Table, defaults.Table)
	s.Endpoints.DynamoDB = firstNonEmpty(s.Endpoints.DynamoDB, defaults.Endpoints.DynamoDB)
	s.Endpoints.S3 = firstNonEmpty(s.Endpoints.S3, defaults.Endpoints.S3)
	s.Endpoints.Lambda = firstNonEmpty(s.Endpoints.Lambda, defaults.Endpoints.Lambda)
	s.LogLevel = firstNonEmpty(s.LogLevel, defaults.LogLevel)
	return s
}

// RequireTable returns ErrTableRequired when the table is unset.
func (s Settings) RequireTable() error {
	if strings.TrimSpace(s.Table) == "" {
		return ErrTableRequired
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}
