// Where: internal/constants/env.go
// What: Environment variable naming constants.
// Why: Centralize environment variable names to avoid typos and inconsistencies.
package constants

const (
	// Function Configuration (set by the deployment template)
	EnvRegion = "REGION"
	EnvTable  = "TABLE"

	// SDK fallback
	EnvAWSRegion = "AWS_REGION"
)

// Host-level suffixes, prefixed with AMIS_ by envutil.HostEnvKey.
const (
	HostSuffixRegion           = "REGION"
	HostSuffixTable            = "TABLE"
	HostSuffixEndpointDynamoDB = "ENDPOINT_DYNAMODB"
	HostSuffixEndpointS3       = "ENDPOINT_S3"
	HostSuffixEndpointLambda   = "ENDPOINT_LAMBDA"
	HostSuffixAccessKey        = "ACCESS_KEY"
	HostSuffixSecretKey        = "SECRET_KEY"
	HostSuffixLogLevel         = "LOG_LEVEL"
	HostSuffixLogFormat        = "LOG_FORMAT"
	HostSuffixConfigPath       = "CONFIG_PATH"
	HostSuffixConfigHome       = "CONFIG_HOME"
)
