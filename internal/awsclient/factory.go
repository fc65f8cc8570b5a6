// Where: internal/awsclient/factory.go
// What: AWS client factory for DynamoDB, S3 and Lambda.
// Why: Encapsulate SDK configuration for regions and local endpoints.
package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/poruru/ami-catalog/internal/config"
)

const (
	defaultAWSRegion = "ap-southeast-2"
	localAccessKey   = "dummy"
	localSecretKey   = "dummy"
)

// Clients bundles the service clients used by the functions and the CLI.
type Clients struct {
	DynamoDB *dynamodb.Client
	S3       *s3.Client
	Lambda   *lambda.Client
}

// New loads the SDK configuration for settings and builds the clients.
func New(ctx context.Context, settings config.Settings) (Clients, error) {
	cfg, err := LoadConfig(ctx, settings)
	if err != nil {
		return Clients{}, err
	}
	endpoints := settings.Endpoints
	return Clients{
		DynamoDB: dynamodb.NewFromConfig(cfg, func(options *dynamodb.Options) {
			if endpoints.DynamoDB != "" {
				options.BaseEndpoint = aws.String(endpoints.DynamoDB)
			}
		}),
		S3: s3.NewFromConfig(cfg, func(options *s3.Options) {
			if endpoints.S3 != "" {
				options.BaseEndpoint = aws.String(endpoints.S3)
				options.UsePathStyle = true
			}
		}),
		Lambda: lambda.NewFromConfig(cfg, func(options *lambda.Options) {
			if endpoints.Lambda != "" {
				options.BaseEndpoint = aws.String(endpoints.Lambda)
			}
		}),
	}, nil
}

// LoadConfig resolves the region and credentials. Static credentials are
// only used when a local endpoint is configured.
func LoadConfig(ctx context.Context, settings config.Settings) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(Region(settings)),
	}
	if settings.Endpoints.Any() {
		opts = append(opts, awsconfig.WithCredentialsProvider(staticCredentials(settings)))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

// Region returns the configured region or the default one.
func Region(settings config.Settings) string {
	if settings.Region != "" {
		return settings.Region
	}
	return defaultAWSRegion
}

func staticCredentials(settings config.Settings) credentials.StaticCredentialsProvider {
	accessKey := settings.AccessKey
	if accessKey == "" {
		accessKey = localAccessKey
	}
	secretKey := settings.SecretKey
	if secretKey == "" {
		secretKey = localSecretKey
	}
	return credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")
}
