// Where: internal/notification/manager.go
// What: Attach and detach S3 -> Lambda bucket notifications.
// Why: A bucket has one notification configuration shared by every consumer.
package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/poruru/ami-catalog/internal/apperr"
	"github.com/rs/zerolog/log"
)

const s3Principal = "s3.amazonaws.com"

// S3API is the subset of the S3 client used for bucket notifications.
type S3API interface {
	GetBucketNotificationConfiguration(ctx context.Context, params *s3.GetBucketNotificationConfigurationInput, optFns ...func(*s3.Options)) (*s3.GetBucketNotificationConfigurationOutput, error)
	PutBucketNotificationConfiguration(ctx context.Context, params *s3.PutBucketNotificationConfigurationInput, optFns ...func(*s3.Options)) (*s3.PutBucketNotificationConfigurationOutput, error)
}

// LambdaAPI is the subset of the Lambda client used for invoke permissions.
type LambdaAPI interface {
	AddPermission(ctx context.Context, params *lambda.AddPermissionInput, optFns ...func(*lambda.Options)) (*lambda.AddPermissionOutput, error)
	RemovePermission(ctx context.Context, params *lambda.RemovePermissionInput, optFns ...func(*lambda.Options)) (*lambda.RemovePermissionOutput, error)
}

// Manager edits bucket notification configurations.
type Manager struct {
	S3     S3API
	Lambda LambdaAPI
	// AccountID restricts the invoke permission to buckets owned by the account when set.
	AccountID string
}

// Attach grants S3 permission to invoke spec.Function and adds the
// notification to the bucket. An entry with the same id is replaced.
// It returns the physical id.
func (m *Manager) Attach(ctx context.Context, spec Spec) (string, error) {
	if err := m.check(); err != nil {
		return "", err
	}
	if spec.Bucket == "" || spec.Function == "" {
		return "", apperr.Malformed("bucket and function are required")
	}
	logger := log.Ctx(ctx)
	id := PhysicalID(spec)
	entry := lambdaConfiguration(id, spec)
	logger.Info().
		Str("bucket", spec.Bucket).
		Str("function", spec.Function).
		Int("filters", filterCount(entry)).
		Msg("associating function with bucket")

	input := &lambda.AddPermissionInput{
		Action:       aws.String("lambda:InvokeFunction"),
		FunctionName: aws.String(spec.Function),
		Principal:    aws.String(s3Principal),
		StatementId:  aws.String(StatementID(spec.Bucket, spec.Function)),
		SourceArn:    aws.String("arn:aws:s3:::" + spec.Bucket),
	}
	if m.AccountID != "" {
		input.SourceAccount = aws.String(m.AccountID)
	}
	if _, err := m.Lambda.AddPermission(ctx, input); err != nil {
		var conflict *lambdatypes.ResourceConflictException
		if !errors.As(err, &conflict) {
			return "", apperr.Upstream("lambda AddPermission", err)
		}
		logger.Info().Err(err).Msg("invoke permission already exists; continuing")
	}

	current, err := m.S3.GetBucketNotificationConfiguration(ctx, &s3.GetBucketNotificationConfigurationInput{
		Bucket: aws.String(spec.Bucket),
	})
	if err != nil {
		return "", apperr.Upstream("s3 GetBucketNotificationConfiguration", err)
	}

	configs := make([]s3types.LambdaFunctionConfiguration, 0, len(current.LambdaFunctionConfigurations)+1)
	replaced := false
	for _, existing := range current.LambdaFunctionConfigurations {
		if aws.ToString(existing.Id) == id {
			configs = append(configs, entry)
			replaced = true
			continue
		}
		configs = append(configs, existing)
	}
	if !replaced {
		configs = append(configs, entry)
	}

	logger.Info().Str("bucket", spec.Bucket).Int("lambda_configurations", len(configs)).Msg("writing notification configuration")
	if err := m.put(ctx, spec.Bucket, current, configs); err != nil {
		return "", err
	}
	return id, nil
}

// Detach removes the invoke permission and the notification named by physicalID.
// Missing permissions or entries are treated as already removed.
func (m *Manager) Detach(ctx context.Context, physicalID string) error {
	if err := m.check(); err != nil {
		return err
	}
	bucket, function, err := ParsePhysicalID(physicalID)
	if err != nil {
		return err
	}
	logger := log.Ctx(ctx)
	if bucket == "" {
		logger.Info().Msg("skipping notification removal; bucket name is empty")
		return nil
	}

	logger.Info().Str("function", function).Msg("removing S3 invoke permission")
	_, err = m.Lambda.RemovePermission(ctx, &lambda.RemovePermissionInput{
		FunctionName: aws.String(function),
		StatementId:  aws.String(StatementID(bucket, function)),
	})
	if err != nil {
		var missing *lambdatypes.ResourceNotFoundException
		if !errors.As(err, &missing) {
			return apperr.Upstream("lambda RemovePermission", err)
		}
		logger.Info().Err(err).Msg("invoke permission already removed; continuing")
	}

	current, err := m.S3.GetBucketNotificationConfiguration(ctx, &s3.GetBucketNotificationConfigurationInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return apperr.Upstream("s3 GetBucketNotificationConfiguration", err)
	}

	configs := make([]s3types.LambdaFunctionConfiguration, 0, len(current.LambdaFunctionConfigurations))
	for _, existing := range current.LambdaFunctionConfigurations {
		if aws.ToString(existing.Id) == physicalID {
			continue
		}
		configs = append(configs, existing)
	}
	if len(configs) == len(current.LambdaFunctionConfigurations) {
		logger.Info().Str("id", physicalID).Msg("notification not found; already removed")
		return nil
	}

	logger.Info().Str("bucket", bucket).Int("lambda_configurations", len(configs)).Msg("writing notification configuration")
	return m.put(ctx, bucket, current, configs)
}

func (m *Manager) check() error {
	if m == nil || m.S3 == nil || m.Lambda == nil {
		return errors.New("notification manager clients are nil")
	}
	return nil
}

// put writes configs back, keeping the bucket's topic, queue and EventBridge settings.
func (m *Manager) put(ctx context.Context, bucket string, current *s3.GetBucketNotificationConfigurationOutput, configs []s3types.LambdaFunctionConfiguration) error {
	_, err := m.S3.PutBucketNotificationConfiguration(ctx, &s3.PutBucketNotificationConfigurationInput{
		Bucket: aws.String(bucket),
		NotificationConfiguration: &s3types.NotificationConfiguration{
			EventBridgeConfiguration:     current.EventBridgeConfiguration,
			LambdaFunctionConfigurations: configs,
			QueueConfigurations:          current.QueueConfigurations,
			TopicConfigurations:          current.TopicConfigurations,
		},
	})
	if err != nil {
		return apperr.Upstream(fmt.Sprintf("s3 PutBucketNotificationConfiguration %s", bucket), err)
	}
	return nil
}

func lambdaConfiguration(id string, spec Spec) s3types.LambdaFunctionConfiguration {
	entry := s3types.LambdaFunctionConfiguration{
		Id:                aws.String(id),
		LambdaFunctionArn: aws.String(spec.Function),
		Events:            []s3types.Event{s3types.EventS3ObjectCreatedPut},
	}
	var rules []s3types.FilterRule
	if spec.Prefix != "" {
		rules = append(rules, s3types.FilterRule{Name: s3types.FilterRuleNamePrefix, Value: aws.String(spec.Prefix)})
	}
	if spec.Suffix != "" {
		rules = append(rules, s3types.FilterRule{Name: s3types.FilterRuleNameSuffix, Value: aws.String(spec.Suffix)})
	}
	if len(rules) > 0 {
		entry.Filter = &s3types.NotificationConfigurationFilter{
			Key: &s3types.S3KeyFilter{FilterRules: rules},
		}
	}
	return entry
}

func filterCount(entry s3types.LambdaFunctionConfiguration) int {
	if entry.Filter == nil || entry.Filter.Key == nil {
		return 0
	}
	return len(entry.Filter.Key.FilterRules)
}
