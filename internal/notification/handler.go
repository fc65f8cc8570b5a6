// Where: internal/notification/handler.go
// What: CloudFormation custom resource for bucket notifications.
// Why: Stacks cannot attach a notification to a bucket they do not own.
package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog/log"
)

// ResourceProperties is the custom resource property set.
type ResourceProperties struct {
	Region       string                 `mapstructure:"Region"`
	AccountID    string                 `mapstructure:"AccountId"`
	StackName    string                 `mapstructure:"StackName"`
	Notification NotificationProperties `mapstructure:"LambdaNotification"`
}

// NotificationProperties mirrors Spec inside the resource properties.
type NotificationProperties struct {
	Bucket   string `mapstructure:"Bucket"`
	Function string `mapstructure:"Function"`
	Prefix   string `mapstructure:"Prefix"`
	Suffix   string `mapstructure:"Suffix"`
}

// Spec returns the notification described by the properties.
func (p NotificationProperties) Spec() Spec {
	return Spec{Bucket: p.Bucket, Function: p.Function, Prefix: p.Prefix, Suffix: p.Suffix}
}

// DecodeProperties reads the custom resource properties.
func DecodeProperties(raw map[string]interface{}) (ResourceProperties, error) {
	var props ResourceProperties
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &props,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return ResourceProperties{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return ResourceProperties{}, fmt.Errorf("decode resource properties: %w", err)
	}
	return props, nil
}

// ManagerFactory builds a Manager for a region and account.
type ManagerFactory func(ctx context.Context, region, accountID string) (*Manager, error)

// Handler serves Custom::S3LambdaNotification requests.
type Handler struct {
	NewManager ManagerFactory
}

// Handle implements the cfn.CustomResourceFunction contract. The physical id
// is returned on failure too so CloudFormation keeps a valid resource id.
func (h Handler) Handle(ctx context.Context, event cfn.Event) (string, map[string]interface{}, error) {
	logger := log.Ctx(ctx)
	logger.Info().
		Str("request_type", string(event.RequestType)).
		Str("logical_id", event.LogicalResourceID).
		Interface("properties", event.ResourceProperties).
		Msg("custom resource request")

	props, err := DecodeProperties(event.ResourceProperties)
	physicalID := event.PhysicalResourceID
	if physicalID == "" {
		physicalID = PhysicalID(props.Notification.Spec())
	}
	if err != nil {
		return physicalID, nil, err
	}
	if props.Notification.Bucket == "" {
		logger.Info().Msg("skipping notification change; bucket name is empty")
		return physicalID, map[string]interface{}{}, nil
	}
	if h.NewManager == nil {
		return physicalID, nil, errors.New("notification manager factory is nil")
	}
	manager, err := h.NewManager(ctx, props.Region, props.AccountID)
	if err != nil {
		return physicalID, nil, err
	}

	switch event.RequestType {
	case cfn.RequestCreate:
		id, err := manager.Attach(ctx, props.Notification.Spec())
		if err != nil {
			return physicalID, nil, err
		}
		return id, physicalIDData(id), nil
	case cfn.RequestUpdate:
		if err := manager.Detach(ctx, physicalID); err != nil {
			return physicalID, nil, err
		}
		id, err := manager.Attach(ctx, props.Notification.Spec())
		if err != nil {
			return physicalID, nil, err
		}
		return id, physicalIDData(id), nil
	case cfn.RequestDelete:
		if err := manager.Detach(ctx, physicalID); err != nil {
			return physicalID, nil, err
		}
		return physicalID, physicalIDData(physicalID), nil
	default:
		return physicalID, nil, fmt.Errorf("unsupported request type: %s", event.RequestType)
	}
}

func physicalIDData(id string) map[string]interface{} {
	return map[string]interface{}{"PhysicalResourceId": id}
}
