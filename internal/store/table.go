// Where: internal/store/table.go
// What: Table provisioning for the records table.
// Why: Local and fresh environments need the same key schema as the stack.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/poruru/ami-catalog/internal/apperr"
	"github.com/poruru/ami-catalog/internal/record"
)

const defaultTableWait = 2 * time.Minute

// TableAPI is the subset of the DynamoDB client used for provisioning.
type TableAPI interface {
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// TableSpec describes the records table.
type TableSpec struct {
	Name               string
	BillingMode        string
	ReadCapacityUnits  int64
	WriteCapacityUnits int64
	// Wait bounds how long EnsureTable waits for ACTIVE; zero uses the default.
	Wait time.Duration
}

// DefaultTableSpec matches the stack definition: provisioned 5/5.
func DefaultTableSpec(name string) TableSpec {
	return TableSpec{
		Name:               name,
		BillingMode:        "PROVISIONED",
		ReadCapacityUnits:  5,
		WriteCapacityUnits: 5,
	}
}

// EnsureTable creates the table when it does not exist and waits until it is active.
// It returns true when the table was created.
func EnsureTable(ctx context.Context, client TableAPI, spec TableSpec, out io.Writer) (bool, error) {
	if client == nil {
		return false, errors.New("dynamodb client is nil")
	}
	if out == nil {
		out = io.Discard
	}
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return false, errors.New("table name is required")
	}

	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)})
	if err == nil {
		fmt.Fprintf(out, "Table '%s' already exists. Skipping.\n", name)
		return false, nil
	}
	var missing *types.ResourceNotFoundException
	if !errors.As(err, &missing) {
		return false, apperr.Upstream("dynamodb DescribeTable", err)
	}

	input, err := buildCreateTableInput(spec)
	if err != nil {
		return false, err
	}
	fmt.Fprintf(out, "Creating DynamoDB Table: %s\n", name)
	if _, err := client.CreateTable(ctx, input); err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			fmt.Fprintf(out, "Table '%s' already exists. Skipping.\n", name)
			return false, nil
		}
		return false, apperr.Upstream("dynamodb CreateTable", err)
	}

	wait := spec.Wait
	if wait <= 0 {
		wait = defaultTableWait
	}
	waiter := dynamodb.NewTableExistsWaiter(client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)}, wait); err != nil {
		return true, fmt.Errorf("wait for table %s: %w", name, err)
	}
	fmt.Fprintf(out, "✅ Created DynamoDB Table: %s\n", name)
	return true, nil
}

func buildCreateTableInput(spec TableSpec) (*dynamodb.CreateTableInput, error) {
	billingMode, err := mapBillingMode(spec.BillingMode)
	if err != nil {
		return nil, err
	}
	out := &dynamodb.CreateTableInput{
		TableName: aws.String(strings.TrimSpace(spec.Name)),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(record.AttrID), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(record.AttrID), AttributeType: types.ScalarAttributeTypeS},
		},
		BillingMode: billingMode,
	}
	if billingMode == types.BillingModeProvisioned {
		read, write := spec.ReadCapacityUnits, spec.WriteCapacityUnits
		if read <= 0 {
			read = 1
		}
		if write <= 0 {
			write = 1
		}
		out.ProvisionedThroughput = &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(read),
			WriteCapacityUnits: aws.Int64(write),
		}
	}
	return out, nil
}

func mapBillingMode(value string) (types.BillingMode, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "PAY_PER_REQUEST":
		return types.BillingModePayPerRequest, nil
	case "PROVISIONED", "":
		return types.BillingModeProvisioned, nil
	default:
		return "", fmt.Errorf("unsupported billing mode: %s", value)
	}
}
