// Where: internal/readapi/list.go
// What: List every stored record as plain documents.
// Why: The HTTP API and the CLI share one read path.
package readapi

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/poruru/ami-catalog/internal/docvalue"
)

// Scanner returns every item in the record table.
type Scanner interface {
	Scan(ctx context.Context) ([]map[string]types.AttributeValue, error)
}

// List scans the table and converts each item to a plain document.
// Attributes other than strings and mappings are dropped.
func List(ctx context.Context, scanner Scanner) ([]map[string]any, error) {
	if scanner == nil {
		return nil, errors.New("record scanner is nil")
	}
	items, err := scanner.Scan(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]map[string]any, 0, len(items))
	for _, item := range items {
		docs = append(docs, docvalue.FromItem(item).Plain())
	}
	return docs, nil
}
