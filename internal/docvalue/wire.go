// Where: internal/docvalue/wire.go
// What: Conversion between Mapping and DynamoDB attribute values.
// Why: Records are stored with S and M members only.
package docvalue

import (
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ToItem converts a mapping into a DynamoDB item.
// Strings become S members and mappings become M members, recursively.
func ToItem(m Mapping) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(m))
	for key, item := range m {
		if av, ok := toAttribute(item); ok {
			out[key] = av
		}
	}
	return out
}

func toAttribute(value Value) (types.AttributeValue, bool) {
	switch v := value.(type) {
	case String:
		return &types.AttributeValueMemberS{Value: string(v)}, true
	case Mapping:
		return &types.AttributeValueMemberM{Value: ToItem(v)}, true
	default:
		return nil, false
	}
}

// FromItem converts a DynamoDB item back into a mapping.
// Members other than S and M are dropped.
func FromItem(item map[string]types.AttributeValue) Mapping {
	out := make(Mapping, len(item))
	for key, av := range item {
		switch v := av.(type) {
		case *types.AttributeValueMemberS:
			out[key] = String(v.Value)
		case *types.AttributeValueMemberM:
			out[key] = FromItem(v.Value)
		}
	}
	return out
}

// PlainToItem converts a plain document straight to an item, dropping
// values that are neither strings nor mappings.
func PlainToItem(doc map[string]any) map[string]types.AttributeValue {
	return ToItem(MappingFromPlain(doc))
}

// MarshalWire renders an item in the tagged JSON form used in logs,
// e.g. {"id":{"S":"ami-1"},"summary":{"M":{}}}.
func MarshalWire(item map[string]types.AttributeValue) ([]byte, error) {
	return json.Marshal(wireDocument(item))
}

func wireDocument(item map[string]types.AttributeValue) map[string]any {
	out := make(map[string]any, len(item))
	for key, av := range item {
		switch v := av.(type) {
		case *types.AttributeValueMemberS:
			out[key] = map[string]any{"S": v.Value}
		case *types.AttributeValueMemberM:
			out[key] = map[string]any{"M": wireDocument(v.Value)}
		}
	}
	return out
}
