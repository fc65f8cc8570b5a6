// Where: internal/notification/spec.go
// What: Notification identity: physical id and permission statement id.
// Why: Delete and update requests only carry the physical id.
package notification

import (
	"strings"

	"github.com/google/uuid"
	"github.com/poruru/ami-catalog/internal/apperr"
)

// PhysicalIDSeparator joins bucket and function in a physical id.
const PhysicalIDSeparator = "___"

// Spec describes one bucket -> function notification.
type Spec struct {
	Bucket   string
	Function string
	Prefix   string
	Suffix   string
}

// PhysicalID returns "<bucket>___<function>".
func PhysicalID(spec Spec) string {
	return spec.Bucket + PhysicalIDSeparator + spec.Function
}

// ParsePhysicalID splits a physical id into bucket and function.
func ParsePhysicalID(id string) (bucket, function string, err error) {
	bucket, function, ok := strings.Cut(id, PhysicalIDSeparator)
	if !ok {
		return "", "", apperr.Malformed("physical id %q has no %s separator", id, PhysicalIDSeparator)
	}
	return bucket, function, nil
}

// StatementID returns the Lambda permission statement id for bucket and function.
// The id is a name-based UUID so create and delete agree across invocations.
func StatementID(bucket, function string) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(bucket+function))
	return "ID" + strings.ReplaceAll(id.String(), "-", "")
}
