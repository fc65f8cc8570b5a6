// Where: internal/app/app_test.go
// What: Tests for CLI run behavior.
// Why: Ensure command wiring and output formats are stable.
package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/labstack/echo/v4"
	"github.com/poruru/ami-catalog/internal/artifacts"
	"github.com/poruru/ami-catalog/internal/config"
	"github.com/poruru/ami-catalog/internal/notification"
	"github.com/poruru/ami-catalog/internal/store"
)

type fakeRecords struct {
	items    map[string]map[string]types.AttributeValue
	order    []string
	scanErr  error
	putCalls int
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{items: map[string]map[string]types.AttributeValue{}}
}

func (f *fakeRecords) Exists(_ context.Context, id string) (bool, error) {
	_, ok := f.items[id]
	return ok, nil
}

func (f *fakeRecords) Put(_ context.Context, item map[string]types.AttributeValue, _ store.PutOptions) error {
	f.putCalls++
	id := item["id"].(*types.AttributeValueMemberS).Value
	if _, ok := f.items[id]; !ok {
		f.order = append(f.order, id)
	}
	f.items[id] = item
	return nil
}

func (f *fakeRecords) Scan(context.Context) ([]map[string]types.AttributeValue, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	out := make([]map[string]types.AttributeValue, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.items[id])
	}
	return out, nil
}

type fakeArchives struct {
	payload []byte
	key     string
}

func (f *fakeArchives) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.key = aws.ToString(params.Key)
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(f.payload))}, nil
}

type fakeTables struct {
	created *dynamodb.CreateTableInput
}

func (f *fakeTables) DescribeTable(_ context.Context, params *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	if f.created == nil {
		return nil, &types.ResourceNotFoundException{Message: aws.String("missing")}
	}
	return &dynamodb.DescribeTableOutput{Table: &types.TableDescription{
		TableName:   params.TableName,
		TableStatus: types.TableStatusActive,
	}}, nil
}

func (f *fakeTables) CreateTable(_ context.Context, params *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	f.created = params
	return &dynamodb.CreateTableOutput{}, nil
}

type fakeBucket struct {
	current *s3.GetBucketNotificationConfigurationOutput
}

func (f *fakeBucket) GetBucketNotificationConfiguration(context.Context, *s3.GetBucketNotificationConfigurationInput, ...func(*s3.Options)) (*s3.GetBucketNotificationConfigurationOutput, error) {
	if f.current == nil {
		return &s3.GetBucketNotificationConfigurationOutput{}, nil
	}
	return f.current, nil
}

func (f *fakeBucket) PutBucketNotificationConfiguration(_ context.Context, params *s3.PutBucketNotificationConfigurationInput, _ ...func(*s3.Options)) (*s3.PutBucketNotificationConfigurationOutput, error) {
	f.current = &s3.GetBucketNotificationConfigurationOutput{
		LambdaFunctionConfigurations: params.NotificationConfiguration.LambdaFunctionConfigurations,
	}
	return &s3.PutBucketNotificationConfigurationOutput{}, nil
}

type fakePermissions struct{}

func (fakePermissions) AddPermission(context.Context, *lambda.AddPermissionInput, ...func(*lambda.Options)) (*lambda.AddPermissionOutput, error) {
	return &lambda.AddPermissionOutput{}, nil
}

func (fakePermissions) RemovePermission(context.Context, *lambda.RemovePermissionInput, ...func(*lambda.Options)) (*lambda.RemovePermissionOutput, error) {
	return &lambda.RemovePermissionOutput{}, nil
}

type testEnv struct {
	records  *fakeRecords
	archives *fakeArchives
	tables   *fakeTables
	bucket   *fakeBucket
	settings config.Settings
	out      bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("ENV_PREFIX", "")
	t.Setenv("AMIS_CONFIG_PATH", filepath.Join(t.TempDir(), "config.yaml"))
	t.Setenv("REGION", "")
	t.Setenv("TABLE", "")
	t.Setenv("AMIS_TABLE", "")
	t.Setenv("AMIS_LOG_LEVEL", "")
	return &testEnv{
		records:  newFakeRecords(),
		archives: &fakeArchives{},
		tables:   &fakeTables{},
		bucket:   &fakeBucket{},
	}
}

func (e *testEnv) deps() Dependencies {
	return Dependencies{
		Out:    &e.out,
		ErrOut: io.Discard,
		Services: func(_ context.Context, settings config.Settings) (Services, error) {
			e.settings = settings
			return Services{
				Records:       e.records,
				Archives:      e.archives,
				Tables:        e.tables,
				Notifications: &notification.Manager{S3: e.bucket, Lambda: fakePermissions{}},
			}, nil
		},
	}
}

func writeBuildFolder(t *testing.T, dir string) {
	t.Helper()
	files := map[string]string{
		"produced-ami.json": `{"ImageId":"ami-2","Name":"n"}`,
		"source-ami.json":   `{"ImageId":"ami-1","Name":"base"}`,
		"ohai.json":         `{"packages":{"docker.io":"1.0"},"languages":{},"hostnamectl":{"kernel":"5.10","operating_system":"linux"}}`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestRunVersion(t *testing.T) {
	env := newTestEnv(t)
	if code := Run([]string{"version"}, env.deps()); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if strings.TrimSpace(env.out.String()) == "" {
		t.Fatalf("expected version output")
	}
}

func TestRunUnknownCommand(t *testing.T) {
	env := newTestEnv(t)
	if code := Run([]string{"launch"}, env.deps()); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(env.out.String(), "Error:") {
		t.Fatalf("expected error output, got %q", env.out.String())
	}
}

func TestRunPutFromDir(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	writeBuildFolder(t, dir)

	code := Run([]string{"--table", "amis", "put", "--dir", dir}, env.deps())
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, env.out.String())
	}
	if strings.Join(env.records.order, ",") != "ami-1,ami-2" {
		t.Fatalf("unexpected write order: %v", env.records.order)
	}
	if !strings.Contains(env.out.String(), "ami-2 (parent: ami-1)") {
		t.Fatalf("unexpected output: %q", env.out.String())
	}
	if env.settings.Table != "amis" {
		t.Fatalf("table flag not applied: %+v", env.settings)
	}
}

func TestRunPutFromBucketDryRun(t *testing.T) {
	env := newTestEnv(t)
	payload, err := artifacts.BuildArchive(map[string][]byte{
		"produced-ami.json": []byte(`{"ImageId":"ami-2"}`),
		"source-ami.json":   []byte(`{"ImageId":"ami-1"}`),
		"ohai.json":         []byte(`{}`),
	})
	if err != nil {
		t.Fatalf("build archive: %v", err)
	}
	env.archives.payload = payload
	env.records.items["ami-1"] = map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "ami-1"}}

	code := Run([]string{"--table", "amis", "put", "--bucket", "builds", "--key", "base/2021/ohai.json", "--dry-run"}, env.deps())
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, env.out.String())
	}
	if env.archives.key != "base/2021/build.zip" {
		t.Fatalf("unexpected archive key: %s", env.archives.key)
	}
	if env.records.putCalls != 0 {
		t.Fatalf("dry run wrote %d records", env.records.putCalls)
	}
	var docs []map[string]any
	if err := json.Unmarshal(env.out.Bytes(), &docs); err != nil {
		t.Fatalf("decode output %q: %v", env.out.String(), err)
	}
	if len(docs) != 1 || docs[0]["id"] != "ami-2" || docs[0]["parent"] != "ami-1" {
		t.Fatalf("unexpected plan: %v", docs)
	}
}

func TestRunPutRequiresSource(t *testing.T) {
	env := newTestEnv(t)
	code := Run([]string{"--table", "amis", "put", "--bucket", "builds"}, env.deps())
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(env.out.String(), errPutSource.Error()) {
		t.Fatalf("unexpected output: %q", env.out.String())
	}
}

func TestRunGetRequiresTable(t *testing.T) {
	env := newTestEnv(t)
	if code := Run([]string{"get"}, env.deps()); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(env.out.String(), config.ErrTableRequired.Error()) {
		t.Fatalf("unexpected output: %q", env.out.String())
	}
}

func seedRecords(env *testEnv) {
	env.records.Put(context.Background(), map[string]types.AttributeValue{
		"id":     &types.AttributeValueMemberS{Value: "ami-1"},
		"parent": &types.AttributeValueMemberS{Value: "unknown"},
	}, store.PutOptions{})
	env.records.Put(context.Background(), map[string]types.AttributeValue{
		"id":     &types.AttributeValueMemberS{Value: "ami-2"},
		"parent": &types.AttributeValueMemberS{Value: "ami-1"},
	}, store.PutOptions{})
}

func TestRunGetFormats(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "json", args: []string{"get"}, want: `"id": "ami-2"`},
		{name: "yaml", args: []string{"get", "-o", "yaml"}, want: "- id: ami-1\n  parent: unknown\n"},
		{name: "template", args: []string{"get", "--template", `{{range .}}{{.id | upper}} {{.parent}}{{"\n"}}{{end}}`}, want: "AMI-2 ami-1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			seedRecords(env)
			args := append([]string{"--table", "amis"}, tt.args...)
			if code := Run(args, env.deps()); code != 0 {
				t.Fatalf("expected exit code 0, got %d: %s", code, env.out.String())
			}
			if !strings.Contains(env.out.String(), tt.want) {
				t.Fatalf("expected %q in output, got %q", tt.want, env.out.String())
			}
		})
	}
}

func TestRunGetStoreFailure(t *testing.T) {
	env := newTestEnv(t)
	env.records.scanErr = errors.New("throttled")
	if code := Run([]string{"--table", "amis", "get"}, env.deps()); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
}

func TestRunTableCreate(t *testing.T) {
	env := newTestEnv(t)
	code := Run([]string{"--table", "amis", "table", "create", "--pay-per-request", "--wait", "1s"}, env.deps())
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, env.out.String())
	}
	if env.tables.created == nil || aws.ToString(env.tables.created.TableName) != "amis" {
		t.Fatalf("table not created: %+v", env.tables.created)
	}
	if env.tables.created.BillingMode != types.BillingModePayPerRequest {
		t.Fatalf("unexpected billing mode: %s", env.tables.created.BillingMode)
	}
	if !strings.Contains(env.out.String(), "Created DynamoDB Table: amis") {
		t.Fatalf("unexpected output: %q", env.out.String())
	}
}

func TestRunNotifyAttachDetach(t *testing.T) {
	env := newTestEnv(t)
	fn := "arn:aws:lambda:ap-southeast-2:123456789012:function:put-ami"

	code := Run([]string{"notify", "attach", "--bucket", "builds", "--function", fn, "--suffix", ".zip"}, env.deps())
	if code != 0 {
		t.Fatalf("attach: exit code %d: %s", code, env.out.String())
	}
	if len(env.bucket.current.LambdaFunctionConfigurations) != 1 {
		t.Fatalf("notification not attached")
	}

	code = Run([]string{"notify", "detach", "--id", "builds___" + fn}, env.deps())
	if code != 0 {
		t.Fatalf("detach: exit code %d: %s", code, env.out.String())
	}
	if len(env.bucket.current.LambdaFunctionConfigurations) != 0 {
		t.Fatalf("notification not detached")
	}
}

func TestRunServe(t *testing.T) {
	env := newTestEnv(t)
	deps := env.deps()
	var gotPort int
	deps.Serve = func(_ context.Context, e *echo.Echo, port int) error {
		gotPort = port
		if e == nil {
			t.Fatalf("expected server")
		}
		return nil
	}

	if code := Run([]string{"--table", "amis", "serve", "--port", "9090"}, deps); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, env.out.String())
	}
	if gotPort != 9090 {
		t.Fatalf("unexpected port: %d", gotPort)
	}
}

func TestRunConfigInitThenDefaults(t *testing.T) {
	env := newTestEnv(t)
	code := Run([]string{"--region", "eu-west-1", "--table", "amis-dev", "--endpoint-dynamodb", "http://localhost:8000", "config", "init"}, env.deps())
	if code != 0 {
		t.Fatalf("config init: exit code %d: %s", code, env.out.String())
	}

	path := os.Getenv("AMIS_CONFIG_PATH")
	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Table != "amis-dev" || cfg.Region != "eu-west-1" || cfg.Endpoints.DynamoDB != "http://localhost:8000" {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	env.out.Reset()
	seedRecords(env)
	if code := Run([]string{"get"}, env.deps()); code != 0 {
		t.Fatalf("get with defaults: exit code %d: %s", code, env.out.String())
	}
	if env.settings.Table != "amis-dev" || env.settings.Endpoints.DynamoDB != "http://localhost:8000" {
		t.Fatalf("defaults not applied: %+v", env.settings)
	}

	env.out.Reset()
	if code := Run([]string{"config", "show"}, env.deps()); code != 0 {
		t.Fatalf("config show: exit code %d", code)
	}
	if !strings.Contains(env.out.String(), "table: amis-dev") {
		t.Fatalf("unexpected config output: %q", env.out.String())
	}
}
