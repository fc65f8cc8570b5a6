// Where: internal/app/put.go
// What: `amis put` command.
// Why: Re-run the put pipeline for an uploaded build or a local folder.
package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/poruru/ami-catalog/internal/artifacts"
	"github.com/poruru/ami-catalog/internal/pipeline"
	"github.com/poruru/ami-catalog/internal/record"
)

// PutCmd records an AMI from a build folder.
type PutCmd struct {
	Bucket string `help:"Bucket holding the build artifacts"`
	Key    string `help:"Any object key inside the build folder"`
	Dir    string `help:"Local folder with extracted build artifacts"`
	DryRun bool   `name:"dry-run" help:"Print the records without writing them"`
}

var errPutSource = errors.New("put requires either --bucket and --key or --dir")

func runPut(cli CLI, deps Dependencies, out io.Writer) int {
	cmd := cli.Put
	settings, err := prepare(cli, deps)
	if err != nil {
		return exitWithError(out, err)
	}
	if err := settings.RequireTable(); err != nil {
		return exitWithError(out, err)
	}
	svc, err := deps.services(settings)
	if err != nil {
		return exitWithError(out, err)
	}

	var (
		files pipeline.FileSource
		loc   artifacts.Location
	)
	switch {
	case strings.TrimSpace(cmd.Dir) != "" && cmd.Bucket == "" && cmd.Key == "":
		files = artifacts.DirSource{Root: cmd.Dir}
	case cmd.Dir == "" && cmd.Bucket != "" && cmd.Key != "":
		files = artifacts.S3Source{Client: svc.Archives}
		loc = artifacts.LocationFromKey(cmd.Bucket, cmd.Key)
	default:
		return exitWithError(out, errPutSource)
	}

	driver := pipeline.Driver{Files: files, Store: svc.Records}
	if cmd.DryRun {
		plan, err := driver.Plan(deps.Context, loc)
		if err != nil {
			return exitWithError(out, err)
		}
		return printDocuments(out, plan.Records())
	}

	plan, err := driver.Run(deps.Context, loc)
	if err != nil {
		return exitWithError(out, err)
	}
	for _, r := range plan.Records() {
		fmt.Fprintf(out, "✅ Recorded %s (parent: %s)\n", r.ID, r.Parent)
	}
	return 0
}

func printDocuments(out io.Writer, records []*record.Record) int {
	docs := make([]map[string]any, 0, len(records))
	for _, r := range records {
		docs = append(docs, r.Document().Plain())
	}
	payload, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return exitWithError(out, err)
	}
	fmt.Fprintln(out, string(payload))
	return 0
}
