// Where: internal/app/get.go
// What: `amis get` command.
// Why: Print the catalog as JSON, YAML or through a template.
package app

import (
	"encoding/json"
	"fmt"
	"io"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/poruru/ami-catalog/internal/readapi"
	"sigs.k8s.io/yaml"
)

// GetCmd lists the records.
type GetCmd struct {
	Output   string `short:"o" enum:"json,yaml" default:"json" help:"Output format (json, yaml)"`
	Template string `help:"Go template applied to the record list (sprig functions available)"`
}

func runGet(cli CLI, deps Dependencies, out io.Writer) int {
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

	docs, err := readapi.List(deps.Context, svc.Records)
	if err != nil {
		return exitWithError(out, err)
	}
	if err := writeDocuments(out, docs, cli.Get); err != nil {
		return exitWithError(out, err)
	}
	return 0
}

func writeDocuments(out io.Writer, docs []map[string]any, cmd GetCmd) error {
	if cmd.Template != "" {
		tmpl, err := template.New("get").Funcs(sprig.TxtFuncMap()).Parse(cmd.Template)
		if err != nil {
			return fmt.Errorf("parse template: %w", err)
		}
		return tmpl.Execute(out, docs)
	}

	switch cmd.Output {
	case "yaml":
		payload, err := yaml.Marshal(docs)
		if err != nil {
			return err
		}
		_, err = out.Write(payload)
		return err
	default:
		payload, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(payload))
		return err
	}
}
