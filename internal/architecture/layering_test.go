// Where: internal/architecture/layering_test.go
// What: Dependency guard tests for internal packages.
// Why: The record model stays free of AWS clients and the CLI stays on top.
package architecture

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

const internalImportPrefix = "github.com/poruru/ami-catalog/internal/"

// allowedImports lists the internal packages each package may import.
// Packages missing from the map are unrestricted.
var allowedImports = map[string][]string{
	"apperr":       {},
	"docvalue":     {},
	"meta":         {},
	"constants":    {},
	"version":      {},
	"envutil":      {"meta"},
	"config":       {"constants", "envutil", "meta"},
	"logging":      {},
	"awsclient":    {"config"},
	"record":       {"apperr", "docvalue"},
	"artifacts":    {"apperr", "record"},
	"store":        {"apperr", "docvalue", "record"},
	"pipeline":     {"apperr", "artifacts", "docvalue", "record", "store"},
	"readapi":      {"docvalue"},
	"notification": {"apperr"},
	"architecture": {},
}

func TestLayeringRules(t *testing.T) {
	t.Parallel()

	internalRoot := resolveInternalRoot(t)
	fset := token.NewFileSet()
	violations := []string{}

	err := filepath.WalkDir(internalRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".go") || strings.HasSuffix(d.Name(), "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(internalRoot, path)
		if err != nil {
			return err
		}
		sourceLayer := topLayer(rel)
		if sourceLayer == "" {
			return nil
		}

		file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}

		for _, imp := range file.Imports {
			importPath := strings.Trim(imp.Path.Value, "\"")
			importLayer := topLayerFromImport(importPath)
			if importLayer == "" || importLayer == sourceLayer {
				continue
			}
			if violatesRule(sourceLayer, importLayer) {
				violations = append(violations, rel+" -> "+importPath)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("scan internal packages: %v", err)
	}

	if len(violations) > 0 {
		sort.Strings(violations)
		t.Fatalf("layering rule violations:\n%s", strings.Join(violations, "\n"))
	}
}

func TestAppIsNotImported(t *testing.T) {
	t.Parallel()

	for source := range allowedImports {
		if !violatesRule(source, "app") {
			t.Fatalf("%s may import app", source)
		}
	}
}

func resolveInternalRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	root := filepath.Clean(filepath.Join(wd, "..", ".."))
	return filepath.Join(root, "internal")
}

func topLayer(relPath string) string {
	parts := strings.Split(filepath.ToSlash(relPath), "/")
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[0])
}

func topLayerFromImport(importPath string) string {
	if !strings.HasPrefix(importPath, internalImportPrefix) {
		return ""
	}
	rest := strings.TrimPrefix(importPath, internalImportPrefix)
	parts := strings.Split(rest, "/")
	if len(parts) == 0 {
		return ""
	}
	return strings.TrimSpace(parts[0])
}

func violatesRule(sourceLayer, importLayer string) bool {
	allowed, restricted := allowedImports[sourceLayer]
	if !restricted {
		return false
	}
	for _, layer := range allowed {
		if layer == importLayer {
			return false
		}
	}
	return true
}
