// Where: internal/record/inventory.go
// What: Extractors for the ohai.json system inventory.
// Why: Packages, languages and OS details come from the baked instance.
package record

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/poruru/ami-catalog/internal/apperr"
)

// WatchedPackage maps a display name to the inventory lookup name.
type WatchedPackage struct {
	Display string
	Lookup  string
}

// PackageWatchList is the set of packages reported on a record.
var PackageWatchList = []WatchedPackage{
	{Display: "Docker", Lookup: "docker.io"},
}

func inventory(contents any) (map[string]any, error) {
	doc, ok := contents.(map[string]any)
	if !ok {
		return nil, apperr.Malformed("inventory is %T, want object", contents)
	}
	return doc, nil
}

// versionOf accepts either a bare version string or an object with a version field.
func versionOf(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case map[string]any:
		version, ok := v["version"].(string)
		return version, ok
	default:
		return "", false
	}
}

func extractPackages(r *Record, contents any) error {
	doc, err := inventory(contents)
	if err != nil {
		return err
	}
	packages, _ := doc["packages"].(map[string]any)
	for _, watched := range PackageWatchList {
		entry, ok := packages[watched.Lookup]
		if !ok {
			continue
		}
		if version, ok := versionOf(entry); ok {
			r.Packages.Set(watched.Display, version)
		}
	}
	return nil
}

func extractLanguages(r *Record, contents any) error {
	doc, err := inventory(contents)
	if err != nil {
		return err
	}
	languages, _ := doc["languages"].(map[string]any)
	for name, entry := range languages {
		if version, ok := versionOf(entry); ok {
			r.Languages.Set(Capitalize(name), version)
		}
	}
	return nil
}

func extractSystemInfo(r *Record, contents any) error {
	doc, err := inventory(contents)
	if err != nil {
		return err
	}
	host, _ := doc["hostnamectl"].(map[string]any)
	if kernel, ok := host["kernel"]; ok {
		r.Summary.Set("Kernel", kernel)
	}
	if osName, ok := host["operating_system"]; ok {
		r.Summary.Set("OperatingSystem", osName)
	}
	return nil
}

// Capitalize upper-cases the first rune and lower-cases the rest ("pYTHON" -> "Python").
func Capitalize(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError {
		return s
	}
	return string(unicode.ToTitle(first)) + strings.ToLower(s[size:])
}
