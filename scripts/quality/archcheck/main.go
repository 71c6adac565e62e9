// Command archcheck enforces the import direction between the contracts,
// kernel, drivers, and modules layers.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"os/exec"
	"slices"
	"strings"
)

const modulePrefix = "ex-console/"

// layer is a named import path prefix inside the module.
type layer struct {
	prefix string
	label  string
}

var (
	contracts = layer{prefix: "pkg/console", label: "pkg/console"}
	internals = layer{prefix: "internal/", label: "internal/*"}
	kernel    = layer{prefix: "internal/kernel", label: "internal/kernel"}
	drivers   = layer{prefix: "internal/driver", label: "internal/driver/*"}
	modules   = layer{prefix: "modules/", label: "modules/*"}
)

// forbidden lists, per importing layer, the layers it may not depend on.
// The first matching pair decides the reported reason.
var forbidden = []struct {
	from layer
	to   []layer
}{
	{from: contracts, to: []layer{internals, modules}},
	{from: kernel, to: []layer{drivers, modules}},
	{from: drivers, to: []layer{modules}},
	{from: modules, to: []layer{internals}},
}

func (l layer) contains(importPath string) bool {
	return strings.HasPrefix(importPath, modulePrefix+l.prefix)
}

type listedPackage struct {
	ImportPath   string
	Imports      []string
	TestImports  []string
	XTestImports []string
}

func main() {
	os.Exit(run(os.Stdout, os.Stderr))
}

func run(stdout, stderr io.Writer) int {
	packages, err := listPackages(stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "arch-check: %v\n", err)
		return 1
	}

	return report(stdout, collectViolations(packages))
}

// report prints the outcome and returns the process exit code.
func report(w io.Writer, violations []string) int {
	if len(violations) == 0 {
		_, _ = fmt.Fprintln(w, "arch-check: passed")
		return 0
	}

	_, _ = fmt.Fprintf(w, "arch-check: %d architecture violation(s):\n", len(violations))
	for _, violation := range violations {
		_, _ = fmt.Fprintf(w, "  - %s\n", violation)
	}

	return 1
}

func listPackages(stderr io.Writer) ([]listedPackage, error) {
	cmd := exec.Command("go", "list", "-json", "-test", "./...")
	cmd.Stderr = stderr
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("pipe go list output: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start go list: %w", err)
	}

	packages, decodeErr := decodePackages(out)
	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("go list: %w", err)
	}

	return packages, decodeErr
}

func decodePackages(r io.Reader) ([]listedPackage, error) {
	var packages []listedPackage
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var pkg listedPackage
		if err := decoder.Decode(&pkg); err != nil {
			return nil, fmt.Errorf("decode go list output: %w", err)
		}
		if pkg.ImportPath != "" {
			packages = append(packages, pkg)
		}
	}

	return packages, nil
}

// collectViolations returns each offending import edge once, sorted.
// Test-only imports count as well.
func collectViolations(packages []listedPackage) []string {
	edges := make(map[string]struct{})
	for _, pkg := range packages {
		for _, imported := range slices.Concat(pkg.Imports, pkg.TestImports, pkg.XTestImports) {
			if reason := violationReason(pkg.ImportPath, imported); reason != "" {
				edges[fmt.Sprintf("%s -> %s (%s)", pkg.ImportPath, imported, reason)] = struct{}{}
			}
		}
	}

	return slices.Sorted(maps.Keys(edges))
}

func violationReason(importer, imported string) string {
	for _, rule := range forbidden {
		if !rule.from.contains(importer) {
			continue
		}
		for _, target := range rule.to {
			if target.contains(imported) {
				return rule.from.label + " must not import " + target.label
			}
		}
	}

	return ""
}
