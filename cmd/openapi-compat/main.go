// Command openapi-compat exports the API's swagger document as YAML and
// checks a revision for backward-incompatible changes against a base file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"askme/docs"

	"github.com/swaggo/swag"
	"gopkg.in/yaml.v3"
)

var supportedMethods = map[string]struct{}{
	"get": {}, "put": {}, "post": {}, "delete": {}, "patch": {}, "head": {}, "options": {},
}

// apiSpec maps path -> method -> set of documented response codes.
type apiSpec map[string]map[string]map[string]struct{}

func main() {
	export := flag.Bool("export", false, "write the built-in swagger document as YAML to stdout")
	basePath := flag.String("base", "", "base swagger.yaml path")
	revisionPath := flag.String("revision", "", "revision swagger.yaml path (defaults to the built-in document)")
	flag.Parse()

	if *export {
		if err := exportYAML(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if strings.TrimSpace(*basePath) == "" {
		fmt.Fprintln(os.Stderr, "usage: openapi-compat -export | -base <path> [-revision <path>]")
		os.Exit(2)
	}

	base, err := loadFile(*basePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load base spec: %v\n", err)
		os.Exit(1)
	}

	var revision apiSpec
	if *revisionPath != "" {
		revision, err = loadFile(*revisionPath)
	} else {
		revision, err = loadBuiltin()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load revision spec: %v\n", err)
		os.Exit(1)
	}

	if issues := compare(base, revision); len(issues) > 0 {
		fmt.Fprintln(os.Stderr, "backward compatibility check failed:")
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "- %s\n", issue)
		}
		os.Exit(1)
	}
	fmt.Println("openapi compatibility check passed")
}

// builtinDoc renders the swagger document registered by the docs package.
func builtinDoc() ([]byte, error) {
	raw, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		return nil, err
	}
	return []byte(raw), nil
}

// exportYAML converts the built-in JSON document to YAML. JSON is valid
// YAML, so yaml.v3 decodes it directly.
func exportYAML(w io.Writer) error {
	raw, err := builtinDoc()
	if err != nil {
		return err
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode swagger document: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func loadBuiltin() (apiSpec, error) {
	raw, err := builtinDoc()
	if err != nil {
		return nil, err
	}
	return parse(raw)
}

func loadFile(path string) (apiSpec, error) {
	// #nosec G304: path comes from CLI flags in a dev tool
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(raw)
}

func parse(raw []byte) (apiSpec, error) {
	var doc struct {
		Paths map[string]map[string]any `yaml:"paths"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Paths == nil {
		return nil, errors.New("missing top-level paths field")
	}

	spec := make(apiSpec, len(doc.Paths))
	for path, methods := range doc.Paths {
		ops := make(map[string]map[string]struct{})
		for method, op := range methods {
			method = strings.ToLower(strings.TrimSpace(method))
			if _, ok := supportedMethods[method]; !ok {
				continue
			}
			fields, _ := op.(map[string]any)
			responses, _ := fields["responses"].(map[string]any)
			codes := make(map[string]struct{}, len(responses))
			for code := range responses {
				if code = strings.ToLower(strings.TrimSpace(code)); code != "" {
					codes[code] = struct{}{}
				}
			}
			ops[method] = codes
		}
		if len(ops) > 0 {
			spec[path] = ops
		}
	}
	return spec, nil
}

// compare reports paths, operations and response codes present in base
// but missing from revision.
func compare(base, revision apiSpec) []string {
	var issues []string
	for path, baseOps := range base {
		revOps, ok := revision[path]
		if !ok {
			issues = append(issues, "removed path: "+path)
			continue
		}
		for method, codes := range baseOps {
			revCodes, ok := revOps[method]
			if !ok {
				issues = append(issues, fmt.Sprintf("removed operation: %s %s", strings.ToUpper(method), path))
				continue
			}
			for code := range codes {
				if _, ok := revCodes[code]; !ok {
					issues = append(issues, fmt.Sprintf("removed response code: %s %s -> %s",
						strings.ToUpper(method), path, strings.ToUpper(code)))
				}
			}
		}
	}
	sort.Strings(issues)
	return issues
}
