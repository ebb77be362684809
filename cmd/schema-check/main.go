// Command schema-check validates the entity schema registry and prints a
// summary of the registered types, their owner lists, and depth classes.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/scrose/mle-api/pkg/schema"
)

var exitFunc = os.Exit

func main() {
	exitFunc(cli(os.Args[1:], os.Stdout, os.Stderr))
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("schema-check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var typeName string
	fs.StringVar(&typeName, "type", "", "describe a single entity type")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	registry, err := schema.Default()
	if err != nil {
		fmt.Fprintf(stderr, "schema-check: %v\n", err)
		return 1
	}
	if typeName != "" {
		if err := describe(stdout, registry, schema.Type(typeName)); err != nil {
			fmt.Fprintf(stderr, "schema-check: %v\n", err)
			return 1
		}
		return 0
	}
	if err := summarize(stdout, registry); err != nil {
		fmt.Fprintf(stderr, "schema-check: %v\n", err)
		return 1
	}
	return 0
}

func summarize(w io.Writer, registry *schema.Registry) error {
	types := registry.Types()
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	fmt.Fprintf(w, "%d entity types, max depth %d\n", len(types), registry.MaxDepth())
	for _, t := range types {
		if err := describe(w, registry, t); err != nil {
			return err
		}
	}
	return nil
}

func describe(w io.Writer, registry *schema.Registry, t schema.Type) error {
	sch, err := registry.Describe(t)
	if err != nil {
		return err
	}
	owners := "root"
	if !sch.IsRoot {
		names := make([]string, len(sch.OwnerTypes))
		for i, o := range sch.OwnerTypes {
			names[i] = string(o)
		}
		owners = strings.Join(names, ",")
	}
	fmt.Fprintf(w, "%-22s key=%s label=%s depth=%d owners=%s", t, sch.KeyAttribute, sch.Label(), sch.DepthClass, owners)
	if sch.FilesystemRoot != "" {
		fmt.Fprintf(w, " fs=%s", sch.FilesystemRoot)
	}
	fmt.Fprintln(w)
	return nil
}
