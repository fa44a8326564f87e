package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/apriltag-mcp/internal/config"
)

// runFamily implements the family subcommand. It prints the named families
// (the configured default when none is named) as YAML documents that
// family_files accepts, or their names with -list.
func runFamily(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("family", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		cfgPath = fs.String("config", "", "Config file (default: search the usual locations)")
		list    = fs.Bool("list", false, "Print the known family names and exit")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: apriltag-mcp family [flags] [name...]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "family: %v\n", err)
		return 1
	}
	fams, err := cfg.Families()
	if err != nil {
		fmt.Fprintf(stderr, "family: %v\n", err)
		return 1
	}

	if *list {
		for _, n := range config.FamilyNames(fams) {
			fmt.Fprintf(stdout, "%s\t%d codes\n", n, fams[n].Len())
		}
		return 0
	}

	names := fs.Args()
	if len(names) == 0 {
		names = []string{cfg.Family}
	}

	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	for _, name := range names {
		fam, err := config.FamilyByName(fams, name)
		if err != nil {
			fmt.Fprintf(stderr, "family: %v\n", err)
			return 2
		}
		if err := enc.Encode(fam.Definition()); err != nil {
			fmt.Fprintf(stderr, "family: %v\n", err)
			return 1
		}
	}
	if err := enc.Close(); err != nil {
		fmt.Fprintf(stderr, "family: %v\n", err)
		return 1
	}
	return 0
}
