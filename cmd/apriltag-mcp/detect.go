package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/ironsheep/apriltag-mcp/internal/config"
	"github.com/ironsheep/apriltag-mcp/internal/detection"
	"github.com/ironsheep/apriltag-mcp/internal/imaging"
)

// imageResult is one line of detect output.
type imageResult struct {
	Path   string `json:"path"`
	Family string `json:"family"`
	Error  string `json:"error,omitempty"`
	*detection.Result
}

// runDetect implements the detect subcommand and returns the exit code:
// 0 when every image was processed, 1 when any image failed and 2 for usage
// errors.
func runDetect(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		cfgPath    = fs.String("config", "", "Config file (default: search the usual locations)")
		familyName = fs.String("family", "", "Tag family (default: from config)")
		maxHamming = fs.Int("max-hamming", -1, "Maximum corrected bits (default: from config)")
		blurRadius = fs.Float64("blur", -1, "Gaussian blur radius before edge detection (default: from config)")
		conc       = fs.Int("conc", runtime.NumCPU(), "Number of images to process concurrently")
		pretty     = fs.Bool("pretty", false, "Indent JSON output (default when writing to a terminal)")
		verbose    = fs.Bool("v", false, "Log detector stage counts to stderr")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: apriltag-mcp detect [flags] image...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	if *conc < 1 {
		fmt.Fprintf(stderr, "detect: -conc must be at least 1\n")
		return 2
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "detect: %v\n", err)
		return 1
	}
	fams, err := cfg.Families()
	if err != nil {
		fmt.Fprintf(stderr, "detect: %v\n", err)
		return 1
	}
	name := cfg.Family
	if *familyName != "" {
		name = *familyName
	}
	fam, err := config.FamilyByName(fams, name)
	if err != nil {
		fmt.Fprintf(stderr, "detect: %v\n", err)
		return 2
	}

	dcfg := cfg.Detection
	if *maxHamming >= 0 {
		dcfg.MaxHammingDistance = *maxHamming
	}
	if *blurRadius >= 0 {
		dcfg.BlurRadius = *blurRadius
	}
	if *verbose {
		dcfg.Logger = log.New(stderr, "", 0)
	}
	det, err := detection.NewDetector(fam, dcfg)
	if err != nil {
		fmt.Fprintf(stderr, "detect: %v\n", err)
		return 2
	}

	results := detectImages(det, fs.Args(), *conc)

	failed := false
	for _, r := range results {
		if r.Error != "" {
			failed = true
			fmt.Fprintf(stderr, "detect: %s: %s\n", r.Path, r.Error)
		}
	}

	enc := json.NewEncoder(stdout)
	if *pretty || isTerminal(stdout) {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(results); err != nil {
		fmt.Fprintf(stderr, "detect: %v\n", err)
		return 1
	}
	if failed {
		return 1
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		cfg, _, err := config.LoadFromPath(path)
		return cfg, err
	}
	cfg, _, err := config.Load()
	return cfg, err
}

// detectImages runs det over every path, conc images at a time. Results keep
// the order of paths.
func detectImages(det *detection.Detector, paths []string, conc int) []imageResult {
	results := make([]imageResult, len(paths))
	cache := imaging.NewImageCache()

	var g errgroup.Group
	g.SetLimit(conc)
	for i, path := range paths {
		g.Go(func() error {
			r := imageResult{Path: path, Family: det.Family().Name()}
			gray, err := cache.LoadGray(path)
			if err == nil {
				r.Result, err = det.Detect(gray)
			}
			if err != nil {
				r.Error = err.Error()
			}
			// Paths are not revisited.
			cache.Evict(path)
			results[i] = r
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
