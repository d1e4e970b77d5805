// Package config resolves the CLI's cobra flags into a validated export
// plan. Per spec.md §6 there is no config file or environment variable to
// read: --format/--in/--out are the only configuration source.
package config

import (
	"fmt"
	"strings"

	"github.com/molcrate/molexport/errs"
)

// Format names one of the three output formats this module emits.
type Format string

const (
	FormatOBJ  Format = "obj"
	FormatGLB  Format = "glb"
	FormatUSDZ Format = "usdz"
)

// AllFormats lists every format `molexport formats` advertises, in the
// fixed order they're always reported.
var AllFormats = []Format{FormatOBJ, FormatGLB, FormatUSDZ}

// Export is a fully-resolved, validated export request.
type Export struct {
	InPath      string
	OutPath     string
	Formats     []Format
	DebugBundle bool
}

// Resolve validates raw cobra flag values into an Export plan.
func Resolve(inPath, outPath, formatList string, debugBundle bool) (Export, error) {
	if inPath == "" {
		return Export{}, errs.ErrNoInputPath
	}

	if outPath == "" {
		return Export{}, errs.ErrNoOutputPath
	}

	formats, err := parseFormats(formatList)
	if err != nil {
		return Export{}, err
	}

	return Export{InPath: inPath, OutPath: outPath, Formats: formats, DebugBundle: debugBundle}, nil
}

func parseFormats(formatList string) ([]Format, error) {
	if strings.TrimSpace(formatList) == "" {
		return nil, fmt.Errorf("%w: --format is required", errs.ErrUnsupportedFormat)
	}

	var out []Format
	for _, raw := range strings.Split(formatList, ",") {
		name := Format(strings.TrimSpace(strings.ToLower(raw)))

		if !isKnownFormat(name) {
			return nil, fmt.Errorf("%w: %q", errs.ErrUnsupportedFormat, raw)
		}

		out = append(out, name)
	}

	return out, nil
}

func isKnownFormat(f Format) bool {
	for _, known := range AllFormats {
		if f == known {
			return true
		}
	}

	return false
}
