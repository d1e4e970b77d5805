package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/molcrate/molexport"
	"github.com/molcrate/molexport/compress"
	"github.com/molcrate/molexport/crate"
	"github.com/molcrate/molexport/internal/config"
	"github.com/molcrate/molexport/internal/meshfile"
	"github.com/molcrate/molexport/mesh"
)

var (
	inPath      string
	outPath     string
	formatList  string
	debugBundle bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "molexport",
		Short: "Exports a colored triangle mesh set to OBJ/MTL, GLB, and USDZ.",
		Long: `molexport reads a JSON mesh-set document and writes it out in one or
more of three formats: OBJ/MTL (plain text), GLB (glTF 2.0 Binary), and
USDZ (a zero-compression ZIP around a Pixar USD Crate binary).`,
	}

	rootCmd.AddCommand(newExportCmd(), newFormatsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Exports a mesh set to one or more output formats.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport()
		},
	}

	cmd.Flags().StringVar(&inPath, "in", "", "Path to the input mesh-set JSON document (required)")
	cmd.Flags().StringVar(&outPath, "out", "", "Output path stem, e.g. out/scene (required)")
	cmd.Flags().StringVar(&formatList, "format", "", "Comma-separated output formats: obj,glb,usdz (required)")
	cmd.Flags().BoolVar(&debugBundle, "debug-bundle", false, "Also write a zstd-compressed scene-tree dump for bug reports")

	return cmd
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "Lists the output formats molexport supports.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, f := range config.AllFormats {
				fmt.Println(f)
			}
		},
	}
}

func runExport() error {
	export, err := config.Resolve(inPath, outPath, formatList, debugBundle)
	if err != nil {
		return err
	}

	set, err := meshfile.ReadFile(export.InPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", export.InPath, err)
	}

	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	sp.Prefix = fmt.Sprintf("Exporting %s (%s)... ", export.OutPath, formatList)
	sp.Start()
	err = exportAll(set, export)
	sp.Stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s for formats: %s\n", export.OutPath, formatList)

	return nil
}

func exportAll(set mesh.Set, export config.Export) error {
	for _, f := range export.Formats {
		if err := exportOne(set, export.OutPath, f); err != nil {
			return fmt.Errorf("format %s: %w", f, err)
		}
	}

	if export.DebugBundle {
		if err := writeDebugBundle(set, export.OutPath); err != nil {
			return fmt.Errorf("debug bundle: %w", err)
		}
	}

	return nil
}

func exportOne(set mesh.Set, outStem string, f config.Format) error {
	switch f {
	case config.FormatOBJ:
		mtlName := filepath.Base(outStem) + ".mtl"
		obj, mtl, err := molexport.ExportOBJ(set, mtlName)
		if err != nil {
			return err
		}

		if err := writeAtomic(outStem+".obj", []byte(obj)); err != nil {
			return err
		}

		return writeAtomic(outStem+".mtl", []byte(mtl))

	case config.FormatGLB:
		data, err := molexport.ExportGLB(set)
		if err != nil {
			return err
		}

		return writeAtomic(outStem+".glb", data)

	case config.FormatUSDZ:
		data, err := molexport.ExportUSDZ(set)
		if err != nil {
			return err
		}

		return writeAtomic(outStem+".usdz", data)

	default:
		return fmt.Errorf("unhandled format %s", f)
	}
}

// writeDebugBundle zstd-compresses a JSON dump of the scene tree plus the
// Crate writer's stats, for attaching to bug reports. It has no bearing on
// the mesh files the export writes; see compress.ZstdCodec.
func writeDebugBundle(set mesh.Set, outStem string) error {
	root := molexport.BuildScene(set)
	root.AssignPathIndices()

	w := crate.NewWriter()
	if err := w.WriteScene(root); err != nil {
		return err
	}

	_, stats, err := w.Finish()
	if err != nil {
		return err
	}

	dump := struct {
		Scene any        `json:"scene"`
		Stats crate.Stats `json:"stats"`
	}{Scene: root, Stats: stats}

	jsonBytes, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return err
	}

	codec := compress.NewZstdCodec()
	compressed, err := codec.Compress(jsonBytes)
	if err != nil {
		return err
	}

	return writeAtomic(outStem+".debug.zst", compressed)
}

// writeAtomic writes data to a temp file in the destination directory and
// renames it into place, so a failed export never leaves a half-written
// file at path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(dir, ".molexport-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)

		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)

		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)

		return err
	}

	return nil
}
