// plyindex builds and inspects the scene index for a directory of PLY meshes.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/plyindex/internal/config"
	"github.com/Faultbox/plyindex/internal/logger"
	"github.com/Faultbox/plyindex/pkg/ply"
	"github.com/Faultbox/plyindex/pkg/scene"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := args[0]
	args = args[1:]

	switch command {
	case "build":
		err = cmdBuild(cfg)
	case "show":
		err = cmdShow(cfg)
	case "list", "ls":
		err = cmdList(cfg)
	case "header":
		err = cmdHeader(args)
	case "find", "search":
		err = cmdFind(cfg, args)
	case "init-config":
		err = cmdInitConfig(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`plyindex - PLY mesh scene index generator

Usage:
  plyindex [flags] <command> [args]

Commands:
  build                  Build the index (or load it if present) and save it
  show                   Print the stored index
  list                   List mesh files in the mesh directory
  header <file.ply>      Show the header and extent of one mesh
  find <term>            Look up objects by label in the SQLite mirror
  init-config [path]     Write the effective config as YAML

Flags:
  -config <file>   Config file (default ./plyindex.yaml)
  -dir <dir>       Mesh directory
  -index <file>    Scene index JSON path
  -sqlite <file>   SQLite mirror path (build exports to it, find reads it)
  -rebuild         Rebuild even if an index exists
  -debug           Debug logging
  -log-file <file> Also log to a rotating file

Examples:
  plyindex -dir ./meshes -index ./scene_index.json build
  plyindex -rebuild -sqlite ./scene.sqlite build
  plyindex header ./meshes/chair.ply
  plyindex -sqlite ./scene.sqlite find chair`)
}

func cmdBuild(cfg *config.Config) error {
	idx, res, err := scene.EnsureIndex(cfg.Scene.MeshDir, cfg.Scene.IndexPath, cfg.Scene.Rebuild,
		scene.WithLogger(logger.Named("scene")))
	if res != nil {
		printProblems(res)
	}
	if err != nil {
		return err
	}

	if res == nil {
		fmt.Printf("Loaded %s: %d objects\n", cfg.Scene.IndexPath, idx.Len())
	} else {
		fmt.Printf("Indexed %s -> %s\n", cfg.Scene.MeshDir, cfg.Scene.IndexPath)
		fmt.Printf("Objects:       %d\n", idx.Len())
		fmt.Printf("Default boxes: %d\n", res.Count(scene.StatusDefaultBox))
		fmt.Printf("Skipped:       %d\n", res.Count(scene.StatusSkipped))
	}

	if cfg.Scene.SQLitePath == "" {
		return nil
	}

	var files []scene.FileResult
	if res != nil {
		files = res.Files
	}
	return exportSQLite(cfg.Scene.SQLitePath, idx, files)
}

func exportSQLite(path string, idx *scene.Index, files []scene.FileResult) error {
	db, err := scene.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := scene.ExportSQLite(context.Background(), db, idx, files); err != nil {
		return fmt.Errorf("exporting to %s: %w", path, err)
	}
	logger.Info("sqlite mirror updated", zap.String("path", path), zap.Int("objects", idx.Len()))
	fmt.Printf("SQLite:        %s\n", path)
	return nil
}

// printProblems lists every file that was skipped or got the default box.
func printProblems(res *scene.Result) {
	errs := multierr.Errors(res.Err())
	if len(errs) == 0 {
		return
	}
	logger.Warn("mesh files with problems", zap.Int("count", len(errs)))
	fmt.Fprintf(os.Stderr, "%d file(s) with problems:\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "  %v\n", e)
	}
}

func cmdShow(cfg *config.Config) error {
	idx, err := scene.LoadIndex(cfg.Scene.IndexPath)
	if errors.Is(err, scene.ErrIndexNotFound) {
		return fmt.Errorf("%w (run 'plyindex build' first)", err)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Index: %s (%d objects)\n\n", cfg.Scene.IndexPath, idx.Len())
	fmt.Printf("%-24s %-28s %10s %10s %10s  %s\n", "KEY", "FILE", "X", "Y", "Z", "LABELS")
	for _, key := range idx.Keys() {
		name := idx.Name[key]
		size := idx.BoundingBox[key].Size
		fmt.Printf("%-24s %-28s %10.4f %10.4f %10.4f  %s\n",
			key, name, size.X, size.Y, size.Z, strings.Join(idx.Labels[name], ", "))
	}
	return nil
}

func cmdList(cfg *config.Config) error {
	files, err := scene.ScanDir(cfg.Scene.MeshDir)
	if err != nil {
		return err
	}

	var total int64
	for _, f := range files {
		fmt.Printf("%10s  %s\n", humanize.IBytes(uint64(f.Size)), f.Name)
		total += f.Size
	}
	fmt.Printf("\n%d mesh files, %s\n", len(files), humanize.IBytes(uint64(total)))
	return nil
}

func cmdHeader(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: plyindex header <file.ply>")
	}
	path := args[0]
	logger.Debug("inspecting mesh file", zap.String("path", path))

	h, bounds, err := ply.InspectFile(path)
	if h == nil {
		return err
	}

	fmt.Printf("File:       %s\n", path)
	fmt.Printf("Format:     %s %s\n", h.Format, h.Version)
	fmt.Printf("Vertices:   %d\n", h.VertexCount)
	fmt.Printf("Faces:      %d\n", h.FaceCount)
	fmt.Printf("Properties: %s\n", strings.Join(h.Properties, " "))
	for _, c := range h.Comments {
		fmt.Printf("Comment:    %s\n", c)
	}
	fmt.Println()

	if err != nil {
		fmt.Printf("Extent:     unavailable (%v)\n", err)
		return nil
	}
	size, center, ok := bounds.Reduce()
	if !ok {
		fmt.Printf("Extent:     unavailable (%d vertices read)\n", bounds.Count)
		return nil
	}
	fmt.Printf("Read:       %d vertices\n", bounds.Count)
	fmt.Printf("Size:       %.4f x %.4f x %.4f\n", size.X, size.Y, size.Z)
	fmt.Printf("Center:     (%.4f, %.4f, %.4f)\n", center.X, center.Y, center.Z)
	return nil
}

func cmdFind(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: plyindex find <term>")
	}
	if cfg.Scene.SQLitePath == "" {
		return errors.New("no SQLite mirror configured (set -sqlite or scene.sqlite_path)")
	}

	db, err := scene.OpenSQLite(cfg.Scene.SQLitePath)
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := scene.FindObjects(context.Background(), db, args[0])
	if err != nil {
		return err
	}

	for _, r := range rows {
		fmt.Printf("%-24s %-28s %.4f x %.4f x %.4f\n", r.Key, r.Filename, r.Size.X, r.Size.Y, r.Size.Z)
	}
	fmt.Printf("\nFound %d objects matching %q\n", len(rows), args[0])
	return nil
}

func cmdInitConfig(cfg *config.Config, args []string) error {
	path := config.FileName
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := cfg.SaveTo(path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
