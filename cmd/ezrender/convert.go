package main

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/ezrender/internal/config"
	"github.com/Faultbox/ezrender/internal/export"
	"github.com/Faultbox/ezrender/internal/logger"
	"github.com/Faultbox/ezrender/pkg/color"
	"github.com/Faultbox/ezrender/pkg/objfile"
)

var errNotOBJ = errors.New("input and output must be .obj files")

func isOBJ(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".obj")
}

func cmdSRGB2Lin(args []string) error {
	fs := flag.NewFlagSet("srgb2lin", flag.ContinueOnError)
	reverse := fs.Bool("reverse", false, "Convert linear -> sRGB")

	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 2 {
		return errors.New("usage: ezrender srgb2lin <in.obj> <out.obj>")
	}
	in, out := positional[0], positional[1]
	if !isOBJ(in) || !isOBJ(out) {
		return errNotOBJ
	}

	dir := color.ToLinearDirection
	if *reverse {
		dir = color.ToSRGBDirection
	}

	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("opening OBJ file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	n, err := objfile.Recolor(bufio.NewReader(f), &buf, dir)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
		return err
	}

	logger.Info("vertex colors converted",
		zap.String("direction", dir.String()),
		zap.Int("lines", n))
	fmt.Printf("Converted %d vertex colors: %s -> %s\n", n, in, out)
	return nil
}

// cmdFix loads an OBJ, linearizes its colors, mirrors it on X unless told
// not to, and exports it. glbOnly restricts the output to .glb.
func cmdFix(cfg *config.Config, args []string, glbOnly bool) error {
	name := "fix"
	defaultOut := ""
	if glbOnly {
		name = "obj2glb"
		defaultOut = "output.glb"
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	output := fs.String("o", defaultOut, "Output file")
	noFlip := fs.Bool("no-flip", !cfg.Convert.Mirror, "Do not mirror the model")

	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 || *output == "" {
		return fmt.Errorf("usage: ezrender %s <in.obj> -o <out>", name)
	}
	in, out := positional[0], *output
	if !isOBJ(in) {
		return fmt.Errorf("%s: input must be an .obj file", in)
	}
	if glbOnly && !strings.EqualFold(filepath.Ext(out), ".glb") {
		return fmt.Errorf("%w: output file must have a .glb extension", export.ErrUnsupported)
	}

	doc, err := objfile.LoadFile(in, color.Linear)
	if err != nil {
		return err
	}
	stats := doc.Stats()
	logger.Info("model loaded",
		zap.String("path", in),
		zap.Int("vertices", stats.Vertices),
		zap.Int("faces", stats.Faces),
		zap.Int("colored", stats.Colored))

	if !*noFlip {
		doc.Mirror()
		logger.Info("model mirrored", zap.Stringer("axis", objfile.AxisX))
	}

	if err := export.Save(doc, out, logger.Named("export")); err != nil {
		return err
	}
	fmt.Println("Model saved:", out)
	return nil
}
