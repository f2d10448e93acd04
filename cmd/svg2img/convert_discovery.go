package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	svg2img "github.com/alnah/go-svg2img"
)

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// discoverFiles finds the SVG files to convert under inputPath and computes
// their output paths.
func discoverFiles(inputPath, output string, typ svg2img.ImageType) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateSVGExtension(inputPath); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, output, "", typ)
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != inputPath && isHidden(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !isSVG(path) || isHidden(path) {
			return nil
		}
		outPath := resolveOutputPath(path, output, inputPath, typ)
		files = append(files, FileToConvert{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the image path for an SVG file.
// With no output, the image goes next to the source. A single file may name
// its output file directly; otherwise output is a directory that mirrors the
// layout under baseInputDir.
func resolveOutputPath(inputPath, output, baseInputDir string, typ svg2img.ImageType) string {
	ext := svg2img.TypePNG.Extension()
	if typ != "" {
		ext = typ.Extension()
	}
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	if output == "" {
		return filepath.Join(filepath.Dir(inputPath), base+ext)
	}

	if baseInputDir == "" && hasImageExtension(output) {
		return output
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(output, filepath.Dir(relPath), base+ext)
		}
	}

	return filepath.Join(output, base+ext)
}

// hasImageExtension reports whether path ends in a supported image extension.
func hasImageExtension(path string) bool {
	_, err := svg2img.ParseImageType(filepath.Ext(path))
	return filepath.Ext(path) != "" && err == nil
}

func isSVG(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".svg")
}

// isHidden reports whether the base name starts with a dot, which also
// covers editor temp files such as .icon.svg.swp.
func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// validateSVGExtension checks that the file has a .svg extension.
func validateSVGExtension(path string) error {
	if !isSVG(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}
