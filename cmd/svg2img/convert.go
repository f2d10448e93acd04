package main

import (
	"context"
	"fmt"
	"os"

	svg2img "github.com/alnah/go-svg2img"
)

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	if len(positionalArgs) == 0 {
		return ErrNoInput
	}
	inputPath := positionalArgs[0]

	s, err := resolveSettings(flags, env)
	if err != nil {
		return err
	}

	files, err := discoverFiles(inputPath, s.outputDir, s.opts.Type)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no SVG files found in %s", ErrNoInput, inputPath)
	}

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	conv := newConverter(s, env, logger)
	defer func() {
		if err := conv.Close(); err != nil {
			logger.Warn("closing browser", "err", err)
		}
	}()

	if s.opts.Encoding != svg2img.EncodingNone {
		if len(files) > 1 {
			return fmt.Errorf("%w: %s has %d SVG files", ErrEncodingNeedsSingleFile, inputPath, len(files))
		}
		return convertToStdout(ctx, conv, files[0], s, env)
	}

	logger.Debug("converting", "files", len(files), "workers", s.workers)
	results := convertBatch(ctx, conv, files, s.opts, s.workers)

	summary, firstErr := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if summary.Failed == 1 {
		return firstErr
	}
	if summary.Failed > 1 {
		return fmt.Errorf("%d conversion(s) failed, first: %w", summary.Failed, firstErr)
	}
	return nil
}

// convertToStdout converts one file and prints the encoded image. The image
// is also written to disk when an output location was given.
func convertToStdout(ctx context.Context, conv *svg2img.Converter, f FileToConvert, s *settings, env *Environment) error {
	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- user-provided input
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadSVG, err)
	}

	opts := s.opts
	if s.outputDir != "" {
		opts.Path = f.OutputPath
	}

	res, err := conv.From(content).To(ctx, opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(env.Stdout, res.Text)
	return nil
}

// runConvertCmd parses flags, runs the conversion, and maps the outcome to
// an exit code.
func runConvertCmd(ctx context.Context, args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		return flagErrorCode(err)
	}
	return reportError(env, runConvert(ctx, positional, flags, env))
}

// reportError prints err with its hint and returns the matching exit code.
func reportError(env *Environment, err error) int {
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	return exitCodeFor(err)
}
