package main

import (
	"io"
	"os"
	"time"

	svg2img "github.com/alnah/go-svg2img"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer

	// Launcher starts browsers for every Converter the CLI creates.
	// Nil uses the go-rod launcher.
	Launcher svg2img.Launcher
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}
