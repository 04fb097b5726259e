package main

import (
	"fmt"
	"strings"

	"github.com/example/rasterpad/internal/appstate"
)

type titleOptions struct {
	File   string
	Extras []string
}

func windowTitle(opts titleOptions) string {
	parts := []string{appstate.ProgramTitle}

	file := strings.TrimSpace(opts.File)
	if file != "" && file != "." {
		parts = append(parts, file)
	}

	extras := make([]string, 0, len(opts.Extras)+2)
	if strings.TrimSpace(version) != "" {
		extras = append(extras, fmt.Sprintf("v%s", strings.TrimSpace(version)))
	}
	if strings.TrimSpace(commit) != "" {
		extras = append(extras, fmt.Sprintf("commit %s", strings.TrimSpace(commit)))
	}
	extras = append(extras, opts.Extras...)
	parts = append(parts, extras...)

	return strings.Join(parts, " - ")
}
