package main

import (
	"fmt"
	"strings"
)

type versionCmd struct{ *root }

func (v *versionCmd) Run() error {
	line := fmt.Sprintf("%s version %s", v.program, version)
	if c := strings.TrimSpace(commit); c != "" {
		line += " (" + c + ")"
	}
	if d := strings.TrimSpace(date); d != "" {
		line += " " + d
	}
	fmt.Println(line)
	return nil
}
