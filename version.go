package main

import (
	"os/exec"
	"runtime/debug"
	"strings"
	"time"
)

// Set with -ldflags "-X main.commit=... -X main.buildDate=..." in release
// builds; otherwise filled from the VCS stamp or the local checkout.
var (
	commit    = "dev"
	buildDate = ""
)

func init() {
	stampFromBuildInfo()
	if commit == "dev" {
		if c, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output(); err == nil {
			commit = strings.TrimSpace(string(c))
		}
	}
	if buildDate == "" {
		buildDate = time.Now().Format(time.DateOnly)
	}
}

func stampFromBuildInfo() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range info.Settings {
		if s.Value == "" {
			continue
		}
		switch s.Key {
		case "vcs.revision":
			if commit == "dev" {
				commit = s.Value[:min(7, len(s.Value))]
			}
		case "vcs.time":
			if t, err := time.Parse(time.RFC3339, s.Value); err == nil && buildDate == "" {
				buildDate = t.Format(time.DateOnly)
			}
		}
	}
}
