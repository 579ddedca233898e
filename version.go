package autodiag

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var rawVersion string

// Version is the release version of autodiag.
var Version = strings.TrimSpace(rawVersion)
