package engine

import "strings"

var defaultExcludeDirs = map[string]bool{
	".git":             true,
	"node_modules":     true,
	"bower_components": true,
	"vendor":           true,
	"dist":             true,
	"build":            true,
	"out":              true,
	".next":            true,
	".venv":            true,
	"venv":             true,
	"__pycache__":      true,
	"site-packages":    true,
	"coverage":         true,
	"bin":              true,
	"obj":              true,
}

// suffixes treated as bundled or generated output when default excludes are enabled
var defaultExcludeFileSuffixes = []string{
	".min.js", "-min.js", ".bundle.js", ".chunk.js",
	".d.ts",
	"_pb2.py", ".pb.cpp",
}

func isDefaultDirExcluded(name string) bool {
	return defaultExcludeDirs[name] || strings.HasPrefix(name, ".git")
}

func isDefaultFileExcluded(lowerRel string) bool {
	for _, s := range defaultExcludeFileSuffixes {
		if strings.HasSuffix(lowerRel, s) {
			return true
		}
	}
	// generic generated artifacts pattern
	return strings.Contains(lowerRel, ".gen.") || strings.Contains(lowerRel, ".generated.")
}
