// Package engine contains the core scanning logic for nuvai. The Dispatcher
// maps a language to its rule checker and normalizes results; ScanPaths walks
// a tree and runs the gate, detector and dispatcher over every supported
// file. This package is internal; external consumers should use the stable
// facade in pkg/core.
package engine
