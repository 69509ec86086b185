// Package config loads Nuvai configuration from local and global YAML files
// plus NUVAI_* environment overrides, with precedence rules. It is internal;
// CLI code maps flags and files into engine configuration.
package config
