// Package language maps a filename and its contents to the rule set that
// should inspect it.
package language

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nuvai/nuvai/internal/types"
)

var byExtension = map[string]types.Language{
	".py":   types.LangPython,
	".js":   types.LangJavaScript,
	".ts":   types.LangTypeScript,
	".jsx":  types.LangJSX,
	".php":  types.LangPHP,
	".html": types.LangHTML,
	".cpp":  types.LangCPP,
}

var extensionOrder = []string{".py", ".js", ".ts", ".jsx", ".php", ".html", ".cpp"}

type signature struct {
	lang     types.Language
	patterns []*regexp.Regexp
}

// Most specific markers first: a PHP open tag or an HTML doctype settles the
// question even when the body also contains keywords of other languages.
var signatures = []signature{
	{types.LangPHP, compile(`<\?php`, `\becho\s`)},
	{types.LangHTML, compile(`(?i)<html`, `(?i)<!DOCTYPE`)},
	{types.LangJSX, compile(`import\s+React`, `return\s*\(?\s*<[A-Za-z]`)},
	{types.LangTypeScript, compile(`\binterface\s+\w+`, `import .* from ".*"`, `:\s*(string|number|boolean)\b`)},
	{types.LangCPP, compile(`#include`, `std::`)},
	{types.LangPython, compile(`(?m)^\s*def\s`, `(?m)^\s*import\s`, `(?m)^\s*from\s+\S+\s+import\s`)},
	{types.LangJavaScript, compile(`\bfunction\s`, `console\.log`)},
}

var jsxSignals = compile(
	`import\s+React`,
	`from\s+['"]react['"]`,
	`className=`,
	`<>`,
)

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

func anyMatch(res []*regexp.Regexp, code string) bool {
	for _, re := range res {
		if re.MatchString(code) {
			return true
		}
	}
	return false
}

// Detect resolves the language for filename and code. The extension wins
// when it is recognized, except that a .js file carrying JSX-only markers is
// reported as jsx. Without a usable extension the content is sniffed.
func Detect(filename, code string) types.Language {
	if lang, ok := FromExtension(filename); ok {
		if lang == types.LangJavaScript && anyMatch(jsxSignals, code) {
			return types.LangJSX
		}
		return lang
	}
	return Sniff(code)
}

// FromExtension looks up the language for the file's extension.
func FromExtension(filename string) (types.Language, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	lang, ok := byExtension[ext]
	return lang, ok
}

// Sniff guesses the language from content alone. It returns
// types.LangPlaintext when no signature matches.
func Sniff(code string) types.Language {
	for _, sig := range signatures {
		if anyMatch(sig.patterns, code) {
			return sig.lang
		}
	}
	return types.LangPlaintext
}

// SupportedExtensions returns the recognized extensions in a stable order.
func SupportedExtensions() []string {
	out := make([]string, len(extensionOrder))
	copy(out, extensionOrder)
	return out
}

// ExtensionsFor returns the extensions that map to lang.
func ExtensionsFor(lang types.Language) []string {
	var out []string
	for _, ext := range extensionOrder {
		if byExtension[ext] == lang {
			out = append(out, ext)
		}
	}
	return out
}

// IsSupportedFile reports whether path has one of the recognized extensions.
func IsSupportedFile(path string) bool {
	_, ok := FromExtension(path)
	return ok
}
