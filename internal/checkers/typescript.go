package checkers

import "github.com/nuvai/nuvai/internal/types"

var typescriptChecks = []Check{
	{
		ID:             "typescript.dynamic_exec",
		Severity:       types.SevCritical,
		Category:       "Dynamic Code Execution",
		Message:        "Use of eval, new Function or setTimeout with string detected.",
		Recommendation: "Avoid dynamic code. Use strict logic flow.",
		Match:          re(`eval|new Function|setTimeout\s*\(\s*"`),
	},
	{
		ID:             "typescript.any_type",
		Severity:       types.SevWarning,
		Category:       "Unsafe Typing",
		Message:        "TypeScript type 'any' used.",
		Recommendation: "Use explicit types to maintain type safety.",
		Match:          re(`:\s*any\b|as\s+any\b`),
	},
	{
		ID:             "typescript.unsanitized_dom_input",
		Severity:       types.SevHigh,
		Category:       "Unsanitized DOM Input",
		Message:        "DOM input accessed without validation.",
		Recommendation: "Sanitize all user input before use.",
		Match:          re(`(document|window)\.(getElementById|getElementsByClassName|querySelector).*\.value`),
	},
	{
		ID:             "typescript.hardcoded_secret",
		Severity:       types.SevHigh,
		Category:       "Hardcoded Secret",
		Message:        "Detected secret/token directly in code.",
		Recommendation: "Move sensitive credentials to environment variables.",
		Match:          re(`(?i)(api|token|secret|key|password)\s*[:=]\s*["']\w{8,}["']`),
	},
	{
		ID:             "typescript.insecure_request",
		Severity:       types.SevHigh,
		Category:       "Insecure API Request",
		Message:        "HTTP request made without HTTPS.",
		Recommendation: "Always use secure HTTPS endpoints.",
		Match:          re(`(fetch|axios)\(\s*"http:`),
	},
	{
		ID:             "typescript.missing_optional_chaining",
		Severity:       types.SevMedium,
		Category:       "Missing Optional Chaining",
		Message:        "Function/property accessed without null check.",
		Recommendation: "Use optional chaining or explicit validation.",
		Match:          allOf(re(`\w+\.\w+\s*\(`), not(re(`\?\.`))),
	},
	{
		ID:             "typescript.unhandled_promise",
		Severity:       types.SevWarning,
		Category:       "Unhandled Promise Rejection",
		Message:        "Promise used without catch() or try/catch.",
		Recommendation: "Always handle promise errors explicitly.",
		Match:          allOf(re(`\.then\(`), not(re(`\.catch\(`))),
	},
	{
		ID:             "typescript.insecure_storage",
		Severity:       types.SevWarning,
		Category:       "Insecure Storage Usage",
		Message:        "Sensitive data stored in browser storage.",
		Recommendation: "Avoid storing secrets in local/session storage.",
		Match:          re(`localStorage|sessionStorage|document\.cookie`),
	},
	{
		ID:             "typescript.debug_statement",
		Severity:       types.SevInfo,
		Category:       "Debug Statement",
		Message:        "console.log/debugger detected in code.",
		Recommendation: "Remove debug statements before shipping code.",
		Match:          re(`console\.log|debugger`),
	},
	{
		ID:             "typescript.unvalidated_redirect",
		Severity:       types.SevHigh,
		Category:       "Unvalidated Redirect",
		Message:        "Detected assignment to navigation location.",
		Recommendation: "Avoid redirecting users based on untrusted input.",
		Match:          re(`(window\.location|document\.referrer)\s*=`),
	},
	{
		ID:             "typescript.sensitive_comment",
		Severity:       types.SevInfo,
		Category:       "Sensitive Comment",
		Message:        "Potentially sensitive comment in code.",
		Recommendation: "Remove leftover debug or password hints.",
		Match:          re(`(?i)//.*(todo|password|debug)`),
	},
}
