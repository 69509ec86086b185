package checkers

import "github.com/nuvai/nuvai/internal/types"

var javascriptChecks = []Check{
	{
		ID:             "javascript.dynamic_exec",
		Severity:       types.SevCritical,
		Category:       "Dynamic Code Execution",
		Message:        "Use of eval or similar constructs detected.",
		Recommendation: "Avoid dynamic code execution. Use strict logic paths.",
		Match:          re(`\b(eval|Function|setTimeout|setInterval)\s*\(`),
	},
	{
		ID:             "javascript.dom_xss",
		Severity:       types.SevHigh,
		Category:       "DOM-based XSS",
		Message:        "Direct DOM manipulation using unsanitized data.",
		Recommendation: "Avoid setting HTML using user input. Sanitize all dynamic content.",
		Match:          re(`innerHTML|outerHTML|document\.write`),
	},
	{
		ID:             "javascript.insecure_storage",
		Severity:       types.SevWarning,
		Category:       "Insecure Storage Usage",
		Message:        "Sensitive data accessed from browser storage.",
		Recommendation: "Avoid using local/session storage or cookies for secrets.",
		Match:          re(`localStorage|sessionStorage|document\.cookie`),
	},
	{
		ID:             "javascript.hardcoded_secret",
		Severity:       types.SevHigh,
		Category:       "Hardcoded Secret",
		Message:        "Sensitive key or token found in source code.",
		Recommendation: "Store secrets in secure backend or config files.",
		Match:          re(`(?i)(api|token|secret|key|password)\s*[:=]\s*["']\w{8,}["']`),
	},
	{
		ID:             "javascript.debug_statement",
		Severity:       types.SevInfo,
		Category:       "Debug Statement Detected",
		Message:        "Debugging code found.",
		Recommendation: "Remove console.log or debugger statements before production",
		Match:          re(`console\.log|debugger`),
	},
	{
		ID:             "javascript.insecure_http",
		Severity:       types.SevHigh,
		Category:       "Insecure HTTP Request",
		Message:        "HTTP connection used instead of HTTPS.",
		Recommendation: "Use secure HTTPS URLs for all network requests.",
		Match:          re(`fetch\("http:|axios\.get\("http:`),
	},
	{
		ID:             "javascript.unsanitized_url_param",
		Severity:       types.SevHigh,
		Category:       "Unsanitized URL Parameter",
		Message:        "Use of URL parameters without validation.",
		Recommendation: "Validate or sanitize user input from URLs.",
		Match:          allOf(re(`location\.search|URLSearchParams`), not(re(`sanitize|encode`))),
	},
	{
		ID:             "javascript.raw_xhr",
		Severity:       types.SevWarning,
		Category:       "Unrestricted XMLHttpRequest",
		Message:        "Raw XHR usage found.",
		Recommendation: "Use fetch() with proper CORS and security headers.",
		Match:          re(`new\s+XMLHttpRequest\(\)`),
	},
	{
		ID:             "javascript.uncontrolled_redirect",
		Severity:       types.SevMedium,
		Category:       "Uncontrolled Redirect",
		Message:        "URL redirection logic found.",
		Recommendation: "Avoid assigning user input to location.href or window.name.",
		Match:          re(`(location\.href|window\.name)\s*=`),
	},
	{
		ID:             "javascript.unvalidated_content",
		Severity:       types.SevHigh,
		Category:       "Unvalidated User Content",
		Message:        "Untrusted data written directly to DOM.",
		Recommendation: "Escape or sanitize all user-generated content.",
		Match:          allOf(re(`(userInput|userData|data)\s*[:=]`), re(`innerHTML|document\.write`)),
	},
}
