package checkers

import "github.com/nuvai/nuvai/internal/types"

var jsxChecks = []Check{
	{
		ID:             "jsx.dangerous_inner_html",
		Severity:       types.SevCritical,
		Category:       "dangerouslySetInnerHTML",
		Message:        "Use of dangerouslySetInnerHTML detected.",
		Recommendation: "Avoid direct HTML injection. Sanitize inputs and use libraries like DOMPurify.",
		Match:          re(`dangerouslySetInnerHTML\s*=\s*\{`),
	},
	{
		ID:             "jsx.unescaped_prop",
		Severity:       types.SevHigh,
		Category:       "Unescaped Prop Rendering",
		Message:        "Unescaped prop/state rendered directly.",
		Recommendation: "Ensure user input is sanitized before rendering.",
		Match:          re(`\{\s*(props|this\.props|state|this\.state)\.[a-zA-Z0-9_]+\s*\}`),
	},
	{
		ID:             "jsx.inline_event_handler",
		Severity:       types.SevMedium,
		Category:       "Inline Event Handler",
		Message:        "Arrow function used directly in JSX event handler.",
		Recommendation: "Extract event logic into named functions outside JSX.",
		Match:          re(`on\w+\s*=\s*\{\s*\(.*\)\s*=>`),
	},
	{
		ID:             "jsx.debug_statement",
		Severity:       types.SevInfo,
		Category:       "Debug Code Present",
		Message:        "console.log or debugger found.",
		Recommendation: "Remove debug statements before production.",
		Match:          re(`console\.log|debugger`),
	},
	{
		ID:             "jsx.hardcoded_secret",
		Severity:       types.SevHigh,
		Category:       "Hardcoded Secret",
		Message:        "Token or API key found in JSX component.",
		Recommendation: "Use .env variables or secure backend storage.",
		Match:          re(`(token|apiKey|secret)\s*[:=]\s*["']\w{8,}["']`),
	},
	{
		ID:             "jsx.insecure_storage",
		Severity:       types.SevWarning,
		Category:       "Insecure Storage Access",
		Message:        "Direct access to browser storage detected.",
		Recommendation: "Avoid storing sensitive values in unprotected storage.",
		Match:          re(`localStorage|sessionStorage|document\.cookie`),
	},
	{
		ID:             "jsx.missing_key_prop",
		Severity:       types.SevInfo,
		Category:       "Missing key Prop",
		Message:        "JSX array rendering missing key prop.",
		Recommendation: "Always assign a unique key when mapping lists.",
		Match:          allOf(re(`map\((\w+)\s*=>\s*<\w+`), not(re(`key\s*=\s*\{`))),
	},
	{
		ID:             "jsx.unsafe_dom_access",
		Severity:       types.SevWarning,
		Category:       "Unsafe DOM Access",
		Message:        "DOM access via document/window detected.",
		Recommendation: "Use React refs or stateful logic instead.",
		Match:          re(`(document|window)\.(getElementById|getElementsByClassName|querySelector)`),
	},
	{
		ID:             "jsx.insecure_request",
		Severity:       types.SevHigh,
		Category:       "Insecure API Request",
		Message:        "API request made over HTTP.",
		Recommendation: "Use only secure HTTPS endpoints.",
		Match:          re(`(fetch|axios)\(\s*["']http:`),
	},
	{
		ID:             "jsx.dynamic_attribute",
		Severity:       types.SevHigh,
		Category:       "Dynamic Attribute Injection",
		Message:        "Dynamic assignment to href/src/ref.",
		Recommendation: "Ensure these attributes are validated and sanitized.",
		Match:          re(`(href|src|ref)\s*=\s*\{\s*(props|state)`),
	},
	{
		ID:             "jsx.input_reflection",
		Severity:       types.SevHigh,
		Category:       "User Input Reflection",
		Message:        "User input rendered directly.",
		Recommendation: "Escape or sanitize all reflected user content.",
		Match:          re(`\{\s*(user|data|input)\s*\}`),
	},
}
