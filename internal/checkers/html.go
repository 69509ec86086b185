package checkers

import "github.com/nuvai/nuvai/internal/types"

var htmlChecks = []Check{
	{
		ID:             "html.inline_script",
		Severity:       types.SevHigh,
		Category:       "Inline Script Detected",
		Message:        "Inline JavaScript block found.",
		Recommendation: "Use external scripts and implement CSP to block inline scripts.",
		Match:          re(`(?i)<script[^>]*>[^<]+</script>`),
	},
	{
		ID:             "html.inline_event_handler",
		Severity:       types.SevHigh,
		Category:       "Inline Event Handler",
		Message:        "Detected unsafe inline JavaScript event attribute.",
		Recommendation: "Move event logic to scripts or external handlers.",
		Match:          re(`(?i)on(click|load|error|input|submit)\s*=\s*"`),
	},
	{
		ID:             "html.missing_csrf",
		Severity:       types.SevWarning,
		Category:       "Missing CSRF Token",
		Message:        "Form detected without a CSRF token.",
		Recommendation: "Implement CSRF protection via hidden input tokens.",
		Match:          allOf(re(`<form[^>]*>`), not(re(`(?i)csrf`))),
	},
	{
		ID:             "html.password_autocomplete",
		Severity:       types.SevInfo,
		Category:       "Password Autocomplete Enabled",
		Message:        "Password input does not disable autocomplete.",
		Recommendation: `Use autocomplete="off" for password fields.`,
		Match:          allOf(re(`(?i)<input[^>]*type="password"[^>]*>`), not(re(`autocomplete\s*=\s*"off"`))),
	},
	{
		ID:             "html.blank_target",
		Severity:       types.SevInfo,
		Category:       "Target _blank Missing Noopener",
		Message:        `_blank link missing rel="noopener".`,
		Recommendation: `Always use rel="noopener" with target="_blank".`,
		Match:          allOf(re(`<a[^>]*target="_blank"[^>]*>`), not(re(`rel\s*=\s*"noopener"`))),
	},
	{
		ID:             "html.suspicious_comment",
		Severity:       types.SevInfo,
		Category:       "Suspicious HTML Comment",
		Message:        "Found development-related or sensitive comment.",
		Recommendation: "Remove all sensitive or debug-related comments before deployment.",
		Match:          re(`(?i)<!--.*(TODO|FIXME|DEBUG|password).*-->`),
	},
	{
		ID:             "html.sensitive_leak",
		Severity:       types.SevWarning,
		Category:       "Sensitive Information Leak",
		Message:        "Sensitive reference found in markup.",
		MessageFormat:  "Pattern found: %s",
		Recommendation: "Review and scrub sensitive references from HTML.",
		Match: firstOf(
			nre("system path /etc/", `/etc/`),
			nre("username reference", `\buser(name)?\b`),
			nre("admin reference", `admin`),
			nre("email address", `\b[A-Za-z0-9_.-]+@[A-Za-z0-9_.-]+\.[a-z]+\b`),
			nre("IPv4 address", `\b(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b`),
		),
	},
	{
		ID:             "html.insecure_form_action",
		Severity:       types.SevHigh,
		Category:       "Insecure Form Action",
		Message:        "Form submits over HTTP.",
		Recommendation: "Use HTTPS for all form submissions.",
		Match:          re(`<form[^>]*action\s*=\s*"http:`),
	},
	{
		ID:             "html.external_form_action",
		Severity:       types.SevMedium,
		Category:       "External Form Submission",
		Message:        "Form action points to external domain.",
		Recommendation: "Avoid submitting sensitive data to 3rd-party endpoints.",
		Match:          allOf(re(`<form[^>]*action\s*=\s*"https?://[^>]+"`), not(re(`yourdomain\.com`))),
	},
	{
		ID:             "html.unprotected_iframe",
		Severity:       types.SevWarning,
		Category:       "Unprotected Iframe",
		Message:        "<iframe> is missing important security attributes.",
		Recommendation: "Add sandbox and referrerpolicy attributes to all iframes.",
		Match:          allOf(re(`<iframe[^>]*>`), not(re(`sandbox|referrerpolicy|allow`))),
	},
	{
		ID:             "html.missing_csp",
		Severity:       types.SevInfo,
		Category:       "Missing CSP Meta Tag",
		Message:        "Content Security Policy meta tag not found.",
		Recommendation: "Define CSP using <meta> or server headers.",
		Match:          not(re(`(?i)<meta[^>]*http-equiv="Content-Security-Policy"`)),
	},
	{
		ID:             "html.sensitive_hidden_input",
		Severity:       types.SevWarning,
		Category:       "Sensitive Hidden Input",
		Message:        "Hidden field contains long static value.",
		Recommendation: "Move sensitive tokens server-side.",
		Match:          re(`<input[^>]*type="hidden"[^>]*value="[^"]{20,}"`),
	},
	{
		ID:             "html.insecure_external_js",
		Severity:       types.SevHigh,
		Category:       "Insecure External JS",
		Message:        "External JavaScript loaded over HTTP.",
		Recommendation: "Use HTTPS or host scripts locally.",
		Match:          re(`<script[^>]*src="http:`),
	},
	{
		ID:             "html.form_method_missing",
		Severity:       types.SevInfo,
		Category:       "Form Method Missing",
		Message:        "Form does not specify GET or POST method.",
		Recommendation: "Define method attribute explicitly.",
		Match:          allOf(re(`<form[^>]*>`), not(re(`method\s*=\s*"(post|get)"`))),
	},
	{
		ID:             "html.form_encoding_missing",
		Severity:       types.SevInfo,
		Category:       "Form Encoding Missing",
		Message:        "Form lacks enctype attribute.",
		Recommendation: "Use enctype for file uploads or proper MIME handling.",
		Match:          allOf(re(`<form[^>]*>`), not(re(`enctype\s*=\s*"`))),
	},
	{
		ID:             "html.sensitive_autocomplete",
		Severity:       types.SevInfo,
		Category:       "Sensitive Input With Autocomplete",
		Message:        "Sensitive form field allows autocomplete.",
		Recommendation: `Use autocomplete="off" on inputs for PII or financial data.`,
		Match:          allOf(re(`(?i)<input[^>]+(credit|card|email|address)[^>]+>`), not(re(`autocomplete\s*=\s*"off"`))),
	},
}
