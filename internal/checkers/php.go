package checkers

import "github.com/nuvai/nuvai/internal/types"

var phpChecks = []Check{
	{
		ID:             "php.dangerous_function",
		Severity:       types.SevCritical,
		Category:       "Dangerous Function Execution",
		Message:        "Use of insecure function: eval/system/etc.",
		MessageFormat:  "Use of insecure function: %s.",
		Recommendation: "Avoid dangerous functions. Use safer abstractions or escape/sanitize input.",
		Match: firstOf(
			nre("eval", `\beval\s*\(`),
			nre("system", `\bsystem\s*\(`),
			nre("exec", `\bexec\s*\(`),
			nre("passthru", `\bpassthru\s*\(`),
			nre("shell_exec", `\bshell_exec\s*\(`),
			nre("popen", `\bpopen\s*\(`),
		),
	},
	{
		ID:             "php.sql_injection",
		Severity:       types.SevHigh,
		Category:       "Possible SQL Injection",
		Message:        "Unsanitized user input detected in SQL query.",
		Recommendation: "Use PDO/MySQLi with prepared statements.",
		Match:          re(`(?i)\$_(GET|POST|REQUEST).*\.(SELECT|INSERT|UPDATE|DELETE)`),
	},
	{
		ID:             "php.reflected_xss",
		Severity:       types.SevHigh,
		Category:       "Reflected XSS",
		Message:        "User input directly echoed without encoding.",
		Recommendation: "Escape output with htmlspecialchars().",
		Match:          re(`(echo|print)\s*\$_(GET|POST|REQUEST|COOKIE)`),
	},
	{
		ID:             "php.file_inclusion",
		Severity:       types.SevHigh,
		Category:       "File Inclusion",
		Message:        "File path dynamically included from user input.",
		Recommendation: "Avoid dynamic file inclusion. Use whitelisting.",
		Match:          re(`(include|require|include_once|require_once)\s*\(\s*\$_(GET|POST|REQUEST)`),
	},
	{
		ID:             "php.hardcoded_credentials",
		Severity:       types.SevHigh,
		Category:       "Hardcoded Credentials",
		Message:        "Database credentials found in code.",
		Recommendation: "Use environment config files outside web root.",
		Match:          re(`(?i)(host|user|pass|dbname)\s*=\s*["']\w+["']`),
	},
	{
		ID:             "php.error_reporting",
		Severity:       types.SevInfo,
		Category:       "Error Reporting Enabled",
		Message:        "PHP error reporting is active.",
		Recommendation: "Disable error reporting on production servers.",
		Match:          re(`error_reporting\s*\(`),
	},
	{
		ID:             "php.session_fixation",
		Severity:       types.SevWarning,
		Category:       "Session Fixation Risk",
		Message:        "Session not regenerated after login.",
		Recommendation: "Call session_regenerate_id(true) after authentication.",
		Match:          allOf(contains("session_start()"), not(contains("session_regenerate_id"))),
	},
	{
		ID:             "php.unvalidated_upload",
		Severity:       types.SevHigh,
		Category:       "Unvalidated File Upload",
		Message:        "File upload found without validation.",
		Recommendation: "Check MIME type and store uploaded files outside webroot.",
		Match:          allOf(re(`\$_FILES\[.+\]`), not(re(`mime_content_type|finfo_open|pathinfo`))),
	},
	{
		ID:             "php.weak_hash",
		Severity:       types.SevMedium,
		Category:       "Weak Hash Algorithm",
		Message:        "Use of insecure hash function.",
		Recommendation: "Use password_hash() or SHA-256/SHA-512.",
		Match:          re(`(md5|sha1)\s*\(`),
	},
	{
		ID:             "php.missing_csrf",
		Severity:       types.SevWarning,
		Category:       "Missing CSRF Token",
		Message:        "Form missing CSRF protection.",
		Recommendation: "Add CSRF token hidden field and validate it server-side.",
		Match:          allOf(re(`<form`), not(re(`(?i)csrf_token`))),
	},
	{
		ID:             "php.insecure_random",
		Severity:       types.SevWarning,
		Category:       "Insecure Random Generator",
		Message:        "Use of rand() or mt_rand() is insecure.",
		Recommendation: "Use random_int() or openssl_random_pseudo_bytes().",
		Match:          re(`\b(rand|mt_rand)\s*\(`),
	},
	{
		ID:             "php.version_disclosure",
		Severity:       types.SevInfo,
		Category:       "PHP Version Disclosure",
		Message:        "PHP version exposed in HTTP headers.",
		Recommendation: "Disable expose_php in php.ini.",
		Match:          re(`(?i)header\s*\(\s*"X-Powered-By:\s*PHP`),
	},
	{
		ID:             "php.insecure_cookie",
		Severity:       types.SevWarning,
		Category:       "Insecure Cookie",
		Message:        "Cookies missing Secure or HttpOnly flags.",
		Recommendation: "Set flags to protect cookies from theft.",
		Match:          allOf(re(`setcookie\s*\(`), not(re(`HttpOnly|Secure`))),
	},
	{
		ID:             "php.raw_superglobal",
		Severity:       types.SevMedium,
		Category:       "Raw Superglobal Output",
		Message:        "Superglobal used without sanitization.",
		Recommendation: "Always validate and escape superglobal values.",
		Match:          re(`\$_(GET|POST|REQUEST|COOKIE|SERVER)\s*;`),
	},
}
