package checkers

import "github.com/nuvai/nuvai/internal/types"

var pythonChecks = []Check{
	{
		ID:             "python.dynamic_exec",
		Severity:       types.SevCritical,
		Category:       "Dynamic Code Execution",
		Message:        "Use of eval() or exec() can lead to arbitrary code execution.",
		Recommendation: "Avoid using eval/exec. Use safer alternatives like literal_eval or dictionaries.",
		Match:          re(`\b(eval|exec)\s*\(`),
	},
	{
		ID:             "python.os_command",
		Severity:       types.SevCritical,
		Category:       "OS Command Injection",
		Message:        "Use of os.system with input can allow shell injection.",
		Recommendation: "Use subprocess.run with argument arrays and input sanitization.",
		Match:          re(`os\.system\s*\(`),
	},
	{
		ID:             "python.template_injection",
		Severity:       types.SevWarning,
		Category:       "Template Injection Risk",
		Message:        "Template rendering may use unescaped user input.",
		Recommendation: "Ensure Jinja templates escape variables by default, or sanitize input manually.",
		Match:          allOf(re(`render_template\(.+\)`), contains("request")),
	},
	{
		ID:             "python.xss_output",
		Severity:       types.SevWarning,
		Category:       "XSS-like Output",
		Message:        "Detected potentially unsafe JavaScript in output.",
		Recommendation: "Ensure output is properly escaped when generating HTML.",
		Match:          re(`<script>|document\.write\s*\(`),
	},
	{
		ID:             "python.hardcoded_secret",
		Severity:       types.SevHigh,
		Category:       "Hardcoded Secrets",
		Message:        "Credentials or tokens appear to be hardcoded in code.",
		Recommendation: "Move all secrets to environment variables or a secure vault.",
		Match:          re(`(?i)(api|token|secret|key|password)\s*[:=]\s*["']\w{6,}["']`),
	},
	{
		ID:             "python.debug_mode",
		Severity:       types.SevInfo,
		Category:       "Debug Mode Enabled",
		Message:        "Debug mode is active. May leak internal details in production.",
		Recommendation: "Disable debug mode in production environments.",
		Match:          anyOf(re(`DEBUG\s*=\s*True`), contains(`app.config["DEBUG"] = True`)),
	},
	{
		ID:             "python.pickle",
		Severity:       types.SevCritical,
		Category:       "Insecure Deserialization",
		Message:        "Pickle deserialization allows remote code execution if input is untrusted.",
		Recommendation: "Avoid pickle. Use safer formats like JSON for untrusted input.",
		Match:          re(`pickle\.(load|loads)\s*\(`),
	},
	{
		ID:             "python.ssrf",
		Severity:       types.SevHigh,
		Category:       "Potential SSRF",
		Message:        "requests.get using unsanitized input can allow server-side request forgery.",
		Recommendation: "Validate URLs and restrict internal IPs or schemes.",
		Match:          allOf(re(`requests\.get\s*\(.*\)`), re(`input\(`)),
	},
	{
		ID:             "python.path_traversal",
		Severity:       types.SevCritical,
		Category:       "Path Traversal Risk",
		Message:        "File access using relative '../' paths can expose sensitive files.",
		Recommendation: "Validate and sanitize file paths. Use pathlib where possible.",
		Match:          re(`open\s*\(.*\.\./`),
	},
	{
		ID:             "python.weak_hash",
		Severity:       types.SevMedium,
		Category:       "Weak Hash Function",
		Message:        "MD5 and SHA1 are insecure and susceptible to collisions.",
		Recommendation: "Use SHA-256 or stronger algorithms.",
		Match:          re(`(md5|sha1)\s*\(`),
	},
	{
		ID:             "python.raw_input",
		Severity:       types.SevMedium,
		Category:       "Unvalidated User Input",
		Message:        "Use of input() without validation may lead to logic bugs or injection.",
		Recommendation: "Always validate and sanitize user input.",
		Match:          re(`\binput\s*\(`),
	},
	{
		ID:             "python.insecure_jwt",
		Severity:       types.SevHigh,
		Category:       "Insecure JWT Handling",
		Message:        "JWT decoding is performed with verification turned off.",
		Recommendation: "Always verify JWT tokens in production.",
		Match:          allOf(contains("jwt.decode"), contains("verify=False")),
	},
	{
		ID:             "python.sensitive_logging",
		Severity:       types.SevWarning,
		Category:       "Sensitive Data in Logs",
		Message:        "Logging statements may leak sensitive values.",
		Recommendation: "Avoid logging secrets, or mask them before logging.",
		Match:          re(`(?i)logging\.\w+\s*\([^)]*(password|token|secret)`),
	},
	{
		ID:             "python.suspicious_comment",
		Severity:       types.SevInfo,
		Category:       "Suspicious Comment",
		Message:        "Comment in code suggests incomplete or insecure logic.",
		Recommendation: "Review and clean up TODOs or sensitive comments.",
		Match:          re(`(?i)#\s*(TODO|FIXME|DEBUG|HACK|password)`),
	},
	{
		ID:             "python.exposed_path",
		Severity:       types.SevMedium,
		Category:       "Exposed System Path",
		Message:        "Sensitive or system-related paths detected.",
		Recommendation: "Avoid referencing internal or absolute paths directly in code.",
		Match:          re(`/etc/|/home/|\\\\\w|credentials\.json|\.env\b`),
	},
	{
		ID:             "python.wildcard_import",
		Severity:       types.SevWarning,
		Category:       "Wildcard Import",
		Message:        "Using wildcard imports can lead to namespace collisions.",
		Recommendation: "Import specific components explicitly.",
		Match:          re(`import \*|from .* import \*`),
	},
	{
		ID:             "python.debug_artifact",
		Severity:       types.SevInfo,
		Category:       "Debugging Artifact",
		Message:        "Code contains print statements or debugging breakpoints.",
		Recommendation: "Remove or disable debugging lines before production.",
		Match:          re(`pdb\.set_trace\(\)|print\(`),
	},
	{
		ID:             "python.insecure_module",
		Severity:       types.SevWarning,
		Category:       "Insecure Module Usage",
		Message:        "Detected usage of insecure or unencrypted modules.",
		Recommendation: "Use secure alternatives such as HTTPS libraries or encrypted protocols.",
		Match:          re(`import\s+(telnetlib|smtplib|http\.client)`),
	},
}
