package checkers

import "github.com/nuvai/nuvai/internal/types"

var cppChecks = []Check{
	{
		ID:             "cpp.dangerous_function",
		Severity:       types.SevCritical,
		Category:       "Dangerous Function",
		Message:        "Usage of dangerous function detected.",
		MessageFormat:  "Usage of dangerous function: %s()",
		Recommendation: "Replace with safer alternatives like strncpy, snprintf, etc.",
		Match: firstOf(
			nre("gets", `\bgets\s*\(`),
			nre("strcpy", `\bstrcpy\s*\(`),
			nre("sprintf", `\bsprintf\s*\(`),
			nre("system", `\bsystem\s*\(`),
			nre("popen", `\bpopen\s*\(`),
		),
	},
	{
		ID:             "cpp.buffer_overflow",
		Severity:       types.SevHigh,
		Category:       "Possible Buffer Overflow",
		Message:        "Potential buffer overflow in fixed-size character array.",
		Recommendation: "Use std::string or validate lengths before copying.",
		Match:          re(`char\s+\w+\s*\[\s*\d+\s*\]\s*=\s*".+";`),
	},
	{
		ID:             "cpp.null_pointer",
		Severity:       types.SevWarning,
		Category:       "Unsafe Null Pointer",
		Message:        "Pointer initialized to NULL without safety guard.",
		Recommendation: "Ensure pointers are validated before dereferencing.",
		Match:          re(`(int|char|void|float|double)\s*\*\s*\w+\s*=\s*NULL`),
	},
	{
		ID:             "cpp.unchecked_alloc",
		Severity:       types.SevHigh,
		Category:       "Unchecked Memory Allocation",
		Message:        "Result of malloc/calloc not validated.",
		Recommendation: "Always check memory allocation results.",
		Match:          allOf(re(`(malloc|calloc|realloc)\s*\(.*\)`), not(re(`if\s*\(.*!=\s*NULL\)`))),
	},
	{
		ID:             "cpp.uninitialized_var",
		Severity:       types.SevWarning,
		Category:       "Uninitialized Variable",
		Message:        "Variable declared without initialization.",
		Recommendation: "Initialize all variables before usage.",
		Match:          re(`(int|char|float|double)\s+\w+\s*;`),
	},
	{
		ID:             "cpp.infinite_loop",
		Severity:       types.SevMedium,
		Category:       "Potential Infinite Loop",
		Message:        "Infinite loop without break condition.",
		Recommendation: "Ensure loop termination condition exists.",
		Match:          re(`while\s*\(\s*1\s*\)`),
	},
	{
		ID:             "cpp.hardcoded_credentials",
		Severity:       types.SevHigh,
		Category:       "Hardcoded Credentials",
		Message:        "Hardcoded credentials found in C++ code.",
		Recommendation: "Move credentials to secure config files or environment vars.",
		Match:          re(`(user|pass|token|key)\s*=\s*"\w{4,}"`),
	},
	{
		ID:             "cpp.user_file_access",
		Severity:       types.SevHigh,
		Category:       "User-Controlled File Access",
		Message:        "User input passed into fopen.",
		Recommendation: "Validate and sanitize file paths.",
		Match:          allOf(re(`fopen\s*\(\s*\w+`), re(`argv|user|input`)),
	},
	{
		ID:             "cpp.insecure_macro",
		Severity:       types.SevInfo,
		Category:       "Unsafe Macro Definition",
		Message:        "Potentially dangerous macro definition.",
		Recommendation: "Review macro usage and prefer constants.",
		Match:          re(`#define\s+\w+\s+\d{4,}`),
	},
	{
		ID:             "cpp.unsanitized_system",
		Severity:       types.SevCritical,
		Category:       "Unsanitized system() Call",
		Message:        "Raw system() used with unsanitized input.",
		Recommendation: "Avoid system() or validate command arguments.",
		Match:          re(`system\s*\(\s*\w+\s*\)`),
	},
	{
		ID:             "cpp.deprecated_function",
		Severity:       types.SevWarning,
		Category:       "Deprecated C Function",
		Message:        "Deprecated function call found.",
		Recommendation: "Use modern and safer C++ APIs.",
		Match:          re(`gets\s*\(|bcopy\s*\(|index\s*\(`),
	},
}
