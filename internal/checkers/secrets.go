package checkers

import "github.com/nuvai/nuvai/internal/types"

// Provider token formats. These are distinctive enough to flag regardless of
// the surrounding language, unlike the keyword heuristics in each rule set.
var matchKnownCredential = firstOf(
	nre("AWS access key ID", `\b(AKIA|ASIA)[0-9A-Z]{16}\b`),
	nre("GitHub token", `\bg(hp|ho|hu|hs|hr)_[A-Za-z0-9]{36}\b`),
	nre("GitLab personal access token", `\bglpat-[A-Za-z0-9_-]{20}\b`),
	nre("Slack token", `\bxox[abprs]-[A-Za-z0-9-]{10,48}`),
	nre("Stripe secret key", `\bsk_live_[A-Za-z0-9]{24,}`),
	nre("Anthropic API key", `\bsk-ant-[A-Za-z0-9_-]{30,}`),
	nre("OpenAI API key", `\bsk-(proj-)?[A-Za-z0-9]{32,}\b`),
	nre("Google API key", `\bAIza[0-9A-Za-z_-]{35}\b`),
	nre("npm token", `\bnpm_[A-Za-z0-9]{36}\b`),
	nre("PyPI token", `\bpypi-[A-Za-z0-9_-]{50,}`),
	nre("Hugging Face token", `\bhf_[A-Za-z0-9]{35,}\b`),
	nre("SendGrid API key", `\bSG\.[A-Za-z0-9_-]{16}\.[A-Za-z0-9_-]{32,}`),
	nre("DigitalOcean token", `\bdop_v1_[a-f0-9]{64}\b`),
	nre("private key block", `-----BEGIN [A-Z ]*PRIVATE KEY-----`),
)

func credentialCheck(lang types.Language) Check {
	return Check{
		ID:             string(lang) + ".known_credential",
		Severity:       types.SevCritical,
		Category:       "Known Credential Format",
		Message:        "A value matching a known credential format was found in source.",
		MessageFormat:  "A value matching the %s format was found in source.",
		Recommendation: "Revoke the credential, then load it from a secret manager or environment variable.",
		Match:          matchKnownCredential,
	}
}
