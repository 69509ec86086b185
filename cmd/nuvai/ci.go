package nuvai

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var ciTemplates = map[string]struct{ path, content string }{
	"github": {".github/workflows/nuvai.yml", `name: nuvai
on: [push, pull_request]
jobs:
  scan:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
        with:
          fetch-depth: 0
      - uses: actions/setup-go@v5
        with:
          go-version: '1.25'
      - run: go install github.com/nuvai/nuvai@latest
      - run: nuvai scan --no-export --format sarif --report-dir reports --fail-on high
      - uses: github/codeql-action/upload-sarif@v3
        if: always()
        with:
          sarif_file: reports
`},
	"gitlab": {".gitlab-ci.yml", `stages: [scan]
nuvai:
  stage: scan
  image: golang:1.25
  script:
    - go install github.com/nuvai/nuvai@latest
    - nuvai scan --json --fail-on high | tee nuvai-findings.json
  artifacts:
    when: always
    paths:
      - nuvai-findings.json
`},
	"bitbucket": {"bitbucket-pipelines.yml", `pipelines:
  default:
    - step:
        name: Nuvai Scan
        image: golang:1.25
        script:
          - go install github.com/nuvai/nuvai@latest
          - nuvai scan --json --fail-on high | tee nuvai-findings.json
        artifacts:
          - nuvai-findings.json
`},
	"azure": {"azure-pipelines.yml", `trigger:
- main

pool:
  vmImage: 'ubuntu-latest'

steps:
- task: GoTool@0
  inputs:
    version: '1.25.x'
- script: |
    go install github.com/nuvai/nuvai@latest
    nuvai scan --json --fail-on high | tee nuvai-findings.json
  displayName: 'Nuvai Scan'
- publish: nuvai-findings.json
  artifact: nuvai-findings
  condition: succeededOrFailed()
`},
}

func init() {
	ci := &cobra.Command{Use: "ci", Short: "CI template helpers for multiple providers"}
	rootCmd.AddCommand(ci)

	var provider string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a CI pipeline template for your provider",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tpl, ok := ciTemplates[provider]
			if !ok {
				return fmt.Errorf("unknown --provider. Supported: github, gitlab, bitbucket, azure")
			}
			if err := os.MkdirAll(filepath.Dir(tpl.path), 0755); err != nil {
				return err
			}
			if err := os.WriteFile(tpl.path, []byte(tpl.content), 0644); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote", tpl.path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&provider, "provider", "", "CI provider: github | gitlab | bitbucket | azure")
	_ = initCmd.MarkFlagRequired("provider")
	ci.AddCommand(initCmd)
}
