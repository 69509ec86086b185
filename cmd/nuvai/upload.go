package nuvai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nuvai/nuvai/internal/git"
	"github.com/nuvai/nuvai/pkg/core"
)

const uploadSchemaVersion = "1"

type uploadEnvelope struct {
	Tool     string         `json:"tool"`
	Version  string         `json:"version"`
	Schema   string         `json:"schema_version"`
	Repo     string         `json:"repo,omitempty"`
	Commit   string         `json:"commit,omitempty"`
	Branch   string         `json:"branch,omitempty"`
	Findings []core.Finding `json:"findings"`
}

var uploadClient = &http.Client{Timeout: 10 * time.Second}

func uploadFindings(rootPath, url, token string, noMeta bool, findings []core.Finding) error {
	if len(findings) == 0 {
		return nil
	}
	env := uploadEnvelope{Tool: "nuvai", Version: version, Schema: uploadSchemaVersion, Findings: findings}
	if !noMeta {
		meta := git.RepoMetadata(rootPath)
		env.Repo, env.Commit, env.Branch = meta.Repo, meta.Commit, meta.Branch
	}
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := uploadClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("upload status %d", resp.StatusCode)
	}
	return nil
}
