// Package git reads repository metadata and change sets with go-git, so
// scans can be tagged with the commit they ran against and limited to
// changed files. No git binary is required.
package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

// ErrNotRepository is returned when root is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// Metadata identifies the checkout a scan ran against. Fields are empty when
// unknown.
type Metadata struct {
	Repo   string `json:"repo,omitempty"`
	Commit string `json:"commit,omitempty"`
	Branch string `json:"branch,omitempty"`
}

// validateRoot validates and normalizes a repository root path.
func validateRoot(root string) (string, error) {
	if strings.ContainsRune(root, 0) {
		return "", fmt.Errorf("invalid path: contains null byte")
	}
	abs, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot access path %q: %w", root, err)
	}
	if !info.IsDir() {
		abs = filepath.Dir(abs)
	}
	return abs, nil
}

func open(root string) (*gogit.Repository, error) {
	validRoot, err := validateRoot(root)
	if err != nil {
		return nil, err
	}
	r, err := gogit.PlainOpenWithOptions(validRoot, &gogit.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return nil, ErrNotRepository
	}
	return r, err
}

// RepoMetadata returns best-effort metadata for the repository containing
// root. A zero Metadata is returned outside a repository.
func RepoMetadata(root string) Metadata {
	var md Metadata
	r, err := open(root)
	if err != nil {
		return md
	}
	if head, err := r.Head(); err == nil {
		md.Commit = head.Hash().String()
		if head.Name().IsBranch() {
			md.Branch = head.Name().Short()
		} else {
			md.Branch = "HEAD"
		}
	}
	if remote, err := r.Remote("origin"); err == nil {
		if urls := remote.Config().URLs; len(urls) > 0 {
			md.Repo = shortRepo(urls[0])
		}
	}
	return md
}

// shortRepo trims a remote URL to owner/name where possible.
func shortRepo(url string) string {
	s := strings.TrimSuffix(strings.TrimSpace(url), ".git")
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
		if j := strings.Index(s, "/"); j >= 0 {
			s = s[j+1:]
		}
		return s
	}
	if i := strings.LastIndex(s, ":"); i >= 0 {
		s = s[i+1:]
	}
	return s
}

// ChangedFiles lists work-tree paths (slash separated, relative to the
// repository root) that differ from base: files changed in commits since
// base plus uncommitted and untracked files. Deleted files are omitted.
func ChangedFiles(root, base string) ([]string, error) {
	r, err := open(root)
	if err != nil {
		return nil, err
	}
	set := map[string]bool{}

	if base != "" {
		baseHash, err := r.ResolveRevision(plumbing.Revision(base))
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", base, err)
		}
		baseCommit, err := r.CommitObject(*baseHash)
		if err != nil {
			return nil, err
		}
		head, err := r.Head()
		if err != nil {
			return nil, err
		}
		headCommit, err := r.CommitObject(head.Hash())
		if err != nil {
			return nil, err
		}
		baseTree, err := baseCommit.Tree()
		if err != nil {
			return nil, err
		}
		headTree, err := headCommit.Tree()
		if err != nil {
			return nil, err
		}
		changes, err := object.DiffTree(baseTree, headTree)
		if err != nil {
			return nil, err
		}
		for _, ch := range changes {
			action, err := ch.Action()
			if err != nil || action == merkletrie.Delete {
				continue
			}
			set[ch.To.Name] = true
		}
	}

	wt, err := r.Worktree()
	if err != nil {
		return nil, err
	}
	status, err := wt.Status()
	if err != nil {
		return nil, err
	}
	for p, s := range status {
		if s.Worktree == gogit.Deleted || (s.Staging == gogit.Deleted && s.Worktree == gogit.Unmodified) {
			delete(set, p)
			continue
		}
		if s.Worktree != gogit.Unmodified || s.Staging != gogit.Unmodified {
			set[p] = true
		}
	}

	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

// Root returns the top-level directory of the work tree containing path.
func Root(path string) (string, error) {
	r, err := open(path)
	if err != nil {
		return "", err
	}
	wt, err := r.Worktree()
	if err != nil {
		return "", err
	}
	return wt.Filesystem.Root(), nil
}
