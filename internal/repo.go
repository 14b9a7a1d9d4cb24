package internal

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
)

const tempDirPrefix = "trufflehunt-*"

// Project is a materialized repository snapshot. Cleanup removes the local
// directory only when acquisition created it.
type Project struct {
	Repo    *git.Repository
	Path    string
	URI     string
	created bool
}

// AcquireProject materializes the repository at address. Remote addresses are
// cloned into a fresh temp directory; plain paths and file:// addresses are
// opened in place unless force is set, in which case they are cloned too.
func AcquireProject(ctx context.Context, address string, force bool) (*Project, error) {
	scheme, rest := "file", address
	if i := strings.Index(address, "://"); i >= 0 {
		scheme, rest = address[:i], address[i+len("://"):]
	}

	if scheme == "file" && !force {
		repo, err := git.PlainOpen(rest)
		if err != nil {
			return nil, fmt.Errorf("open repository %s: %w", rest, err)
		}
		return &Project{Repo: repo, Path: rest, URI: address}, nil
	}

	dir, err := os.MkdirTemp("", tempDirPrefix)
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	cloneURL := address
	if scheme == "file" {
		cloneURL = rest
	}

	repo, err := git.PlainCloneContext(ctx, dir, true, &git.CloneOptions{
		URL: cloneURL,
	})
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("clone %s: %w", address, err)
	}

	return &Project{Repo: repo, Path: dir, URI: address, created: true}, nil
}

// Cleanup removes the temporary clone, if any. Pre-existing local
// repositories are left untouched.
func (p *Project) Cleanup() {
	if p.created {
		os.RemoveAll(p.Path)
	}
}
