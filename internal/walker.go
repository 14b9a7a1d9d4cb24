package internal

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// DefaultMaxDepth bounds ancestry traversal when the caller gives no limit.
const DefaultMaxDepth = 1000000

type dedupKey [md5.Size]byte

// pairKey digests an ordered commit pair. Content-addressed hashes guarantee
// an identical pair always yields an identical diff, so a pair seen under one
// branch never needs rescanning under another. The genesis diff uses the zero
// hash as its previous side.
func pairKey(prev, curr plumbing.Hash) dedupKey {
	return md5.Sum([]byte(prev.String() + curr.String()))
}

// ScanState is the sequential per-invocation state of one scan: the set of
// already-processed commit pairs and the accumulated findings. It is never
// shared across scans.
type ScanState struct {
	seen     map[dedupKey]struct{}
	findings []Finding
}

func newScanState() *ScanState {
	return &ScanState{seen: make(map[dedupKey]struct{})}
}

func (s *ScanState) has(key dedupKey) bool {
	_, ok := s.seen[key]
	return ok
}

func (s *ScanState) add(key dedupKey) {
	s.seen[key] = struct{}{}
}

type WalkOptions struct {
	MaxDepth    int
	SinceCommit string
}

// Walker enumerates branches and drives the detection pipeline over every
// unique commit-pair diff in their ancestry, newest to oldest.
type Walker struct {
	repo     *git.Repository
	pipeline *Pipeline
	observe  func(Finding)
}

// NewWalker builds a walker over an already-materialized repository. observe,
// if non-nil, is called for each Finding as it is produced.
func NewWalker(repo *git.Repository, pipeline *Pipeline, observe func(Finding)) *Walker {
	return &Walker{repo: repo, pipeline: pipeline, observe: observe}
}

func (w *Walker) Walk(ctx context.Context, opts WalkOptions) ([]Finding, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}

	branches, err := w.branches()
	if err != nil {
		return nil, err
	}

	state := newScanState()
	for _, ref := range branches {
		if err := w.walkBranch(ctx, ref, opts, state); err != nil {
			return nil, err
		}
	}

	return state.findings, nil
}

// branches returns the refs to traverse: the union of local and
// remote-tracking branches, falling back to a detached HEAD. A clone
// materializes only the default branch as a local ref, so remote-tracking
// refs must always be walked too; the pair dedup makes the overlap free. An
// empty repository yields no refs and the scan is a no-op.
func (w *Walker) branches() ([]*plumbing.Reference, error) {
	refs, err := w.repo.References()
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}

	var locals, remotes []*plumbing.Reference
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		switch {
		case ref.Name().IsBranch():
			locals = append(locals, ref)
		case ref.Name().IsRemote():
			remotes = append(remotes, ref)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate references: %w", err)
	}

	picked := append(locals, remotes...)
	if len(picked) == 0 {
		head, err := w.repo.Head()
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("resolve HEAD: %w", err)
		}
		picked = append(picked, head)
	}

	sort.Slice(picked, func(i, j int) bool {
		return picked[i].Name() < picked[j].Name()
	})

	return picked, nil
}

func (w *Walker) walkBranch(ctx context.Context, ref *plumbing.Reference, opts WalkOptions, state *ScanState) error {
	branch := ref.Name().Short()

	iter, err := w.repo.Log(&git.LogOptions{From: ref.Hash()})
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil
		}
		return fmt.Errorf("log %s: %w", branch, err)
	}
	defer iter.Close()

	var prev, curr *object.Commit
	sinceReached := false

	for depth := 0; depth < opts.MaxDepth; depth++ {
		c, err := iter.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("iterate %s: %w", branch, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		curr = c

		if c.Hash.String() == opts.SinceCommit {
			sinceReached = true
		}
		// Everything at or before the since commit is declared clean.
		if opts.SinceCommit != "" && sinceReached {
			prev = c
			continue
		}
		// The newest commit on the branch has nothing newer to diff against;
		// its content is still covered by the genesis diff below.
		if prev == nil {
			prev = c
			continue
		}

		key := pairKey(prev.Hash, c.Hash)
		if state.has(key) {
			prev = c
			continue
		}

		units, err := extractDiff(c, prev)
		if err != nil {
			return err
		}
		state.add(key)
		w.scan(units, commitInfo(prev, branch), state)

		prev = c
	}

	if curr == nil {
		return nil
	}
	if opts.SinceCommit != "" && sinceReached {
		return nil
	}

	// Terminal step: diff the oldest visited commit against the empty tree so
	// the repository's first content is always inspected.
	key := pairKey(plumbing.ZeroHash, curr.Hash)
	if state.has(key) {
		return nil
	}
	units, err := extractDiff(nil, curr)
	if err != nil {
		return err
	}
	state.add(key)
	w.scan(units, commitInfo(curr, branch), state)

	return nil
}

func (w *Walker) scan(units []DiffUnit, info CommitInfo, state *ScanState) {
	for _, unit := range units {
		for _, f := range w.pipeline.Run(unit, info) {
			state.findings = append(state.findings, f)
			if w.observe != nil {
				w.observe(f)
			}
		}
	}
}

func commitInfo(c *object.Commit, branch string) CommitInfo {
	return CommitInfo{
		Hash:    c.Hash.String(),
		Message: strings.TrimSpace(c.Message),
		Branch:  branch,
		When:    c.Committer.When,
	}
}
