package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// FetchOptions describes a remote definition library.
type FetchOptions struct {
	URL         string `validate:"required"`
	Branch      string
	Destination string `validate:"required"`
	Depth       int    `validate:"omitempty,min=1"`
}

// FetchLibrary clones the repository into Destination, or pulls it when a
// clone of the same remote is already there. It returns the checked out HEAD.
func FetchLibrary(ctx context.Context, opts FetchOptions) (string, error) {
	if err := validatorInstance().Struct(opts); err != nil {
		return "", convertValidationError(err)
	}

	if _, err := os.Stat(filepath.Join(opts.Destination, ".git")); err == nil {
		return pull(ctx, opts)
	}

	cloneOpts := &git.CloneOptions{URL: opts.URL}
	if opts.Depth > 0 {
		cloneOpts.Depth = opts.Depth
	}
	if opts.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(opts.Branch)
		cloneOpts.SingleBranch = true
	}
	repo, err := git.PlainCloneContext(ctx, opts.Destination, false, cloneOpts)
	if err != nil {
		return "", fmt.Errorf("clone %s: %w", opts.URL, err)
	}
	return headOf(repo)
}

func pull(ctx context.Context, opts FetchOptions) (string, error) {
	repo, err := git.PlainOpen(opts.Destination)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", opts.Destination, err)
	}
	remote, err := repo.Remote("origin")
	if err != nil {
		return "", fmt.Errorf("open %s: %w", opts.Destination, err)
	}
	if urls := remote.Config().URLs; len(urls) > 0 && urls[0] != opts.URL {
		return "", fmt.Errorf("%s is a clone of %s, not %s", opts.Destination, urls[0], opts.URL)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", err
	}
	pullOpts := &git.PullOptions{RemoteName: "origin"}
	if opts.Branch != "" {
		pullOpts.ReferenceName = plumbing.NewBranchReferenceName(opts.Branch)
		pullOpts.SingleBranch = true
	}
	if err := wt.PullContext(ctx, pullOpts); err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return "", fmt.Errorf("pull %s: %w", opts.URL, err)
	}
	return headOf(repo)
}

func headOf(repo *git.Repository) (string, error) {
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("read HEAD: %w", err)
	}
	return head.Hash().String(), nil
}
