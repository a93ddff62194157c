// Package gitinfo reads the revision of the repository enclosing the
// site root so builds can be correlated with commits. A site that is
// not under version control is normal and yields an empty Info.
package gitinfo

import (
	git "github.com/go-git/go-git/v5"
)

// Info describes the repository state at build time.
type Info struct {
	Revision string // short commit hash, empty when no repository or no commits
	Dirty    bool   // true when the worktree has uncommitted changes
}

// String renders the info the way it is stored in build history:
// "abc12345", "abc12345-dirty", or "" for sites outside a repository.
func (i Info) String() string {
	if i.Revision == "" {
		return ""
	}
	if i.Dirty {
		return i.Revision + "-dirty"
	}
	return i.Revision
}

// Describe resolves the repository containing root, walking up parent
// directories like the git CLI does. Every failure mode (no repository,
// empty repository, unreadable worktree) degrades to an empty or
// partial Info rather than an error.
func Describe(root string) Info {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Info{}
	}

	ref, err := repo.Head()
	if err != nil {
		return Info{}
	}

	info := Info{Revision: ref.Hash().String()[:8]}

	wt, err := repo.Worktree()
	if err != nil {
		return info
	}
	status, err := wt.Status()
	if err != nil {
		return info
	}
	info.Dirty = !status.IsClean()
	return info
}
