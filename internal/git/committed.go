package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	ferrors "git.home.luguber.info/inful/faqindex/internal/foundation/errors"
)

// Repository is an opened repository located by walking up from a directory.
type Repository struct {
	repo *git.Repository
	root string
}

// Open locates the repository containing dir.
func Open(dir string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryGit, "open repository").WithPath(dir).Build()
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryGit, "repository has no worktree").WithPath(dir).Build()
	}
	return &Repository{repo: repo, root: wt.Filesystem.Root()}, nil
}

// Root returns the worktree root directory.
func (r *Repository) Root() string { return r.root }

// HeadCommit returns the hash of the commit HEAD points to.
func (r *Repository) HeadCommit() (string, error) {
	c, err := r.head()
	if err != nil {
		return "", err
	}
	return c.Hash.String(), nil
}

// ReadCommitted returns the content of absPath as recorded in the HEAD commit.
func (r *Repository) ReadCommitted(absPath string) ([]byte, error) {
	rel, err := filepath.Rel(r.root, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, ferrors.GitError("path is outside the repository").WithPath(absPath).Build()
	}
	c, err := r.head()
	if err != nil {
		return nil, err
	}
	f, err := c.File(filepath.ToSlash(rel))
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, ferrors.GitError("file is not committed at HEAD").WithPath(rel).WithCause(err).Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryGit, "read committed file").WithPath(rel).Build()
	}
	content, err := f.Contents()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryGit, "read committed file").WithPath(rel).Build()
	}
	return []byte(content), nil
}

func (r *Repository) head() (*object.Commit, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryGit, "resolve HEAD").Build()
	}
	c, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryGit, fmt.Sprintf("load commit %s", ref.Hash())).Build()
	}
	return c, nil
}
