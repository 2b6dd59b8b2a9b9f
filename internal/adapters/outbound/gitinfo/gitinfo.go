package gitinfo

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Repo implements domain.GitInfo using go-git. The working directory may be
// any path inside the repository.
type Repo struct{}

func New() *Repo {
	return &Repo{}
}

func (g *Repo) open(projectPath string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(projectPath, &git.PlainOpenOptions{DetectDotGit: true})
}

func (g *Repo) IsGitRepo(projectPath string) bool {
	_, err := g.open(projectPath)
	return err == nil
}

// CommitHash returns the HEAD commit. A repository without commits is an error.
func (g *Repo) CommitHash(projectPath string) (string, error) {
	repo, err := g.open(projectPath)
	if err != nil {
		return "", fmt.Errorf("opening git repo: %w", err)
	}

	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", fmt.Errorf("repository has no commits yet")
	}
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}

	return head.Hash().String(), nil
}
