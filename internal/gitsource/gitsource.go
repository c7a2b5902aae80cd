// Package gitsource keeps local clones of git repositories that hold flashcard notes.
package gitsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// IsURL reports whether source names a git repository rather than a local directory.
func IsURL(source string) bool {
	if strings.HasPrefix(source, "https://") || strings.HasPrefix(source, "http://") ||
		strings.HasPrefix(source, "ssh://") || strings.HasPrefix(source, "git://") {
		return true
	}
	if _, _, ok := scpLike(source); ok {
		return true
	}
	return strings.HasSuffix(source, ".git") && !isDir(source)
}

// LocalPath maps a repository URL to its clone directory under baseDir:
// https://github.com/user/cards.git and git@github.com:user/cards.git both
// become baseDir/github.com/user/cards.
func LocalPath(baseDir, repoURL string) (string, error) {
	if host, repoPath, ok := scpLike(repoURL); ok {
		return join(baseDir, host, repoPath)
	}

	parsedURL, err := url.Parse(repoURL)
	if err != nil || parsedURL.Host == "" {
		return "", fmt.Errorf("could not parse git URL: %s", repoURL)
	}
	return join(baseDir, parsedURL.Hostname(), parsedURL.Path)
}

// scpLike splits user@host:path into host and path.
func scpLike(s string) (host, repoPath string, ok bool) {
	if strings.Contains(s, "://") {
		return "", "", false
	}
	userHost, repoPath, found := strings.Cut(s, ":")
	if !found || repoPath == "" {
		return "", "", false
	}
	_, host, found = strings.Cut(userHost, "@")
	if !found || host == "" {
		return "", "", false
	}
	return host, repoPath, true
}

func join(baseDir, host, repoPath string) (string, error) {
	repoPath = strings.Trim(strings.TrimSuffix(repoPath, ".git"), "/")
	if repoPath == "" {
		return "", fmt.Errorf("git URL has no repository path: %s", host)
	}
	local := filepath.Join(baseDir, host, filepath.FromSlash(repoPath))
	rel, err := filepath.Rel(baseDir, local)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("git URL escapes the repository directory: %s/%s", host, repoPath)
	}
	return local, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Sync clones a git repository if it doesn't exist at the given path,
// or pulls the latest changes if it does. Clone and pull progress is written to progress, which may be nil.
func Sync(ctx context.Context, repoURL, localPath string, progress io.Writer, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "gitsource", "url", repoURL, "path", localPath)

	_, err := os.Stat(localPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Info("cloning repository")
		_, err := git.PlainCloneContext(ctx, localPath, false, &git.CloneOptions{
			URL:      repoURL,
			Progress: progress,
		})
		if err != nil {
			return fmt.Errorf("failed to clone repo %s: %w", repoURL, err)
		}
		logger.Info("clone successful")

	case err == nil:
		logger.Info("pulling latest changes")
		repo, err := git.PlainOpen(localPath)
		if err != nil {
			return fmt.Errorf("failed to open existing repo at %s: %w", localPath, err)
		}

		worktree, err := repo.Worktree()
		if err != nil {
			return fmt.Errorf("failed to get worktree for repo at %s: %w", localPath, err)
		}

		err = worktree.PullContext(ctx, &git.PullOptions{
			RemoteName: "origin",
			Progress:   progress,
		})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return fmt.Errorf("failed to pull changes for repo at %s: %w", localPath, err)
		}
		logger.Info("pull successful (or already up-to-date)")

	default:
		return fmt.Errorf("error checking path %s: %w", localPath, err)
	}

	return nil
}
