package manticore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
)

// Loader fetches program text. References may be local paths,
// http(s) URLs, or git+<repository>//<path>[@<revision>].
type Loader struct {
	Client *http.Client
}

// Load returns the text that ref names. A missing local file keeps
// os.ErrNotExist in the error chain.
func (l *Loader) Load(ctx context.Context, ref string) (string, error) {
	switch {
	case strings.HasPrefix(ref, "git+"):
		return l.loadGit(ctx, strings.TrimPrefix(ref, "git+"))
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return l.loadHTTP(ctx, ref)
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", ref, err)
	}
	return string(data), nil
}

func (l *Loader) loadHTTP(ctx context.Context, url string) (string, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("load %s: %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", url, err)
	}
	return string(data), nil
}

// GitRef is a parsed git+ reference.
type GitRef struct {
	Repo     string
	Path     string
	Revision string
}

// ParseGitRef splits <repository>//<path>[@<revision>].
func ParseGitRef(ref string) (GitRef, error) {
	i := strings.LastIndex(ref, "//")
	if i <= 0 || i+2 >= len(ref) || strings.HasSuffix(ref[:i], ":") {
		return GitRef{}, fmt.Errorf("git reference %q: want <repository>//<path>[@<revision>]", ref)
	}
	g := GitRef{Repo: ref[:i], Path: ref[i+2:], Revision: "HEAD"}
	if at := strings.LastIndex(g.Path, "@"); at >= 0 {
		g.Path, g.Revision = g.Path[:at], g.Path[at+1:]
	}
	if g.Path == "" || g.Revision == "" {
		return GitRef{}, fmt.Errorf("git reference %q: empty path or revision", ref)
	}
	return g, nil
}

// loadGit clones into memory and reads one file at a revision.
func (l *Loader) loadGit(ctx context.Context, ref string) (string, error) {
	g, err := ParseGitRef(ref)
	if err != nil {
		return "", err
	}
	repo, err := git.CloneContext(ctx, memory.NewStorage(), nil, &git.CloneOptions{URL: g.Repo})
	if err != nil {
		return "", fmt.Errorf("git clone %s: %w", g.Repo, err)
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(g.Revision))
	if err != nil {
		return "", fmt.Errorf("resolve revision %s: %w", g.Revision, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return "", fmt.Errorf("git commit %s: %w", hash, err)
	}
	file, err := commit.File(g.Path)
	if err != nil {
		return "", fmt.Errorf("git file %s: %w", g.Path, err)
	}
	return file.Contents()
}
