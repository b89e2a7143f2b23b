package builder

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/qobs-build/qtvendor/internal/errors"
)

var sourceShortcuts = map[string]string{
	"gh:": "https://github.com/",
	"gl:": "https://gitlab.com/",
	"bb:": "https://bitbucket.org/",
	"sr:": "https://sr.ht/",
	"cb:": "https://codeberg.org/",
}

const gitPrefix = "git:"

var (
	errIllegalSource = errors.New("empty or illegal source string")
	errArchiveSource = errors.New("archive sources are not supported")
)

// FetchSource clones the Qt checkout described by src into toWhere.
//
//	git:https://code.qt.io/qt/qtbase.git@6.2#v6.2.0
//	gh:qt/qtbase@dev
func FetchSource(src string, toWhere string) (string, error) {
	if src == "" {
		return "", errIllegalSource
	}

	if strings.HasPrefix(src, gitPrefix) {
		return cloneGitRepo(src[len(gitPrefix):], toWhere)
	}

	for shortcut, base := range sourceShortcuts {
		if strings.HasPrefix(src, shortcut) {
			return cloneGitRepo(base+src[len(shortcut):], toWhere)
		}
	}

	if isURL(src) {
		if strings.Contains(src, ".git") {
			return cloneGitRepo(src, toWhere)
		}
		return "", errors.WithHint(errors.Wrap(errArchiveSource, src), "extract the archive and point [package] root at it")
	}

	// a local path is never fetched
	return "", errors.WithHintf(errors.Wrapf(errIllegalSource, "%q", src), "set [package] root to %s instead", src)
}

func isURL(maybeURL string) bool {
	u, err := url.Parse(maybeURL)
	return err == nil && u.Scheme != "" && u.Host != ""
}

type gitURL struct {
	cleanURL    string
	branch      string
	commitOrTag string
}

// qt/qtbase@dev#v6.2.0
// qt/qtbase@6.2#12345abc
// qt/qtbase#12345abc
func parseGitURL(rawURL string) (res gitURL) {
	parts := strings.SplitN(rawURL, "#", 2)
	baseURL := parts[0]
	if len(parts) == 2 {
		res.commitOrTag = parts[1]
	}

	// the last @ so that user@host URLs keep their user
	if i := strings.LastIndex(baseURL, "@"); i > strings.LastIndex(baseURL, "/") {
		res.cleanURL = baseURL[:i]
		res.branch = baseURL[i+1:]
	} else {
		res.cleanURL = baseURL
	}

	if !strings.HasSuffix(res.cleanURL, ".git") {
		res.cleanURL += ".git"
	}

	return
}

// cloneGitRepo clones a Git remote into the specified directory
func cloneGitRepo(url, toWhere string) (string, error) {
	parsedURL := parseGitURL(url)

	cloneOptions := &git.CloneOptions{
		URL:      parsedURL.cleanURL,
		Progress: os.Stdout,
	}

	if parsedURL.commitOrTag == "" {
		cloneOptions.Depth = 1 // shallow clone of the latest commit
	}

	if parsedURL.branch != "" {
		cloneOptions.ReferenceName = plumbing.NewBranchReferenceName(parsedURL.branch)
		cloneOptions.SingleBranch = true
	}

	repo, err := git.PlainClone(toWhere, cloneOptions)
	if err != nil {
		return toWhere, errors.Wrapf(err, "clone %s", parsedURL.cleanURL)
	}

	if parsedURL.commitOrTag != "" {
		w, err := repo.Worktree()
		if err != nil {
			return toWhere, fmt.Errorf("could not get worktree: %w", err)
		}

		revision := parsedURL.commitOrTag
		hash, err := repo.ResolveRevision(plumbing.Revision(revision))
		if err != nil {
			return toWhere, fmt.Errorf("could not resolve revision `%s`: %w", revision, err)
		}

		err = w.Checkout(&git.CheckoutOptions{
			Hash:  *hash,
			Force: true,
		})
		if err != nil {
			return toWhere, fmt.Errorf("failed to checkout `%s`: %w", revision, err)
		}
	}

	return toWhere, nil
}
