// Package mining reads commits, changed functions and file contents from git
// repositories through the git command line.
package mining

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/rohankatakam/funcrisk/internal/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Repo is a git working tree or bare repository on disk.
type Repo struct {
	path        string
	logger      logrus.FieldLogger
	rateLimiter *rate.Limiter

	// resolved revision -> commit hash
	revs sync.Map
}

// Option configures a Repo.
type Option func(*Repo)

// WithRateLimit caps git invocations per second. Zero or less means
// unlimited.
func WithRateLimit(perSecond float64) Option {
	return func(r *Repo) {
		if perSecond > 0 {
			r.rateLimiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithLogger sets the logger for git invocations.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(r *Repo) { r.logger = logger }
}

// Open verifies that path is a git repository.
func Open(ctx context.Context, path string, opts ...Option) (*Repo, error) {
	r := &Repo{path: path, logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(r)
	}
	if _, err := r.git(ctx, "rev-parse", "--git-dir"); err != nil {
		return nil, errors.GitErrorf(err, "not a git repository: %s", path)
	}
	return r, nil
}

// Path returns the repository path.
func (r *Repo) Path() string { return r.path }

// ResolveRevision returns the full commit hash of rev. Successful lookups are
// remembered for the lifetime of the Repo.
func (r *Repo) ResolveRevision(ctx context.Context, rev string) (string, error) {
	if hash, ok := r.revs.Load(rev); ok {
		return hash.(string), nil
	}
	out, err := r.git(ctx, "rev-parse", "--verify", "--quiet", rev+"^{commit}")
	if err != nil {
		return "", errors.GitErrorf(err, "unknown revision %q in %s", rev, r.path)
	}
	hash := strings.TrimSpace(string(out))
	r.revs.Store(rev, hash)
	return hash, nil
}

// git runs one git command in the repository and returns its stdout.
func (r *Repo) git(ctx context.Context, args ...string) ([]byte, error) {
	if r.rateLimiter != nil {
		if err := r.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.path
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"repo": r.path,
			"args": strings.Join(args, " "),
		}).Debug("git command failed")
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("git %s: %w (stderr: %s)", args[0], err, msg)
		}
		return nil, fmt.Errorf("git %s: %w", args[0], err)
	}
	return out, nil
}
