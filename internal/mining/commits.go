package mining

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rohankatakam/funcrisk/internal/errors"
)

// Commit is one commit of a patch series.
type Commit struct {
	Hash        string    `json:"hash" db:"hash"`
	Author      string    `json:"author" db:"author"`
	AuthorEmail string    `json:"author_email" db:"author_email"`
	Time        time.Time `json:"time" db:"committed_at"`
	Subject     string    `json:"subject" db:"subject"`
	Body        string    `json:"-" db:"-"`
	ChangeID    string    `json:"change_id,omitempty" db:"change_id"`
	// Parents is empty for a root commit.
	Parents []string `json:"parents,omitempty" db:"-"`
}

var changeIDPattern = regexp.MustCompile(`(?m)^\s*Change-Id:\s+(\w+)`)

// ParseChangeID returns the Change-Id trailer of a commit message, or "".
func ParseChangeID(message string) string {
	if m := changeIDPattern.FindStringSubmatch(message); m != nil {
		return m[1]
	}
	return ""
}

const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
)

// ListCommits returns the commits of revRange (anything git log accepts),
// oldest first.
func (r *Repo) ListCommits(ctx context.Context, revRange string) ([]Commit, error) {
	format := strings.Join([]string{"%H", "%an", "%ae", "%at", "%P", "%s", "%b"}, fieldSep) + recordSep
	out, err := r.git(ctx, "log", "--reverse", "--no-merges", "--format="+format, revRange)
	if err != nil {
		return nil, errors.GitErrorf(err, "list commits %s", revRange)
	}
	return parseLog(string(out)), nil
}

func parseLog(out string) []Commit {
	var commits []Commit
	for _, rec := range strings.Split(out, recordSep) {
		rec = strings.TrimLeft(rec, "\n")
		if rec == "" {
			continue
		}
		f := strings.SplitN(rec, fieldSep, 7)
		if len(f) < 7 {
			continue
		}
		c := Commit{
			Hash:        f[0],
			Author:      f[1],
			AuthorEmail: f[2],
			Parents:     strings.Fields(f[4]),
			Subject:     f[5],
			Body:        strings.TrimSpace(f[6]),
		}
		if ts, err := strconv.ParseInt(f[3], 10, 64); err == nil {
			c.Time = time.Unix(ts, 0).UTC()
		}
		c.ChangeID = ParseChangeID(c.Body)
		commits = append(commits, c)
	}
	return commits
}
