package mining

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"strings"

	"github.com/rohankatakam/funcrisk/internal/errors"
	"github.com/rohankatakam/funcrisk/internal/extract"
)

// BlobID returns the object id of path at rev. Only a path that is absent
// from a valid rev yields an error wrapping fs.ErrNotExist; an unknown rev or
// a failing git is a GitError.
func (r *Repo) BlobID(ctx context.Context, rev, path string) (string, error) {
	commit, err := r.ResolveRevision(ctx, rev)
	if err != nil {
		return "", err
	}
	out, err := r.git(ctx, "ls-tree", "-z", commit, "--", path)
	if err != nil {
		return "", errors.GitErrorf(err, "list %s at %s", path, rev)
	}

	// <mode> SP <type> SP <object> TAB <path> NUL
	record, _, _ := strings.Cut(string(out), "\x00")
	meta, name, _ := strings.Cut(record, "\t")
	fields := strings.Fields(meta)
	if len(fields) != 3 || fields[1] != "blob" || name != path {
		return "", fmt.Errorf("%s:%s: %w", rev, path, fs.ErrNotExist)
	}
	return fields[2], nil
}

// ReadBlob returns the contents of the object id.
func (r *Repo) ReadBlob(ctx context.Context, id string) ([]byte, error) {
	out, err := r.git(ctx, "cat-file", "blob", id)
	if err != nil {
		return nil, errors.GitErrorf(err, "read blob %s", id)
	}
	return out, nil
}

// ExtractionCache stores extraction results by blob id and function name.
type ExtractionCache interface {
	Get(blobID, name string) (extract.ExtractedFunction, bool)
	Put(blobID, name string, fn extract.ExtractedFunction) error
}

// BlobSource yields a function from a file at a revision. It satisfies
// analyzer.Source.
type BlobSource struct {
	Repo  *Repo
	Rev   string
	Path  string
	Cache ExtractionCache // optional
}

// Extract implements analyzer.Source.
func (b BlobSource) Extract(ctx context.Context, name string) (extract.ExtractedFunction, error) {
	id, err := b.Repo.BlobID(ctx, b.Rev, b.Path)
	if err != nil {
		return extract.ExtractedFunction{Name: name, SignatureEnd: -1}, err
	}

	if b.Cache != nil {
		if fn, ok := b.Cache.Get(id, name); ok {
			return fn, nil
		}
	}

	data, err := b.Repo.ReadBlob(ctx, id)
	if err != nil {
		return extract.ExtractedFunction{Name: name, SignatureEnd: -1}, err
	}
	fn, err := extract.Reader(bytes.NewReader(data), name)
	if err != nil {
		return fn, err
	}

	if b.Cache != nil {
		if err := b.Cache.Put(id, name, fn); err != nil {
			b.Repo.logger.WithError(err).WithField("blob", id).Warn("failed to cache extraction")
		}
	}
	return fn, nil
}

func (b BlobSource) String() string {
	return b.Rev + ":" + b.Path
}
