package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapKeepsCause(t *testing.T) {
	err := FileSystemErrorf(fs.ErrNotExist, "open %s", "a.c")

	assert.Equal(t, "open a.c: file does not exist", err.Error())
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, ErrorTypeFileSystem, err.Type)
	assert.False(t, err.IsFatal())
}

func TestTypeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("scan: %w", GitErrorf(stderrors.New("exit status 128"), "git log"))

	var typed *Error
	require.True(t, stderrors.As(err, &typed))
	assert.Equal(t, ErrorTypeGit, typed.Type)
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeDatabase, SeverityCritical, "x"))
}

func TestFatal(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		fatal bool
	}{
		{"config", ConfigErrorf("bad storage type %q", "mongo"), true},
		{"database", DatabaseErrorf(stderrors.New("locked"), "save run"), true},
		{"wrapped database", fmt.Errorf("persist: %w", DatabaseErrorf(stderrors.New("locked"), "save run")), true},
		{"validation", ValidationErrorf("--from and --to must be given together"), false},
		{"git", GitErrorf(stderrors.New("exit status 128"), "rev-parse"), false},
		{"plain", stderrors.New("plain"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.fatal, IsFatal(tt.err))
		})
	}
}

func TestDescribe(t *testing.T) {
	err := DatabaseErrorf(stderrors.New("locked"), "insert run").
		WithContext("run", "r1").
		WithContext("commit", "abc")

	s := Describe(fmt.Errorf("scan: %w", err))
	assert.Contains(t, s, "[CRITICAL] [DATABASE] insert run")
	assert.Contains(t, s, "Caused by: locked")
	assert.Contains(t, s, "  commit: abc\n  run: r1\n")

	assert.Equal(t, "plain", Describe(stderrors.New("plain")))
}
