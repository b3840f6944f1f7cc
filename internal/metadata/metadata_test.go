package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePatchLine(t *testing.T) {
	p := ParsePatchLine("Change-Id=I8d3f2a9c; subject=net/mlx5: fix a=b parsing; feature=core; upstream_status=accepted; general=;")

	assert.Equal(t, "I8d3f2a9c", p.ChangeID)
	assert.Equal(t, "net/mlx5: fix a=b parsing", p.Subject)
	assert.Equal(t, "core", p.Feature)
	assert.Equal(t, "accepted", p.UpstreamStatus)
	assert.Equal(t, "", p.General)
}

func TestParseFeatureLine(t *testing.T) {
	f := ParseFeatureLine("name=core; type=bug_fix; upstream_status=in_progress;")
	assert.Equal(t, Feature{Name: "core", Type: "bug_fix", UpstreamStatus: "in_progress"}, f)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	write("Jane_Doe.csv", "# header\nChange-Id=I111; subject=fix foo; feature=core; upstream_status=accepted; general=\n")
	write("features_metadata_db.csv", "name=core; type=bug_fix; upstream_status=accepted;\n")
	write("notes.txt", "ignored")

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	m, err := Load(dir, logger)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Authors())

	p, ok := m.Lookup("Jane Doe", "I111")
	require.True(t, ok)
	assert.Equal(t, "fix foo", p.Subject)

	_, ok = m.Lookup("Jane_Doe", "I111")
	assert.True(t, ok)

	_, ok = m.Lookup("Jane Doe", "I999")
	assert.False(t, ok)

	f, ok := m.Feature("core")
	require.True(t, ok)
	assert.Equal(t, "bug_fix", f.Type)

	assert.NotEmpty(t, hook.AllEntries())
}

func TestLoadMissingDirectory(t *testing.T) {
	logger, _ := test.NewNullLogger()
	_, err := Load(filepath.Join(t.TempDir(), "nope"), logger)
	assert.Error(t, err)
}
