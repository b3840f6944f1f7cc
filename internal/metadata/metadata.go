// Package metadata reads the per-author patch metadata and feature tables
// kept under metadata/ in a patch repository.
//
// Author files are named after the author, with '_' standing for a space,
// and hold one patch per line:
//
//	Change-Id=I1234; subject=fix foo; feature=core; upstream_status=accepted; general=
//
// features_metadata*.csv holds one feature per line:
//
//	name=core; type=bug_fix; upstream_status=accepted;
package metadata

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

// PatchInfo is one row of an author file.
type PatchInfo struct {
	ChangeID       string `json:"change_id" yaml:"change_id"`
	Subject        string `json:"subject" yaml:"subject"`
	Feature        string `json:"feature" yaml:"feature"`
	UpstreamStatus string `json:"upstream_status" yaml:"upstream_status"`
	General        string `json:"general" yaml:"general"`
}

// Feature is one row of the feature table.
type Feature struct {
	Name           string `json:"name" yaml:"name"`
	Type           string `json:"type" yaml:"type"`
	UpstreamStatus string `json:"upstream_status" yaml:"upstream_status"`
}

// Metadata indexes patches by author and Change-Id.
type Metadata struct {
	patches  map[string]map[string]PatchInfo
	features map[string]Feature
}

// Load reads every .csv file in dir. Unreadable files are skipped with a
// warning; a missing directory is an error.
func Load(dir string, logger logrus.FieldLogger) (*Metadata, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read metadata directory: %w", err)
	}

	m := &Metadata{
		patches:  make(map[string]map[string]PatchInfo),
		features: make(map[string]Feature),
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".csv") {
			logger.WithField("file", name).Debug("skipped metadata file")
			continue
		}
		path := filepath.Join(dir, name)

		var n int
		if strings.Contains(name, "features_metadata") {
			n, err = m.loadFeatures(path)
		} else {
			author := strings.ReplaceAll(strings.TrimSuffix(name, ".csv"), "_", " ")
			n, err = m.loadAuthor(path, author)
		}
		if err != nil {
			logger.WithError(err).WithField("file", path).Warn("could not read metadata file")
			continue
		}
		logger.WithFields(logrus.Fields{"file": path, "rows": n}).Debug("metadata file processed")
	}
	return m, nil
}

func (m *Metadata) loadAuthor(path, author string) (int, error) {
	rows := 0
	err := eachLine(path, func(line string) {
		if !strings.Contains(line, "Change-Id") {
			return
		}
		p := ParsePatchLine(line)
		if m.patches[author] == nil {
			m.patches[author] = make(map[string]PatchInfo)
		}
		m.patches[author][p.ChangeID] = p
		rows++
	})
	return rows, err
}

func (m *Metadata) loadFeatures(path string) (int, error) {
	rows := 0
	err := eachLine(path, func(line string) {
		if !strings.Contains(line, "name") {
			return
		}
		f := ParseFeatureLine(line)
		m.features[f.Name] = f
		rows++
	})
	return rows, err
}

func eachLine(path string, fn func(string)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fn(strings.TrimRight(sc.Text(), "\r\n "))
	}
	return sc.Err()
}

var field = regexp.MustCompile(`([A-Za-z_-]+)=\s*([^;]*)`)

// fields splits "k1=v1; k2=v2;" into a map. Values are trimmed.
func fields(line string) map[string]string {
	out := make(map[string]string)
	for _, m := range field.FindAllStringSubmatch(line, -1) {
		out[m[1]] = strings.TrimSpace(m[2])
	}
	return out
}

// ParsePatchLine parses one author file row.
func ParsePatchLine(line string) PatchInfo {
	f := fields(line)
	return PatchInfo{
		ChangeID:       f["Change-Id"],
		Subject:        f["subject"],
		Feature:        f["feature"],
		UpstreamStatus: f["upstream_status"],
		General:        f["general"],
	}
}

// ParseFeatureLine parses one feature table row.
func ParseFeatureLine(line string) Feature {
	f := fields(line)
	return Feature{
		Name:           f["name"],
		Type:           f["type"],
		UpstreamStatus: f["upstream_status"],
	}
}

// Lookup returns the patch metadata of changeID by author. '_' in author is
// read as a space.
func (m *Metadata) Lookup(author, changeID string) (PatchInfo, bool) {
	author = strings.ReplaceAll(author, "_", " ")
	p, ok := m.patches[author][changeID]
	return p, ok
}

// Feature returns the feature table row for name.
func (m *Metadata) Feature(name string) (Feature, bool) {
	f, ok := m.features[name]
	return f, ok
}

// Authors returns the number of author files loaded.
func (m *Metadata) Authors() int { return len(m.patches) }
