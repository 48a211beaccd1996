package syncrun

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"sort"
)

// Change classifies one path between two index passes.
type Change string

const (
	ChangeAdded     Change = "added"
	ChangeModified  Change = "modified"
	ChangeUnchanged Change = "unchanged"
	ChangeRemoved   Change = "removed"
)

// PriorFile is one row of the previously recorded index.
type PriorFile struct {
	Path    string
	SHA256  string
	Removed bool // tombstoned in a previous pass
}

// SnapshotFile is one hashed file from the new source snapshot.
type SnapshotFile struct {
	Path          string
	SizeBytes     int64
	SHA256        string
	LastCommitSHA string
}

// Diff is the classified difference between the prior index and a new
// snapshot. Each path appears in exactly one bucket.
type Diff struct {
	Added     []SnapshotFile
	Modified  []SnapshotFile
	Unchanged []SnapshotFile
	Removed   []string
}

// Classify compares a new snapshot against the prior index.
// A path with no live prior row is added (tombstoned rows count as
// absent, so a re-added file classifies as added). A live row with a
// different hash is modified; the same hash is unchanged. Live prior
// paths absent from the snapshot are removed. Removed paths are
// returned sorted for deterministic payloads.
func Classify(prior []PriorFile, snapshot []SnapshotFile) Diff {
	live := make(map[string]string, len(prior))
	for _, p := range prior {
		if p.Removed {
			continue
		}
		live[p.Path] = p.SHA256
	}

	var d Diff
	seen := make(map[string]bool, len(snapshot))
	for _, f := range snapshot {
		seen[f.Path] = true
		priorSHA, ok := live[f.Path]
		switch {
		case !ok:
			d.Added = append(d.Added, f)
		case priorSHA != f.SHA256:
			d.Modified = append(d.Modified, f)
		default:
			d.Unchanged = append(d.Unchanged, f)
		}
	}

	for p := range live {
		if !seen[p] {
			d.Removed = append(d.Removed, p)
		}
	}
	sort.Strings(d.Removed)

	return d
}

// Fingerprint returns the hex sha256 content fingerprint used for
// change detection.
func Fingerprint(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// PathParts derives the stored dir/filename/extension fields from a
// slash-separated relative path. Files at the repo root get an empty
// dir; the extension carries no leading dot.
func PathParts(p string) (dir, filename, extension string) {
	dir = path.Dir(p)
	if dir == "." {
		dir = ""
	}
	filename = path.Base(p)
	if ext := path.Ext(filename); ext != "" {
		extension = ext[1:]
	}
	return dir, filename, extension
}
