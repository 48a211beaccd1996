package secondary

import "context"

// FileSource defines the secondary port for enumerating a repo's file
// tree as of now. Concrete implementations (local checkout, API crawl)
// live outside the engine.
type FileSource interface {
	// Enumerate lists the files under root. An error here is fatal for
	// the whole run: the engine must not touch the index.
	Enumerate(ctx context.Context, root string) ([]FileStat, error)

	// Read returns the content of one enumerated file. Errors here are
	// per-file: the engine retries, then records a file-level failure.
	Read(ctx context.Context, root, path string) ([]byte, error)
}

// FileStat describes one file in a source snapshot.
type FileStat struct {
	Path      string // relative, slash-separated
	SizeBytes int64
}
