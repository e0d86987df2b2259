package load

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// snapshotVersion is bumped whenever the Schema layout changes incompatibly.
const snapshotVersion = 1

type snapshot struct {
	Version int     `msgpack:"v"`
	Schema  *Schema `msgpack:"schema"`
}

// WriteSnapshot encodes s so it can later be generated from without access
// to the service.
func WriteSnapshot(w io.Writer, s *Schema) error {
	if err := msgpack.NewEncoder(w).Encode(&snapshot{Version: snapshotVersion, Schema: s}); err != nil {
		return fmt.Errorf("odatagen: encode snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a schema written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*Schema, error) {
	var snap snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("odatagen: decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("odatagen: unsupported snapshot version %d", snap.Version)
	}
	if snap.Schema == nil {
		return nil, ErrNoSchema
	}
	return snap.Schema, nil
}

// SnapshotSource loads a schema from a snapshot file.
type SnapshotSource struct {
	Path string
}

// Load implements Source.
func (s SnapshotSource) Load(context.Context) (*Schema, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("odatagen: open snapshot: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadSnapshot(f)
}

// Recording wraps src and writes a snapshot of every schema it loads to path.
func Recording(src Source, path string) Source {
	return SourceFunc(func(ctx context.Context) (*Schema, error) {
		s, err := src.Load(ctx)
		if err != nil {
			return nil, err
		}
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("odatagen: create snapshot: %w", err)
		}
		if err := WriteSnapshot(f, s); err != nil {
			_ = f.Close()
			return nil, err
		}
		return s, f.Close()
	})
}
