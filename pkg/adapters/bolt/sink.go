// Package bolt archives transcripts to an embedded BoltDB file.
package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/gridline-labs/gridline/pkg/domain"
	"github.com/gridline-labs/gridline/pkg/ports"
)

var transcriptsBucket = []byte("transcripts")

// Sink implements ports.TranscriptSink and ports.TranscriptReader. Each
// session gets a nested bucket keyed by a monotonic sequence number.
type Sink struct {
	db *bolt.DB
}

var (
	_ ports.TranscriptSink   = (*Sink)(nil)
	_ ports.TranscriptReader = (*Sink)(nil)
)

// Open creates or opens the archive at path.
func Open(path string) (*Sink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt archive: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(transcriptsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Sink{db: db}, nil
}

// Archive appends the transcript under its session.
func (s *Sink) Archive(ctx context.Context, t domain.Transcript) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	enc, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.Bucket(transcriptsBucket).CreateBucketIfNotExists([]byte(t.SessionID))
		if err != nil {
			return err
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(itob(seq), enc)
	})
	if err != nil {
		return &domain.ExternalServiceError{Service: "bolt", Err: err}
	}
	return nil
}

// Transcripts returns a session's archived transcripts, oldest first.
func (s *Sink) Transcripts(ctx context.Context, sessionID string) ([]domain.Transcript, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []domain.Transcript
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(transcriptsBucket).Bucket([]byte(sessionID))
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var t domain.Transcript
			if err := json.Unmarshal(v, &t); err != nil {
				return err
			}
			out = append(out, t)
			return nil
		})
	})
	return out, err
}

// Sessions lists every session with at least one archived transcript.
func (s *Sink) Sessions(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(transcriptsBucket).ForEach(func(k, v []byte) error {
			if v == nil {
				ids = append(ids, string(k))
			}
			return nil
		})
	})
	return ids, err
}

// Close releases the file lock.
func (s *Sink) Close() error {
	return s.db.Close()
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
