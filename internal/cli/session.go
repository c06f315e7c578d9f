package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/gridline-labs/gridline/pkg/domain"
	"github.com/gridline-labs/gridline/pkg/ports"
	"github.com/gridline-labs/gridline/pkg/session"
)

// ListSessions prints the stored sessions with their state and last activity.
func ListSessions(ctx context.Context, sessions *session.Manager, w io.Writer) error {
	ids, err := sessions.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(ids) == 0 {
		printSystemMessage(w, "No active sessions found.")
		return nil
	}
	sort.Strings(ids)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tSTATE\tLANGUAGE\tUPDATED")
	for _, id := range ids {
		s, err := sessions.Load(ctx, id)
		if err != nil {
			fmt.Fprintf(tw, "%s\t?\t?\t%v\n", id, err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", id, s.State, s.Language, s.UpdatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

// InspectSession prints a session as indented JSON.
func InspectSession(ctx context.Context, sessions *session.Manager, id string, w io.Writer) error {
	s, err := sessions.Load(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("session '%s' not found", id)
		}
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// DeleteSession removes a session without archiving it. It waits for any
// turn in flight on that session to finish.
func DeleteSession(ctx context.Context, sessions *session.Manager, id string, w io.Writer) error {
	if err := sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	printSystemMessage(w, "Session '%s' deleted.", id)
	return nil
}

// ShowTranscripts prints archived transcripts when the sink can read them back.
func ShowTranscripts(ctx context.Context, sink ports.TranscriptSink, id string, w io.Writer) error {
	reader, ok := sink.(ports.TranscriptReader)
	if !ok {
		return fmt.Errorf("archive backend cannot read transcripts")
	}
	ts, err := reader.Transcripts(ctx, id)
	if err != nil {
		return err
	}
	if len(ts) == 0 {
		printSystemMessage(w, "No transcripts for '%s'.", id)
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ts)
}
