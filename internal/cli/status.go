package cli

import (
	"fmt"

	"github.com/morozRed/crumbtrail/internal/fileutil"
	"github.com/morozRed/crumbtrail/internal/state"
	"github.com/spf13/cobra"
)

func RunStatus(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.close()

	format, err := ParseOutputFormat(cmd, s.cfg)
	if err != nil {
		return err
	}

	st, err := state.Load(s.root)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	hashes, err := fileutil.ScanFileHashes(s.root, s.filter)
	if err != nil {
		return fmt.Errorf("failed to hash source files: %w", err)
	}

	summary := NewStatusSummary(s.root, st, hashes)
	w := cmd.OutOrStdout()
	if format != FormatText {
		return printStructured(w, format, summary)
	}

	if !summary.HasSnapshot {
		fmt.Fprintln(w, "no snapshot found; run `crumbtrail scan --save` first")
		return nil
	}
	fmt.Fprintf(w, "snapshot: files=%d breadcrumbs=%d updated=%s\n",
		summary.Tracked, summary.Breadcrumbs, st.UpdatedAt.Format("2006-01-02 15:04:05"))
	if summary.Clean {
		fmt.Fprintln(w, okText("clean"))
		return nil
	}
	fmt.Fprintf(w, "changed (%d): %s\n", summary.Changed, warningText(SummarizePaths(summary.ChangedFiles, 8)))
	fmt.Fprintf(w, "deleted (%d): %s\n", summary.Deleted, warningText(SummarizePaths(summary.DeletedFiles, 8)))
	return nil
}

// NewStatusSummary compares current hashes to the saved snapshot. Files
// recorded as skipped count as changed once they become readable.
func NewStatusSummary(root string, st *state.State, hashes map[string]string) StatusSummary {
	changed := st.ChangedFiles(hashes)
	deleted := st.DeletedFiles(hashes)
	return StatusSummary{
		Mode:         "status",
		RootPath:     root,
		HasSnapshot:  len(st.Files) > 0,
		Clean:        len(changed) == 0 && len(deleted) == 0,
		Tracked:      len(st.Files),
		Breadcrumbs:  st.TotalBreadcrumbs(),
		Changed:      len(changed),
		Deleted:      len(deleted),
		ChangedFiles: changed,
		DeletedFiles: deleted,
	}
}
