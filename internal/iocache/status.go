package iocache

import (
	"fmt"
	"io"
	"sort"

	"github.com/huangsam/paddock/schema"
)

// PrintCacheStatus writes one status block for a cache namespace.
func PrintCacheStatus(w io.Writer, status schema.CacheStatus) {
	_, _ = fmt.Fprintf(w, "Cache Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Namespace: %s\n", status.Namespace)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		_, _ = fmt.Fprintf(w, "Last Entry: %s\n", status.LastEntryTime.Format("2006-01-02 15:04:05"))
		_, _ = fmt.Fprintf(w, "Oldest Entry: %s\n", status.OldestEntryTime.Format("2006-01-02 15:04:05"))
	}
	_, _ = fmt.Fprintf(w, "Table Size: %d bytes\n", status.TableSizeBytes)
}

// PrintLoadStatus writes load bookkeeping status information.
func PrintLoadStatus(w io.Writer, status schema.LoadStatus) {
	_, _ = fmt.Fprintf(w, "Load Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "Last Run ID: %s\n", status.LastRunID)
	_, _ = fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Format("2006-01-02 15:04:05"))
	_, _ = fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Format("2006-01-02 15:04:05"))

	outcomes := make([]string, 0, len(status.OutcomeCounts))
	for outcome := range status.OutcomeCounts {
		outcomes = append(outcomes, string(outcome))
	}
	sort.Strings(outcomes)
	_, _ = fmt.Fprintln(w, "Outcomes:")
	for _, outcome := range outcomes {
		_, _ = fmt.Fprintf(w, "  %s: %d runs\n", outcome, status.OutcomeCounts[schema.LoadOutcome(outcome)])
	}
}
