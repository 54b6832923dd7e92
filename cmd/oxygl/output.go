package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeResult prints a workload summary in the requested format.
func writeResult(w io.Writer, format string, r *Result) error {
	if format == "json" {
		return writeJSON(w, r)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "backend\t%s\n", r.Backend)
	fmt.Fprintf(tw, "producers\t%d\n", r.Producers)
	fmt.Fprintf(tw, "lookups\t%d\n", r.Lookups)
	fmt.Fprintf(tw, "evictions\t%d\n", r.Evictions)
	fmt.Fprintf(tw, "hits\t%d\n", r.Cache.Hits)
	fmt.Fprintf(tw, "misses\t%d\n", r.Cache.Misses)
	fmt.Fprintf(tw, "constructions\t%d\n", r.Cache.Constructions)
	fmt.Fprintf(tw, "destructions\t%d\n", r.Cache.Destructions)
	fmt.Fprintf(tw, "executed tasks\t%d\n", r.Executed)
	if r.LiveVertexArrays != nil {
		fmt.Fprintf(tw, "live vertex arrays\t%d\n", *r.LiveVertexArrays)
	}
	fmt.Fprintf(tw, "duration\t%s\n", r.Duration)
	return tw.Flush()
}
