package ancestry

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// trace logs the traversal state of rec at debug level.
func (w *Workspace) trace(event string, rec *record) {
	if w.logger == nil {
		return
	}
	w.logger.Debug(event,
		"id", rec.id,
		"gen", rec.generation,
		"class", rec.class,
		"index", rec.item,
		"closure", rec.closure.String(),
		"immediate", rec.immediate.String(),
	)
}

// Dump writes every cached record as an aligned table, in fetch order.
// It is meant for debugging and works in any workspace state.
func (w *Workspace) Dump(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "dag %q: %d leaves, %d significant, frozen=%v\n", w.dagID, w.leafCount, len(w.items), w.frozen)
	fmt.Fprintln(tw, "ID\tGEN\tCLASS\tINDEX\tCLOSURE\tIMMEDIATE")
	for i := 0; i < w.store.len(); i++ {
		rec := w.store.at(ref(i))
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%s\t%s\n",
			rec.id, rec.generation, rec.class, rec.item, rec.closure, rec.immediate)
	}
	return tw.Flush()
}
