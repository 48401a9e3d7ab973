package ancestry

import "context"

// FindLCA runs a full computation: it creates a workspace over dagID, adds
// leaves in order and calls [Workspace.Compute]. The workspace is returned
// even when an error occurs, so callers can inspect it with
// [Workspace.Dump].
func FindLCA(ctx context.Context, dagID string, f Fetcher, leaves []string, opts ...Option) (*Workspace, error) {
	w := New(dagID, f, opts...)
	if err := w.AddLeaves(ctx, leaves...); err != nil {
		return w, err
	}
	return w, w.Compute(ctx)
}
