package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/mergebase/pkg/ancestry"
)

// Report is the serialized result of an ancestry computation.
type Report struct {
	RunID  string       `json:"run_id,omitempty"`
	DagID  string       `json:"dag"`
	LCA    string       `json:"lca"`
	SPCAs  []string     `json:"spcas"`
	Leaves []string     `json:"leaves"`
	Nodes  []ReportNode `json:"nodes"`
}

// ReportNode describes one significant node, shallowest first.
type ReportNode struct {
	ID         string   `json:"id"`
	Class      string   `json:"class"`
	Generation uint32   `json:"generation"`
	Immediate  []string `json:"immediate,omitempty"`
	Leaves     []string `json:"leaves"`
}

// BuildReport collects the result held by a computed workspace.
func BuildReport(ws *ancestry.Workspace, runID string) (*Report, error) {
	all, err := ws.Ancestors(true)
	if err != nil {
		return nil, err
	}
	r := &Report{
		RunID:  runID,
		DagID:  ws.DagID(),
		SPCAs:  []string{},
		Leaves: []string{},
		Nodes:  make([]ReportNode, 0, len(all)),
	}
	for _, a := range all {
		leaves, err := ws.DescendantLeaves(a.ID)
		if err != nil {
			return nil, err
		}
		switch a.Class {
		case ancestry.ClassLCA:
			r.LCA = a.ID
		case ancestry.ClassSPCA:
			r.SPCAs = append(r.SPCAs, a.ID)
		}
		r.Nodes = append(r.Nodes, ReportNode{
			ID:         a.ID,
			Class:      a.Class.String(),
			Generation: a.Generation,
			Immediate:  a.ImmediateDescendants(),
			Leaves:     leaves,
		})
	}
	// Leaves in registration order, which the LCA's closure lists.
	if r.LCA != "" {
		r.Leaves, _ = ws.DescendantLeaves(r.LCA)
	}
	return r, nil
}

// WriteReport encodes the result of ws as indented JSON.
func WriteReport(w io.Writer, ws *ancestry.Workspace, runID string) error {
	r, err := BuildReport(ws, runID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
