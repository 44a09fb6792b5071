// Package production hosts the ambient, host-facing integrations the pure
// engine itself never touches: diagnostic logging, YAML configuration
// loading, and Graphviz/JSON visualization of a built tree.
package production

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/latticefsm/statecore/internal/core"
	"github.com/latticefsm/statecore/internal/primitives"
	"github.com/latticefsm/statecore/internal/tree"
)

// ExportDOT renders t as Graphviz DOT source, shading nodes active in cfg.
func ExportDOT(t *tree.Tree, cfg core.Configuration) string {
	var buf bytes.Buffer
	buf.WriteString("digraph Statechart {\n  rankdir=LR;\n  node [shape=box, fontsize=10, style=rounded];\n  edge [fontsize=9];\n\n")
	renderNode(&buf, t.Root, cfg)
	renderTransitions(&buf, t.Root)
	buf.WriteString("}\n")
	return buf.String()
}

func renderNode(buf *bytes.Buffer, n *tree.Node, cfg core.Configuration) {
	if len(n.Children) == 0 {
		style := ""
		if cfg != nil && cfg.Active(n) {
			style = fmt.Sprintf(" style=filled fillcolor=%s", leafColor(n))
		}
		fmt.Fprintf(buf, "  %q [label=%q%s];\n", n.ID, n.Key, style)
		return
	}

	fmt.Fprintf(buf, "  subgraph cluster_%s {\n", dotSafe(n.ID))
	label := fmt.Sprintf("%s (%s)", n.Key, n.Kind)
	clusterStyle := ""
	if n.Kind == primitives.Parallel {
		clusterStyle = " style=filled fillcolor=lightblue"
	} else if cfg != nil && cfg.Active(n) {
		clusterStyle = " style=filled fillcolor=khaki"
	}
	fmt.Fprintf(buf, "    label=%q%s;\n", label, clusterStyle)
	for _, child := range n.ChildInDocOrder() {
		renderNode(buf, child, cfg)
	}
	buf.WriteString("  }\n")
}

func leafColor(n *tree.Node) string {
	if n.Kind == primitives.Final {
		return "lightgray"
	}
	return "lightgreen"
}

func renderTransitions(buf *bytes.Buffer, n *tree.Node) {
	for _, t := range n.Transitions {
		for _, target := range t.Targets {
			label := t.Event
			if label == primitives.NullEvent {
				label = "ε"
			}
			fmt.Fprintf(buf, "  %q -> %q [label=%q];\n", t.Source.ID, target.ID, label)
		}
	}
	for _, child := range n.ChildInDocOrder() {
		renderTransitions(buf, child)
	}
}

func dotSafe(id string) string {
	out := make([]byte, 0, len(id))
	for i := 0; i < len(id); i++ {
		c := id[i]
		if c == '.' || c == '#' || c == ' ' {
			out = append(out, '_')
			continue
		}
		out = append(out, c)
	}
	return string(out)
}

// ExportJSON serializes the originating declarative configuration, so a
// built tree's source of truth can be inspected or round-tripped.
func ExportJSON(cfg *primitives.MachineConfig) ([]byte, error) {
	return json.MarshalIndent(cfg, "", "  ")
}

// ExportStateValueJSON serializes the current active configuration as its
// StateValue projection.
func ExportStateValueJSON(value *primitives.StateValue) ([]byte, error) {
	return json.MarshalIndent(valueToJSON(value), "", "  ")
}

func valueToJSON(v *primitives.StateValue) any {
	if v == nil {
		return nil
	}
	if v.IsLeaf() {
		return v.Leaf
	}
	out := make(map[string]any, len(v.Children))
	for k, child := range v.Children {
		out[k] = valueToJSON(child)
	}
	return out
}
