package state

import (
	"strings"

	"github.com/uimorph/uimorph/pkg/ir"
)

// AttachBindings places detected bindings onto the IR tree: the first on the
// root element, later ones on the outermost element whose props reference
// their setter, falling back to the first element without a binding. Each
// element carries at most one binding; bindings stay independent.
func AttachBindings(root *ir.Node, bindings []*ir.StateBinding) []ir.Warning {
	if len(bindings) == 0 {
		return nil
	}

	if root.Kind != ir.KindElement {
		return []ir.Warning{{
			Kind:    ir.WarnUnsupportedSyntax,
			Path:    "root",
			Message: "state declarations found but root is not an element; bindings dropped",
		}}
	}

	root.State = bindings[0]

	var warnings []ir.Warning

	for _, binding := range bindings[1:] {
		host := findBindingHost(root, binding)
		if host == nil {
			host = firstFreeElement(root)
		}

		if host == nil {
			warnings = append(warnings, ir.Warning{
				Kind:    ir.WarnUnsupportedSyntax,
				Path:    "root",
				Message: "no element left to carry state binding " + binding.Name,
			})

			continue
		}

		host.State = binding
	}

	return warnings
}

// CollectBindings gathers bindings from the tree in depth-first order, which
// matches declaration order as produced by AttachBindings.
func CollectBindings(root *ir.Node) []*ir.StateBinding {
	var bindings []*ir.StateBinding

	ir.Walk(root, func(n *ir.Node, _ string) bool {
		if n.Kind == ir.KindElement && n.State != nil {
			bindings = append(bindings, n.State)
		}

		return true
	})

	return bindings
}

func findBindingHost(root *ir.Node, binding *ir.StateBinding) *ir.Node {
	if binding.Setter == "" {
		return nil
	}

	var host *ir.Node

	ir.Walk(root, func(n *ir.Node, _ string) bool {
		if host != nil {
			return false
		}

		if n.Kind != ir.KindElement || n.State != nil {
			return true
		}

		for _, value := range n.Props {
			if value.Kind == ir.PropExpression && strings.Contains(value.SourceText, binding.Setter) {
				host = n
				return false
			}
		}

		return true
	})

	return host
}

func firstFreeElement(root *ir.Node) *ir.Node {
	var found *ir.Node

	ir.Walk(root, func(n *ir.Node, _ string) bool {
		if found == nil && n.Kind == ir.KindElement && n.State == nil {
			found = n
		}

		return found == nil
	})

	return found
}
