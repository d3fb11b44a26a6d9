// Package detect resolves which framework a source file belongs to when the
// caller passes "auto". File-name detection runs through enry's linguist
// data; when the name is ambiguous or missing, a content heuristic decides.
package detect

import (
	"errors"
	"path"
	"strings"

	"github.com/src-d/enry/v2"

	"github.com/uimorph/uimorph/pkg/ir"
)

// ErrUndetected means neither the file name nor the content carried a usable
// framework signal.
var ErrUndetected = errors.New("cannot detect source framework")

// Framework resolves the framework for a named source. Detection order:
// linguist language by file name and content, then a content heuristic.
func Framework(name string, content []byte) (ir.Framework, error) {
	switch enry.GetLanguage(path.Base(name), content) {
	case "Dart":
		return ir.FrameworkWidgetTree, nil

	case "JavaScript", "JSX", "TypeScript", "TSX":
		return ir.FrameworkComponentModel, nil
	}

	if fw, ok := fromContent(string(content)); ok {
		return fw, nil
	}

	return "", ErrUndetected
}

// fromContent scans for constructs that exist in only one of the two
// syntaxes.
func fromContent(src string) (ir.Framework, bool) {
	widgetSignals := []string{
		"extends StatelessWidget",
		"extends StatefulWidget",
		"Widget build(BuildContext",
		"import 'package:flutter",
		"GoRoute(",
	}

	for _, sig := range widgetSignals {
		if strings.Contains(src, sig) {
			return ir.FrameworkWidgetTree, true
		}
	}

	componentSignals := []string{
		"export default function",
		"useState(",
		"useReducer(",
		"export const routes",
	}

	for _, sig := range componentSignals {
		if strings.Contains(src, sig) {
			return ir.FrameworkComponentModel, true
		}
	}

	// A lone JSX return is still a component.
	if strings.Contains(src, "return (") && strings.Contains(src, "<") {
		return ir.FrameworkComponentModel, true
	}

	return "", false
}
