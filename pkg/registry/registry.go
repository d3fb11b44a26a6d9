// Package registry implements the widget/prop mapping table translating
// vocabulary between the component-model and widget-tree ecosystems. The
// table is declarative data: it loads once from embedded YAML (plus optional
// user tables), validates against a JSON schema, and is immutable after
// init, so any number of conversions may read one snapshot concurrently.
// Reload means building a new snapshot, never mutating this one.
package registry

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/uimorph/uimorph/pkg/ir"
)

//go:embed mappings/core.yaml
var coreTableFS embed.FS

//go:embed mapping-schema.json
var tableSchema string

// Sentinel errors for table loading.
var (
	ErrInvalidTable   = errors.New("invalid mapping table")
	ErrDuplicateEntry = errors.New("duplicate mapping entry")
)

// Direction selects which way a lookup or transform runs.
type Direction int

// Directions. Forward is componentModel → widgetTree.
const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}

	return "forward"
}

// TransformKind names a prop value transform. The zero value is a plain
// rename with the value passed through untouched.
type TransformKind string

// Transform kinds.
const (
	TransformNone    TransformKind = ""
	TransformColor   TransformKind = "color"
	TransformSpacing TransformKind = "spacing"
	TransformEnum    TransformKind = "enum"
)

// PropTransform maps one source prop onto its target name and value
// encoding.
type PropTransform struct {
	Target    string            `yaml:"target"`
	Transform TransformKind     `yaml:"transform,omitempty"`
	Enum      map[string]string `yaml:"enum,omitempty"`
}

// Entry is one bidirectional widget mapping.
type Entry struct {
	SourceWidget   string                   `yaml:"source"`
	TargetWidget   string                   `yaml:"target"`
	PropTransforms map[string]PropTransform `yaml:"props,omitempty"`
	// Imports lists the module each ecosystem needs for this widget.
	Imports map[ir.Framework][]string `yaml:"imports,omitempty"`

	// backwardProps indexes PropTransforms by target prop name.
	backwardProps map[string]string
}

// tableFile is the on-disk shape of one mapping table.
type tableFile struct {
	Version  int      `yaml:"version"`
	Mappings []*Entry `yaml:"mappings"`
}

// Registry is an immutable mapping snapshot.
type Registry struct {
	forward  map[string]*Entry
	backward map[string]*Entry
	ordered  []*Entry
}

// Load builds a registry from the embedded core table merged with any extra
// table files. Later tables override earlier entries with the same source
// widget. Every table is schema-validated before merging.
func Load(extraPaths ...string) (*Registry, error) {
	core, err := coreTableFS.ReadFile("mappings/core.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded core table: %w", err)
	}

	docs := [][]byte{core}

	for _, path := range extraPaths {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("read mapping table %s: %w", path, readErr)
		}

		docs = append(docs, data)
	}

	return LoadBytes(docs...)
}

// LoadBytes builds a registry from raw YAML tables, first to last, later
// tables overriding earlier ones.
func LoadBytes(docs ...[]byte) (*Registry, error) {
	reg := &Registry{
		forward:  map[string]*Entry{},
		backward: map[string]*Entry{},
	}

	for _, doc := range docs {
		err := validateTable(doc)
		if err != nil {
			return nil, err
		}

		var table tableFile

		err = yaml.Unmarshal(doc, &table)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
		}

		for _, entry := range table.Mappings {
			err = reg.add(entry)
			if err != nil {
				return nil, err
			}
		}
	}

	reg.ordered = make([]*Entry, 0, len(reg.forward))
	for _, entry := range reg.forward {
		reg.ordered = append(reg.ordered, entry)
	}

	sort.Slice(reg.ordered, func(i, j int) bool {
		return reg.ordered[i].SourceWidget < reg.ordered[j].SourceWidget
	})

	return reg, nil
}

func (r *Registry) add(entry *Entry) error {
	if entry.SourceWidget == "" || entry.TargetWidget == "" {
		return fmt.Errorf("%w: entry missing source or target widget", ErrInvalidTable)
	}

	// An override replaces the previous pair entirely.
	if prev, ok := r.forward[entry.SourceWidget]; ok {
		delete(r.backward, prev.TargetWidget)
	}

	if _, ok := r.backward[entry.TargetWidget]; ok {
		return fmt.Errorf("%w: target widget %s mapped twice", ErrDuplicateEntry, entry.TargetWidget)
	}

	entry.backwardProps = make(map[string]string, len(entry.PropTransforms))
	for src, pt := range entry.PropTransforms {
		target := pt.Target
		if target == "" {
			target = src
		}

		entry.backwardProps[target] = src
	}

	r.forward[entry.SourceWidget] = entry
	r.backward[entry.TargetWidget] = entry

	return nil
}

// validateTable checks a YAML table against the embedded JSON schema.
func validateTable(doc []byte) error {
	var generic map[string]any

	err := yaml.Unmarshal(doc, &generic)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}

	schemaLoader := gojsonschema.NewStringLoader(tableSchema)
	docLoader := gojsonschema.NewGoLoader(generic)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("validate mapping table: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}

		return fmt.Errorf("%w: %s", ErrInvalidTable, strings.Join(msgs, "; "))
	}

	return nil
}

// ResolveForward looks an entry up by component-model widget name.
func (r *Registry) ResolveForward(name string) (*Entry, bool) {
	entry, ok := r.forward[name]
	return entry, ok
}

// ResolveBackward looks an entry up by widget-tree widget name.
func (r *Registry) ResolveBackward(name string) (*Entry, bool) {
	entry, ok := r.backward[name]
	return entry, ok
}

// KnownWidget reports whether name is registered source-side vocabulary.
// Satisfies ir.WidgetResolver.
func (r *Registry) KnownWidget(name string) bool {
	_, ok := r.forward[name]
	return ok
}

// Entries returns all entries sorted by source widget name.
func (r *Registry) Entries() []*Entry {
	return r.ordered
}

// Len returns the number of widget pairs.
func (r *Registry) Len() int { return len(r.ordered) }

// ImportsFor returns the modules the given framework needs for this entry.
func (e *Entry) ImportsFor(fw ir.Framework) []string {
	return e.Imports[fw]
}
