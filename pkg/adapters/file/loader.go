// Package file provides filesystem-backed adapters: the YAML/JSON flow loader
// and a JSON-file session store.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/gridline-labs/gridline/pkg/domain"
	"github.com/gridline-labs/gridline/pkg/graph"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.GraphLoader over a directory of flow documents
// (*.yaml, *.yml, *.json). Documents with language "si" have their keys
// suffixed so they resolve as Sinhala variants.
type Loader struct {
	fsys fs.FS
}

// NewLoader reads flow documents from the root of fsys.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// NewDirLoader reads flow documents from a directory on disk.
func NewDirLoader(dir string) *Loader {
	return NewLoader(os.DirFS(dir))
}

// Load decodes every flow document into nodes.
func (l *Loader) Load(ctx context.Context) ([]domain.Node, error) {
	entries, err := fs.ReadDir(l.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to list flows: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(path.Ext(e.Name())) {
		case ".yaml", ".yml", ".json":
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, &domain.GraphLoadError{Problems: []string{"no flow documents found"}}
	}
	sort.Strings(names)

	var nodes []domain.Node
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		flow, err := l.decode(name)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, flow.toNodes()...)
	}
	return nodes, nil
}

func (l *Loader) decode(name string) (*FlowFile, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	var raw map[string]any
	if strings.ToLower(path.Ext(name)) == ".json" {
		err = json.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, &domain.GraphLoadError{Problems: []string{fmt.Sprintf("%s: %v", name, err)}}
	}

	var flow FlowFile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &flow,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, &domain.GraphLoadError{Problems: []string{fmt.Sprintf("%s: %v", name, err)}}
	}
	return &flow, nil
}

func (f *FlowFile) toNodes() []domain.Node {
	keys := make([]string, 0, len(f.Nodes))
	for k := range f.Nodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sinhala := strings.EqualFold(f.Language, "si")
	nodes := make([]domain.Node, 0, len(keys))
	for _, k := range keys {
		meta := f.Nodes[k]
		key := k
		if sinhala && !strings.HasSuffix(key, graph.SinhalaSuffix) {
			key += graph.SinhalaSuffix
		}
		nodes = append(nodes, domain.Node{
			Key:         key,
			Kind:        domain.Kind(meta.Type),
			Message:     meta.Message,
			Options:     meta.Options,
			Transitions: meta.Next,
			Fields:      meta.Fields,
		})
	}
	return nodes
}
