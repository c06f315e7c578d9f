package file_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/gridline-labs/gridline/flows"
	"github.com/gridline-labs/gridline/pkg/adapters/file"
	"github.com/gridline-labs/gridline/pkg/domain"
	"github.com/gridline-labs/gridline/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_YAMLAndJSON(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte(`
category: main
language: en
nodes:
  start:
    type: menu
    message: "Pick one"
    options: ["Go"]
    next:
      "Go": bye
`)},
		"b.json": {Data: []byte(`{"category":"main","language":"en","nodes":{"bye":{"type":"end","message":"Bye"}}}`)},
		"README.md": {Data: []byte("ignored")},
	}

	nodes, err := file.NewLoader(fsys).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	assert.Equal(t, "start", nodes[0].Key)
	assert.Equal(t, domain.KindMenu, nodes[0].Kind)
	assert.Equal(t, []string{"Go"}, nodes[0].Options)
	assert.Equal(t, "bye", nodes[0].Transitions["Go"])
	assert.Equal(t, "bye", nodes[1].Key)
	assert.Equal(t, domain.KindEnd, nodes[1].Kind)
}

func TestLoader_SinhalaKeysAreSuffixed(t *testing.T) {
	fsys := fstest.MapFS{
		"menu.si.yaml": {Data: []byte(`
language: si
nodes:
  menu:
    type: menu
    message: "තෝරන්න"
    options: ["ආපසු"]
    next:
      "ආපසු": start
  already_si:
    type: end
`)},
	}

	nodes, err := file.NewLoader(fsys).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "already_si", nodes[0].Key)
	assert.Equal(t, "menu_si", nodes[1].Key)
	assert.Equal(t, "start", nodes[1].Transitions["ආපසු"], "transitions keep logical keys")
}

func TestLoader_NumericOptionsDecodeAsStrings(t *testing.T) {
	fsys := fstest.MapFS{
		"f.yaml": {Data: []byte(`
nodes:
  pick:
    type: menu
    options: [1, 2]
    next:
      "1": pick
      "2": pick
`)},
	}

	nodes, err := file.NewLoader(fsys).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, nodes[0].Options)
}

func TestLoader_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("Unknown Field", func(t *testing.T) {
		fsys := fstest.MapFS{
			"f.yaml": {Data: []byte("nodes:\n  a:\n    type: end\n    colour: red\n")},
		}
		_, err := file.NewLoader(fsys).Load(ctx)
		var loadErr *domain.GraphLoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Contains(t, loadErr.Error(), "colour")
	})

	t.Run("Malformed YAML", func(t *testing.T) {
		fsys := fstest.MapFS{"f.yaml": {Data: []byte("nodes: [unclosed")}}
		_, err := file.NewLoader(fsys).Load(ctx)
		var loadErr *domain.GraphLoadError
		assert.True(t, errors.As(err, &loadErr))
	})

	t.Run("Empty Directory", func(t *testing.T) {
		_, err := file.NewLoader(fstest.MapFS{}).Load(ctx)
		var loadErr *domain.GraphLoadError
		assert.True(t, errors.As(err, &loadErr))
	})
}

func TestLoader_DefaultFlowsFormValidGraph(t *testing.T) {
	nodes, err := file.NewLoader(flows.FS).Load(context.Background())
	require.NoError(t, err)

	g, err := graph.New(nodes)
	require.NoError(t, err)

	n, err := g.Resolve("english_menu", domain.LanguageSinhala)
	require.NoError(t, err)
	assert.Equal(t, "english_menu_si", n.Key)

	n, err = g.Resolve("account_comparison", domain.LanguageSinhala)
	require.NoError(t, err)
	assert.Equal(t, []string{"Try Again", "Exit"}, n.Options)
}
