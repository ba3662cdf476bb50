package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const cardsDocument = `version: 1.0.0
name: cards
theme:
  space: 4px
translations:
  locale: en
  fallback: en
  catalog:
    en:
      card:
        title: Welcome
    fr:
      card:
        title: Bienvenue
definitions:
  - name: Card
    scheme:
      _: "@article.box"
      title: "@h2(text=i18n:card.title)"
      body: "@p"
    styles:
      padding: theme(space)
      title:
        margin: 0
    hooks:
      render:
        run: log
  - name: Row
    scheme:
      _: "@li"
      label: "@span"
  - name: Panel
    extends: Card
    interfaces: [Container]
    scheme:
      rows: "@ul|Row"
`

func writeLibrary(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}
