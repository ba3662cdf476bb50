package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tesseraerrors "github.com/alexisbeaulieu97/tessera/pkg/errors"
)

func TestStaticReportsCopies(t *testing.T) {
	t.Parallel()

	src := Static{Records: []map[string]any{{"name": "a"}}}
	var got []map[string]any
	src.Fetch(context.Background(), func(records []map[string]any, err error) {
		require.NoError(t, err)
		got = records
	})
	require.Equal(t, []map[string]any{{"name": "a"}}, got)

	got[0]["name"] = "changed"
	assert.Equal(t, "a", src.Records[0]["name"])
}

func TestStaticHonoursCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var got error
	Static{}.Fetch(ctx, func(_ []map[string]any, err error) { got = err })
	assert.ErrorIs(t, got, context.Canceled)
}

func TestDecodeRecords(t *testing.T) {
	t.Parallel()

	records, err := DecodeRecords("rows.yaml", []byte("- name: a\n  qty: 2\n- name: b\n  tags: [x, y]\n"))
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{
		{"name": "a", "qty": 2},
		{"name": "b", "tags": []any{"x", "y"}},
	}, records)

	single, err := DecodeRecords("one.yaml", []byte("name: solo\n"))
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"name": "solo"}}, single)

	empty, err := DecodeRecords("empty.yaml", nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDecodeRecordsRejectsOtherShapes(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"scalar":          "42\n",
		"list of scalars": "- a\n- b\n",
		"broken yaml":     "name: [unterminated\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeRecords("bad.yaml", []byte(doc))
			var parseErr *tesseraerrors.ParseError
			require.ErrorAs(t, err, &parseErr)
		})
	}
}

func TestYAMLFileFetchesInBackground(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rows.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- name: a\n- name: b\n"), 0o644))

	type result struct {
		records []map[string]any
		err     error
	}
	done := make(chan result, 1)
	YAMLFile{Path: path}.Fetch(context.Background(), func(records []map[string]any, err error) {
		done <- result{records, err}
	})

	select {
	case res := <-done:
		require.NoError(t, res.err)
		assert.Equal(t, []map[string]any{{"name": "a"}, {"name": "b"}}, res.records)
	case <-time.After(5 * time.Second):
		t.Fatal("fetch did not complete")
	}

	missing := make(chan error, 1)
	YAMLFile{Path: filepath.Join(t.TempDir(), "nope.yaml")}.Fetch(context.Background(), func(_ []map[string]any, err error) {
		missing <- err
	})
	require.ErrorIs(t, <-missing, os.ErrNotExist)
}
