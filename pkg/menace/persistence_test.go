package menace

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/IlikeChooros/go-menace/pkg/ttt"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededKnowledge(t *testing.T) *KnowledgeBase {
	t.Helper()
	kb := New()

	empty := ttt.NewPosition()
	afterCenter, err := empty.ApplyMove(ttt.Move{Col: 1, Row: 1})
	require.NoError(t, err)
	afterCorner, err := afterCenter.ApplyMove(ttt.Move{Col: 0, Row: 0})
	require.NoError(t, err)

	kb.SetBag(empty, []ttt.Move{{Col: 1, Row: 1}, {Col: 1, Row: 1}, {Col: 0, Row: 0}})
	kb.SetBag(afterCenter, []ttt.Move{{Col: 0, Row: 0}, {Col: 2, Row: 2}})
	kb.SetBag(afterCorner, []ttt.Move{{Col: 2, Row: 2}, {Col: 2, Row: 0}, {Col: 2, Row: 2}, {Col: 0, Row: 2}})
	require.Equal(t, 3, kb.Len())
	return kb
}

func TestSaveLoadRoundTrip(t *testing.T) {
	kb := seededKnowledge(t)

	var buf bytes.Buffer
	require.NoError(t, kb.Save(&buf))

	loaded := New()
	skipped, err := loaded.Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	assert.True(t, kb.Equal(loaded))
	assert.Equal(t, kb.Fingerprints(), loaded.Fingerprints())
}

func TestSaveFormat(t *testing.T) {
	kb := New()
	pos, err := ttt.NewPosition().ApplyMove(ttt.Move{Col: 0, Row: 0})
	require.NoError(t, err)
	kb.SetBag(pos, []ttt.Move{{Col: 1, Row: 0}, {Col: 2, Row: 1}})

	var buf bytes.Buffer
	require.NoError(t, kb.Save(&buf))

	var decoded map[string][][]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, map[string][][]int{"6561": {{1, 0}, {2, 1}}}, decoded)
}

func TestLoadSkipsMalformedRecords(t *testing.T) {
	input := `{
		"0": [[1,1],[0,0]],
		"abc": [[0,0]],
		"19683": [[0,0]],
		"007": [[0,0]],
		"6561": [[0,0]],
		"1": [[3,0]],
		"2": "not a bag",
		"3": [],
		"9": [[1]],
		"27": [[0,1,7]],
		"81": [[]],
		"243": [[0,0], null]
	}`

	kb := New()
	skipped, err := kb.Load(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 10, skipped)
	assert.Equal(t, []ttt.Fingerprint{0, 3}, kb.Fingerprints())

	bag, _ := kb.Bag(0)
	assert.Equal(t, []ttt.Move{{Col: 1, Row: 1}, {Col: 0, Row: 0}}, bag)

	// An empty stored bag is valid and regenerated on use
	pos, err := ttt.FromFingerprint(3)
	require.NoError(t, err)
	assert.Len(t, kb.CandidateMoves(pos), 8)
}

func TestLoadCorruptKeepsMapping(t *testing.T) {
	kb := seededKnowledge(t)
	before := kb.Snapshot()

	_, err := kb.Load(strings.NewReader(`{"0": [[1,1]`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorruptKnowledge))
	assert.Equal(t, before, kb.Snapshot())

	_, err = kb.Load(strings.NewReader(`[1,2,3]`))
	assert.True(t, errors.Is(err, ErrCorruptKnowledge))
	assert.Equal(t, before, kb.Snapshot())
}

func TestSaveLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "knowledge.json")
	kb := seededKnowledge(t)

	require.NoError(t, kb.SaveFile(path))

	loaded := New()
	skipped, err := loaded.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	assert.True(t, kb.Equal(loaded))

	// No temporary files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLoadFileMissing(t *testing.T) {
	kb := New()
	skipped, err := kb.LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	assert.Equal(t, 0, kb.Len())
}

func TestEqualIgnoresOrder(t *testing.T) {
	a, b := New(), New()
	pos := ttt.NewPosition()
	a.SetBag(pos, []ttt.Move{{Col: 0, Row: 0}, {Col: 1, Row: 1}, {Col: 0, Row: 0}})
	b.SetBag(pos, []ttt.Move{{Col: 0, Row: 0}, {Col: 0, Row: 0}, {Col: 1, Row: 1}})
	assert.True(t, a.Equal(b))

	b.SetBag(pos, []ttt.Move{{Col: 0, Row: 0}, {Col: 1, Row: 1}, {Col: 1, Row: 1}})
	assert.False(t, a.Equal(b))
}
