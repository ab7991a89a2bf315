package menace

import (
	"bufio"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/IlikeChooros/go-menace/pkg/ttt"
	"github.com/pkg/errors"
)

// On-disk form of a bag: list of [column, row] pairs
type storedBag [][]int

// Write the whole mapping as one JSON object: decimal fingerprint -> bag
func (kb *KnowledgeBase) Save(w io.Writer) error {
	snapshot := kb.Snapshot()

	stored := make(map[string]storedBag, len(snapshot))
	for fp, bag := range snapshot {
		pairs := make(storedBag, len(bag))
		for i, m := range bag {
			pairs[i] = []int{int(m.Col), int(m.Row)}
		}
		stored[fp.String()] = pairs
	}

	if err := json.NewEncoder(w).Encode(stored); err != nil {
		return errors.Wrap(err, "encode knowledge")
	}
	return nil
}

// Replace the mapping with the one read from r. Records with a malformed
// fingerprint or bag are skipped and reported in the returned count; if the
// input is not a JSON object the current mapping is left untouched.
func (kb *KnowledgeBase) Load(r io.Reader) (skipped int, err error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return 0, errors.Wrapf(ErrCorruptKnowledge, "decode: %v", err)
	}

	positions := make(map[ttt.Fingerprint][]ttt.Move, len(raw))
	for key, value := range raw {
		pos, bag, err := decodeRecord(key, value)
		if err != nil {
			skipped++
			kb.logger.Warn().Err(err).Str("key", key).Msg("skipping knowledge record")
			continue
		}
		positions[pos.Fingerprint()] = bag
	}

	kb.mu.Lock()
	kb.positions = positions
	kb.mu.Unlock()

	kb.logger.Debug().
		Int("positions", len(positions)).
		Int("skipped", skipped).
		Msg("knowledge loaded")
	return skipped, nil
}

func decodeRecord(key string, value json.RawMessage) (ttt.Position, []ttt.Move, error) {
	pos, err := ttt.ParseFingerprint(key)
	if err != nil {
		return pos, nil, err
	}
	if pos.Fingerprint().String() != key {
		return pos, nil, errors.Wrapf(ttt.ErrMalformedFingerprint, "key %q is not canonical", key)
	}
	if pos.IsTerminated() {
		return pos, nil, errors.Errorf("position %s is already finished", key)
	}

	var pairs storedBag
	if err := json.Unmarshal(value, &pairs); err != nil {
		return pos, nil, errors.Wrap(err, "decode bag")
	}

	bag := make([]ttt.Move, 0, len(pairs))
	for _, pair := range pairs {
		if len(pair) != 2 {
			return pos, nil, errors.Wrapf(ttt.ErrInvalidMove, "pair %v is not [column, row]", pair)
		}
		if pair[0] < 0 || pair[1] < 0 {
			return pos, nil, errors.Wrapf(ttt.ErrInvalidMove, "negative coordinates %v", pair)
		}
		m := ttt.Move{Col: uint8(min(pair[0], 255)), Row: uint8(min(pair[1], 255))}
		if !pos.IsLegal(m) {
			return pos, nil, errors.Wrapf(ttt.ErrInvalidMove, "move %v in position %s", m, key)
		}
		bag = append(bag, m)
	}
	return pos, bag, nil
}

// Load the knowledge file, a missing file leaves the knowledge base empty
func (kb *KnowledgeBase) LoadFile(path string) (skipped int, err error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		kb.logger.Info().Str("path", path).Msg("no knowledge file, starting fresh")
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "open knowledge")
	}
	defer f.Close()

	skipped, err = kb.Load(bufio.NewReader(f))
	if err != nil {
		return skipped, errors.Wrapf(err, "load %s", path)
	}
	return skipped, nil
}

// Save to a temporary file next to 'path' and rename it over, so a crash
// never leaves a half written knowledge file
func (kb *KnowledgeBase) SaveFile(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temporary knowledge file")
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := kb.Save(w); err != nil {
		tmp.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write knowledge")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close knowledge")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, "replace knowledge")
	}

	kb.logger.Debug().Str("path", path).Int("positions", kb.Len()).Msg("knowledge saved")
	return nil
}
