package journal

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/IlikeChooros/go-menace/pkg/bench"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

var runsBucket = []byte("TrainingRuns")

// One recorded training run
type Run struct {
	ID            uint64        `json:"id"`
	FinishedAt    time.Time     `json:"finished_at"`
	KnowledgeFile string        `json:"knowledge_file"`
	Bias          int           `json:"bias"`
	Summary       bench.Summary `json:"summary"`
}

// Append-only record of the training runs, kept in a bbolt database next to
// the knowledge file
type Journal struct {
	db *bbolt.DB
}

func Open(path string) (*Journal, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open journal %s", path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(runsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create bucket")
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

func key(id uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, id)
	return k
}

// Store the run under the next sequence number, which is returned
func (j *Journal) Append(run Run) (uint64, error) {
	err := j.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(runsBucket)
		id, err := b.NextSequence()
		if err != nil {
			return err
		}
		run.ID = id

		data, err := json.Marshal(run)
		if err != nil {
			return errors.Wrap(err, "marshal run")
		}
		return b.Put(key(id), data)
	})
	return run.ID, err
}

// The most recent 'n' runs, oldest first. Non positive 'n' returns all.
func (j *Journal) Last(n int) ([]Run, error) {
	var runs []Run
	err := j.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(runsBucket).Cursor()
		for k, v := c.Last(); k != nil && (n <= 0 || len(runs) < n); k, v = c.Prev() {
			var run Run
			if err := json.Unmarshal(v, &run); err != nil {
				return errors.Wrapf(err, "run %d", binary.BigEndian.Uint64(k))
			}
			runs = append(runs, run)
		}
		return nil
	})

	for i, k := 0, len(runs)-1; i < k; i, k = i+1, k-1 {
		runs[i], runs[k] = runs[k], runs[i]
	}
	return runs, err
}

// Games played over all recorded runs
func (j *Journal) TotalGames() (int, error) {
	runs, err := j.Last(0)
	total := 0
	for _, run := range runs {
		total += run.Summary.TotalGames
	}
	return total, err
}
