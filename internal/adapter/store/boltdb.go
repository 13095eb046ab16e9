package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"

	"go.etcd.io/bbolt"
	"textpatch/internal/domain"
)

var (
	bucketRuns    = []byte("runs")
	bucketBackups = []byte("backups")
	bucketBlobs   = []byte("blobs")
	bucketMeta    = []byte("meta")
)

// BoltStore keeps run history and file backups in a bbolt database.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		buckets := [][]byte{bucketRuns, bucketBackups, bucketBlobs, bucketMeta}
		for _, b := range buckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &BoltStore{db: db}
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

type backupMeta struct {
	Path       string      `json:"path"`
	Mode       os.FileMode `json:"mode"`
	PatchedSum string      `json:"patched_sum"`
}

func seqKey(n uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, n)
	return key
}

// PutBackup appends a backup to the run. Backups come back in insertion order.
func (s *BoltStore) PutBackup(runID string, backup domain.Backup) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		metas, err := tx.Bucket(bucketBackups).CreateBucketIfNotExists([]byte(runID))
		if err != nil {
			return err
		}
		blobs, err := tx.Bucket(bucketBlobs).CreateBucketIfNotExists([]byte(runID))
		if err != nil {
			return err
		}

		seq, err := metas.NextSequence()
		if err != nil {
			return err
		}
		key := seqKey(seq)

		data, err := json.Marshal(backupMeta{
			Path:       backup.Path,
			Mode:       backup.Mode,
			PatchedSum: backup.PatchedSum,
		})
		if err != nil {
			return err
		}
		if err := metas.Put(key, data); err != nil {
			return err
		}
		return blobs.Put(key, backup.Original)
	})
}

func (s *BoltStore) GetBackups(runID string) ([]domain.Backup, error) {
	var backups []domain.Backup
	err := s.db.View(func(tx *bbolt.Tx) error {
		metas := tx.Bucket(bucketBackups).Bucket([]byte(runID))
		if metas == nil {
			return nil
		}
		blobs := tx.Bucket(bucketBlobs).Bucket([]byte(runID))

		return metas.ForEach(func(k, v []byte) error {
			var meta backupMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				return err
			}
			var original []byte
			if blobs != nil {
				// Copy out: bolt memory is only valid inside the transaction.
				original = append([]byte{}, blobs.Get(k)...)
			}
			backups = append(backups, domain.Backup{
				Path:       meta.Path,
				Original:   original,
				Mode:       meta.Mode,
				PatchedSum: meta.PatchedSum,
			})
			return nil
		})
	})
	return backups, err
}

func (s *BoltStore) PutRun(run domain.Run) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(run)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketRuns).Put([]byte(run.ID), data)
	})
}

// LatestRun relies on run ids sorting by creation time.
func (s *BoltStore) LatestRun() (*domain.Run, error) {
	var latest *domain.Run
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketRuns).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var run domain.Run
			if err := json.Unmarshal(v, &run); err != nil {
				return err
			}
			if !run.Reverted {
				latest = &run
				return nil
			}
		}
		return nil
	})
	return latest, err
}

func (s *BoltStore) ListRuns() ([]domain.Run, error) {
	var runs []domain.Run
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketRuns).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var run domain.Run
			if err := json.Unmarshal(v, &run); err != nil {
				return err
			}
			runs = append(runs, run)
		}
		return nil
	})
	return runs, err
}

func (s *BoltStore) DeleteRun(runID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		key := []byte(runID)
		if err := tx.Bucket(bucketRuns).Delete(key); err != nil {
			return err
		}
		for _, name := range [][]byte{bucketBackups, bucketBlobs} {
			b := tx.Bucket(name)
			if b.Bucket(key) == nil {
				continue
			}
			if err := b.DeleteBucket(key); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) MarkReverted(runID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		data := b.Get([]byte(runID))
		if data == nil {
			return fmt.Errorf("run not found: %s", runID)
		}
		var run domain.Run
		if err := json.Unmarshal(data, &run); err != nil {
			return err
		}
		run.Reverted = true
		updated, err := json.Marshal(run)
		if err != nil {
			return err
		}
		return b.Put([]byte(runID), updated)
	})
}
