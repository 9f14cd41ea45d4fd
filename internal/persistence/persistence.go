package persistence

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/markusressel/rpifanctl/internal/ui"
	bolt "go.etcd.io/bbolt"
)

const (
	BucketGovernorRun = "governorRun"
	BucketTempHistory = "tempHistory"

	governorRunKey = "current"
)

// GovernorRun describes a spawned adaptive governor process.
type GovernorRun struct {
	Pid          int           `json:"pid"`
	PollInterval time.Duration `json:"pollInterval"`
	StartedAt    time.Time     `json:"startedAt"`
}

// HistoryEntry is one observation of the governor loop. History is
// observational only: the governor never seeds its running maximum from
// it, a restarted governor always starts from zero.
type HistoryEntry struct {
	Timestamp      time.Time `json:"timestamp"`
	Temperature    int       `json:"temperature"`
	MaxTemperature int       `json:"maxTemperature"`
	DutyCycle      uint64    `json:"dutyCycle"`
}

type Persistence interface {
	Init() error

	SaveGovernorRun(run GovernorRun) error
	LoadGovernorRun() (GovernorRun, error)
	DeleteGovernorRun() error

	AppendHistory(entry HistoryEntry) error
	LoadHistory() ([]HistoryEntry, error)
	DeleteHistory() error
}

type persistence struct {
	dbPath       string
	historyLimit int
}

func NewPersistence(dbPath string, historyLimit int) Persistence {
	return &persistence{
		dbPath:       dbPath,
		historyLimit: historyLimit,
	}
}

func (p persistence) Init() (err error) {
	// get parent path of dbPath
	parentDir := filepath.Dir(p.dbPath)
	_, err = os.Stat(parentDir)
	if errors.Is(err, os.ErrNotExist) {
		// create directory
		ui.Info("Creating directory for db: %s", parentDir)
		err = os.MkdirAll(parentDir, 0755)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p persistence) openPersistence() (db *bolt.DB, err error) {
	db, err = bolt.Open(p.dbPath, 0600, &bolt.Options{Timeout: 1 * time.Minute})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// SaveGovernorRun stores the process record of the active governor.
func (p persistence) SaveGovernorRun(run GovernorRun) (err error) {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	data, err := json.Marshal(run)
	if err != nil {
		return err
	}

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketGovernorRun))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		return b.Put([]byte(governorRunKey), data)
	})
}

func (p persistence) LoadGovernorRun() (run GovernorRun, err error) {
	db, err := p.openPersistence()
	if err != nil {
		return run, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketGovernorRun))
		if b == nil {
			return os.ErrNotExist
		}
		data := b.Get([]byte(governorRunKey))
		if data == nil {
			return os.ErrNotExist
		}
		return json.Unmarshal(data, &run)
	})
	return run, err
}

func (p persistence) DeleteGovernorRun() (err error) {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketGovernorRun))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(governorRunKey))
	})
}

// AppendHistory stores one governor observation, pruning the oldest
// entries beyond the configured history limit.
func (p persistence) AppendHistory(entry HistoryEntry) (err error) {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketTempHistory))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		if err = b.Put(key, data); err != nil {
			return err
		}

		// prune oldest entries beyond the limit
		count := 0
		_ = b.ForEach(func(k, v []byte) error {
			count++
			return nil
		})
		cursor := b.Cursor()
		for excess := count - p.historyLimit; excess > 0; excess-- {
			k, _ := cursor.First()
			if k == nil {
				break
			}
			if err = cursor.Delete(); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadHistory returns all stored observations, oldest first.
func (p persistence) LoadHistory() (entries []HistoryEntry, err error) {
	db, err := p.openPersistence()
	if err != nil {
		return nil, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketTempHistory))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var entry HistoryEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return err
			}
			entries = append(entries, entry)
			return nil
		})
	})
	return entries, err
}

func (p persistence) DeleteHistory() (err error) {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(BucketTempHistory)) == nil {
			return nil
		}
		return tx.DeleteBucket([]byte(BucketTempHistory))
	})
}
