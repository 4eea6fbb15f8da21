package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Adda-Baaj/tour-of-heroes/internal/domain"
	bolt "go.etcd.io/bbolt"
)

const (
	heroBucket = "heroes"
	idKeyBytes = 8
)

// boltStore implements a Store backed by BoltDB. Keys are big-endian ids and ids are never
// negative, so a cursor walks heroes in id order.
type boltStore struct {
	db *bolt.DB
}

// openBolt initializes a BoltDB-backed Store and seeds it when the bucket is empty.
func openBolt(path string, seed []domain.Hero) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(heroBucket))
		if err != nil {
			return err
		}
		if k, _ := bucket.Cursor().First(); k != nil {
			return nil
		}
		for _, h := range seed {
			if err := putHero(bucket, h); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	return &boltStore{db: db}, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

func (b *boltStore) List() ([]domain.Hero, error) {
	heroes := []domain.Hero{}
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(heroBucket))
		if bucket == nil {
			return fmt.Errorf("hero bucket missing")
		}
		return bucket.ForEach(func(_, v []byte) error {
			var h domain.Hero
			if err := json.Unmarshal(v, &h); err != nil {
				return fmt.Errorf("decode hero: %w", err)
			}
			heroes = append(heroes, h)
			return nil
		})
	})
	return heroes, err
}

func (b *boltStore) Get(id int) (domain.Hero, bool, error) {
	var (
		hero  domain.Hero
		found bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(heroBucket))
		if bucket == nil {
			return fmt.Errorf("hero bucket missing")
		}
		v := bucket.Get(encodeID(id))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &hero)
	})
	return hero, found, err
}

func (b *boltStore) Create(hero domain.Hero) (domain.Hero, error) {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(heroBucket))
		if bucket == nil {
			return fmt.Errorf("hero bucket missing")
		}
		if hero.ID < 0 {
			return fmt.Errorf("create hero id=%d: %w", hero.ID, ErrInvalidID)
		}
		if hero.ID == 0 {
			hero.ID = nextID(bucketIDs(bucket))
		} else if bucket.Get(encodeID(hero.ID)) != nil {
			return fmt.Errorf("create hero id=%d: %w", hero.ID, ErrConflict)
		}
		return putHero(bucket, hero)
	})
	if err != nil {
		return domain.Hero{}, err
	}
	return hero, nil
}

func (b *boltStore) Update(hero domain.Hero) (bool, error) {
	var found bool
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(heroBucket))
		if bucket == nil {
			return fmt.Errorf("hero bucket missing")
		}
		if bucket.Get(encodeID(hero.ID)) == nil {
			return nil
		}
		found = true
		return putHero(bucket, hero)
	})
	return found, err
}

func (b *boltStore) Delete(id int) (bool, error) {
	var found bool
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(heroBucket))
		if bucket == nil {
			return fmt.Errorf("hero bucket missing")
		}
		key := encodeID(id)
		if bucket.Get(key) == nil {
			return nil
		}
		found = true
		return bucket.Delete(key)
	})
	return found, err
}

func putHero(bucket *bolt.Bucket, hero domain.Hero) error {
	raw, err := json.Marshal(hero)
	if err != nil {
		return fmt.Errorf("encode hero: %w", err)
	}
	return bucket.Put(encodeID(hero.ID), raw)
}

func bucketIDs(bucket *bolt.Bucket) []int {
	var ids []int
	c := bucket.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		if id, ok := decodeID(k); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func encodeID(id int) []byte {
	buf := make([]byte, idKeyBytes)
	binary.BigEndian.PutUint64(buf, uint64(id))
	return buf
}

// decodeID decodes the id from the stored key.
func decodeID(key []byte) (int, bool) {
	if len(key) != idKeyBytes {
		return 0, false
	}
	return int(binary.BigEndian.Uint64(key)), true
}
