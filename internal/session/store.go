package session

import (
	"encoding/json"
	"time"

	bolt "go.etcd.io/bbolt"

	"bookshop/internal/entity"
)

var (
	bucketSession = []byte("session")
	keyToken      = []byte("token")
	keyUser       = []byte("user")
)

// Store persists the token and identity in a small bbolt file. The file
// is opened per operation so concurrent invocations don't hold the lock
// between commands.
type Store struct {
	path string
}

func NewStore(path string) *Store { return &Store{path: path} }

func (s *Store) open() (*bolt.DB, error) {
	return bolt.Open(s.path, 0600, &bolt.Options{Timeout: time.Second})
}

func (s *Store) Save(token string, user entity.User) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketSession)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(user)
		if err != nil {
			return err
		}
		if err := b.Put(keyToken, []byte(token)); err != nil {
			return err
		}
		return b.Put(keyUser, raw)
	})
}

// Load returns the stored token and identity. A missing file or bucket
// is not an error; it is simply a logged-out state.
func (s *Store) Load() (string, *entity.User, error) {
	db, err := s.open()
	if err != nil {
		return "", nil, err
	}
	defer db.Close()

	var token string
	var user *entity.User
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if b == nil {
			return nil
		}
		token = string(b.Get(keyToken))
		if raw := b.Get(keyUser); raw != nil {
			var u entity.User
			if err := json.Unmarshal(raw, &u); err != nil {
				return err
			}
			user = &u
		}
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *Store) Clear() error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketSession) == nil {
			return nil
		}
		return tx.DeleteBucket(bucketSession)
	})
}
