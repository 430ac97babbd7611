package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/users/domain"
	"github.com/fastygo/users/repository"
)

var (
	usersBucket  = []byte("users")
	emailsBucket = []byte("users_by_email")
)

// Store keeps users in a single BoltDB file. Ids come from the bucket sequence,
// so they are monotonic and never reused.
type Store struct {
	db *bolt.DB
}

// Open initializes the BoltDB file and ensures the buckets exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(usersBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(emailsBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

var _ repository.UserRepository = (*Store)(nil)

func (s *Store) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, domain.ErrInvalidPayload
	}
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}

	stored := *user
	err := s.db.Update(func(tx *bolt.Tx) error {
		users := tx.Bucket(usersBucket)
		emails := tx.Bucket(emailsBucket)
		if emails.Get([]byte(stored.Email)) != nil {
			return domain.ErrDuplicateEmail
		}

		seq, err := users.NextSequence()
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		stored.ID = int64(seq)
		stored.CreatedAt = now
		stored.UpdatedAt = now

		if err := putUser(users, &stored); err != nil {
			return err
		}
		return emails.Put([]byte(stored.Email), itob(stored.ID))
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	var user *domain.User
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		user, err = getUser(tx.Bucket(usersBucket), id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Store) List(ctx context.Context) ([]domain.User, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	users := make([]domain.User, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(usersBucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var user domain.User
			if err := json.Unmarshal(v, &user); err != nil {
				return err
			}
			users = append(users, user)
		}
		return nil
	})
	return users, err
}

func (s *Store) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	var user *domain.User
	err := s.db.Update(func(tx *bolt.Tx) error {
		users := tx.Bucket(usersBucket)
		emails := tx.Bucket(emailsBucket)

		current, err := getUser(users, id)
		if err != nil {
			return err
		}

		previousEmail := current.Email
		patch.Apply(current)
		current.UpdatedAt = time.Now().UTC()

		if current.Email != previousEmail {
			if emails.Get([]byte(current.Email)) != nil {
				return domain.ErrDuplicateEmail
			}
			if err := emails.Delete([]byte(previousEmail)); err != nil {
				return err
			}
			if err := emails.Put([]byte(current.Email), itob(id)); err != nil {
				return err
			}
		}

		user = current
		return putUser(users, current)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Store) Delete(ctx context.Context, id int64) (*domain.User, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	var user *domain.User
	err := s.db.Update(func(tx *bolt.Tx) error {
		users := tx.Bucket(usersBucket)
		current, err := getUser(users, id)
		if err != nil {
			return err
		}
		if err := tx.Bucket(emailsBucket).Delete([]byte(current.Email)); err != nil {
			return err
		}
		user = current
		return users.Delete(itob(id))
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Ping reports whether the database file is still open.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(usersBucket) == nil {
			return bolt.ErrBucketNotFound
		}
		return nil
	})
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Stats exposes Bolt statistics for monitoring endpoints.
func (s *Store) Stats() bolt.Stats {
	if s == nil || s.db == nil {
		return bolt.Stats{}
	}
	return s.db.Stats()
}

func getUser(b *bolt.Bucket, id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, domain.UserNotFound(id)
	}
	raw := b.Get(itob(id))
	if raw == nil {
		return nil, domain.UserNotFound(id)
	}
	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func putUser(b *bolt.Bucket, user *domain.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return b.Put(itob(user.ID), payload)
}

// itob encodes ids big-endian so cursor order matches id order.
func itob(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}
