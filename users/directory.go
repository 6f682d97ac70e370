package users

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/sessionauth/go-session-core/credentials"
	"github.com/sessionauth/go-session-core/internal/autherrors"
	"github.com/sessionauth/go-session-core/kv"
)

// usersKey is the collection key in the backing store.
const usersKey = "auth_users"

// Directory provides CRUD over user records keyed by id, with a secondary
// lookup by email. It reads the entire collection on every query and writes
// the entire collection on every mutation - write atomicity is "replace whole
// collection". That bounds the directory to single-process, low-volume use
// and is a scalability ceiling, not an accident to optimize away.
type Directory struct {
	store  kv.Store
	hasher credentials.Hasher
	now    func() time.Time
	writeL sync.Mutex // serializes Create's check-then-write region
}

// Option modifies a Directory.
type Option func(*Directory)

// WithNow sets the clock function (primarily for testing)
func WithNow(now func() time.Time) Option {
	return func(d *Directory) {
		d.now = now
	}
}

func NewDirectory(store kv.Store, hasher credentials.Hasher, options ...Option) (*Directory, error) {
	if store == nil {
		return nil, errors.New("[NewDirectory] store is required")
	}

	directory := &Directory{
		store:  store,
		hasher: hasher,
		now:    time.Now,
	}
	for _, opt := range options {
		opt(directory)
	}
	return directory, nil
}

// Create registers a new user. It fails with ErrDuplicateUser if a record
// with the same email already exists (case-sensitive exact match). Two Create
// calls racing on one email would both pass the uniqueness check under the
// whole-collection persistence contract, so the check-then-write region runs
// under a single-writer lock.
func (d *Directory) Create(ctx context.Context, email, password string) (*User, error) {
	d.writeL.Lock()
	defer d.writeL.Unlock()

	records, err := d.loadAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "[Directory.Create] loadAll")
	}

	for _, record := range records {
		if record.Email == email {
			return nil, autherrors.ErrDuplicateUser
		}
	}

	digest, err := d.hasher.Hash(password)
	if err != nil {
		return nil, errors.Wrap(err, "[Directory.Create] hasher.Hash")
	}

	user := User{
		ID:             uuid.New().String(),
		Email:          email,
		PasswordDigest: digest,
		CreatedAt:      d.now(),
	}

	records = append(records, user)
	if err := d.saveAll(ctx, records); err != nil {
		return nil, errors.Wrap(err, "[Directory.Create] saveAll")
	}
	return &user, nil
}

// FindByEmail returns the record whose email matches exactly, or
// ErrUserNotFound.
func (d *Directory) FindByEmail(ctx context.Context, email string) (*User, error) {
	records, err := d.loadAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "[Directory.FindByEmail] loadAll")
	}

	for i := range records {
		if records[i].Email == email {
			return &records[i], nil
		}
	}
	return nil, autherrors.ErrUserNotFound
}

// FindByID returns the record with the given id, or ErrUserNotFound.
func (d *Directory) FindByID(ctx context.Context, id string) (*User, error) {
	records, err := d.loadAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "[Directory.FindByID] loadAll")
	}

	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}
	return nil, autherrors.ErrUserNotFound
}

// Count returns the number of records in the directory.
func (d *Directory) Count(ctx context.Context) (int, error) {
	records, err := d.loadAll(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "[Directory.Count] loadAll")
	}
	return len(records), nil
}

func (d *Directory) loadAll(ctx context.Context) ([]User, error) {
	data, err := d.store.Get(ctx, usersKey)
	if errors.Is(err, kv.ErrKeyNotFound) {
		// Uninitialized store, treated as an empty collection.
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "store.Get")
	}

	var records []User
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(err, "json.Unmarshal")
	}
	return records, nil
}

func (d *Directory) saveAll(ctx context.Context, records []User) error {
	data, err := json.Marshal(records)
	if err != nil {
		return errors.Wrap(err, "json.Marshal")
	}
	if err := d.store.Set(ctx, usersKey, data); err != nil {
		return errors.Wrap(err, "store.Set")
	}
	return nil
}
