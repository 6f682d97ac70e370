package kv

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

var _ Store = (*File)(nil)

// File persists keys as a single JSON document on disk. The whole document is
// read on every Get and rewritten on every Set, matching the whole-collection
// persistence contract of the directory. A missing file is an empty store.
type File struct {
	path string
	lock sync.Mutex
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	values, err := f.read()
	if err != nil {
		return nil, err
	}
	value, ok := values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return value, nil
}

func (f *File) Set(_ context.Context, key string, value []byte) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}
	values[key] = value
	return f.write(values)
}

func (f *File) Delete(_ context.Context, key string) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return f.write(values)
}

func (f *File) read() (map[string][]byte, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return make(map[string][]byte), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[File.read] os.ReadFile")
	}

	values := make(map[string][]byte)
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, errors.Wrap(err, "[File.read] json.Unmarshal")
	}
	return values, nil
}

func (f *File) write(values map[string][]byte) error {
	data, err := json.Marshal(values)
	if err != nil {
		return errors.Wrap(err, "[File.write] json.Marshal")
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return errors.Wrap(err, "[File.write] os.MkdirAll")
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return errors.Wrap(err, "[File.write] os.WriteFile")
	}
	return nil
}
