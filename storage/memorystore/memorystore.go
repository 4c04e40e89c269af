// Package memorystore implements storage.Store in a purely in-memory manner.
// Useful for tests and single-process deployments where credential data does
// not need to survive a restart.
package memorystore

import (
	"encoding/json"
	"reflect"
	"sort"
	"sync"

	"github.com/dpup/oauthconnect/storage"
)

// New returns a store that provides transient, in-memory storage.
func New() storage.Store {
	return &store{
		data: map[string]map[string][]byte{},
	}
}

type store struct {
	// data[entityType][pk] = JSON
	data map[string]map[string][]byte
	mu   sync.RWMutex
}

func (s *store) Create(models ...storage.Model) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range models {
		n := storage.Name(m)
		if s.data[n] == nil {
			s.data[n] = map[string][]byte{}
		}
		if _, exists := s.data[n][m.PK()]; exists {
			return storage.ErrAlreadyExists
		}
		if err := s.put(n, m); err != nil {
			return err
		}
	}
	return nil
}

func (s *store) Read(id string, model storage.Model) error {
	if err := storage.ValidateReceiver(model); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(id, model)
}

func (s *store) Update(models ...storage.Model) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range models {
		n := storage.Name(m)
		if s.data[n] == nil || s.data[n][m.PK()] == nil {
			return storage.ErrNotFound
		}
		if err := s.put(n, m); err != nil {
			return err
		}
	}
	return nil
}

func (s *store) Upsert(models ...storage.Model) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range models {
		n := storage.Name(m)
		if s.data[n] == nil {
			s.data[n] = map[string][]byte{}
		}
		if err := s.put(n, m); err != nil {
			return err
		}
	}
	return nil
}

func (s *store) Delete(model storage.Model) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := storage.Name(model)
	id := model.PK()
	if s.data[n] == nil || s.data[n][id] == nil {
		return storage.ErrNotFound
	}
	delete(s.data[n], id)
	return nil
}

// List always performs a full scan of all items.
func (s *store) List(models any, filter storage.Model) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	modelsVal := reflect.ValueOf(models)
	if modelsVal.Kind() != reflect.Ptr || modelsVal.Elem().Kind() != reflect.Slice {
		return storage.ErrSliceRequired
	}

	sliceVal := modelsVal.Elem()
	elemType := sliceVal.Type().Elem()
	if elemType != reflect.TypeOf(filter) {
		return storage.ErrTypeMismatch
	}

	n := storage.Name(filter)
	if s.data[n] == nil {
		return nil
	}

	// Return models sorted by primary key.
	pks := make([]string, 0, len(s.data[n]))
	for pk := range s.data[n] {
		pks = append(pks, pk)
	}
	sort.Strings(pks)

	filterValue := reflect.ValueOf(filter)

	for _, pk := range pks {
		newElemPtr := reflect.New(elemType)
		newElem := newElemPtr.Elem()
		if err := s.read(pk, newElemPtr.Interface().(storage.Model)); err != nil {
			return err
		}
		// Skip if any non-zero field in filter differs from the corresponding
		// field in model.
		skip := false
		for i := 0; i < newElem.NumField(); i++ {
			if shouldFilter(filterValue.Field(i)) {
				fieldVal := newElem.Field(i).Interface()
				testVal := filterValue.Field(i).Interface()
				if !reflect.DeepEqual(fieldVal, testVal) {
					skip = true
					break
				}
			}
		}
		if !skip {
			sliceVal.Set(reflect.Append(sliceVal, newElem))
		}
	}

	return nil
}

func (s *store) Exists(id string, model storage.Model) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := storage.Name(model)
	if s.data[n] == nil || s.data[n][id] == nil {
		return false, nil
	}
	return true, nil
}

// put assumes the write lock is held.
func (s *store) put(n string, m storage.Model) error {
	jsonBytes, err := json.Marshal(m)
	if err != nil {
		return storage.ErrInvalidModel
	}
	s.data[n][m.PK()] = jsonBytes
	return nil
}

// read assumes a read lock is held.
func (s *store) read(id string, model storage.Model) error {
	n := storage.Name(model)
	if s.data[n] == nil || s.data[n][id] == nil {
		return storage.ErrNotFound
	}
	return json.Unmarshal(s.data[n][id], model)
}

// shouldFilter returns true for non-zero values and non-nil pointers.
func shouldFilter(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return !v.IsNil()
	default:
		return !reflect.DeepEqual(v.Interface(), reflect.Zero(v.Type()).Interface())
	}
}
