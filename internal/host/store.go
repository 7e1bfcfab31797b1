package host

import (
	"errors"
	"sync"

	"github.com/zalando/go-keyring"
)

// KeyringService is the service name entries are stored under in the OS keychain.
const KeyringService = "nftlens"

// KeyringStore keeps values in the OS keychain.
type KeyringStore struct {
	Service string
}

// NewKeyringStore returns a KeyringStore using KeyringService.
func NewKeyringStore() KeyringStore {
	return KeyringStore{Service: KeyringService}
}

func (k KeyringStore) service() string {
	if k.Service == "" {
		return KeyringService
	}
	return k.Service
}

func (k KeyringStore) Get(key string) (string, error) {
	v, err := keyring.Get(k.service(), key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	return v, err
}

func (k KeyringStore) Set(key, value string) error {
	return keyring.Set(k.service(), key, value)
}

func (k KeyringStore) Delete(key string) error {
	err := keyring.Delete(k.service(), key)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// MemoryStore is an in-process KeyValueStore.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (m *MemoryStore) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.values[key]; !ok {
		return ErrNotFound
	}
	delete(m.values, key)
	return nil
}
