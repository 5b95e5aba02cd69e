// Package storage persists run artifacts (agents, graph snapshots,
// per-generation results) in BadgerDB, keyed per run so concurrent runs
// never collide.
package storage

import (
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v3"

	"github.com/mimetic-labs/resonance/core"
	"github.com/mimetic-labs/resonance/evolution"
	"github.com/mimetic-labs/resonance/graph"
)

type Storage interface {
	// Generic operations
	Put(key string, value []byte) error
	Get(key string) ([]byte, error)
	Delete(key string) error
	GetByPrefix(prefix string) (map[string][]byte, error)
	DeleteByPrefix(prefix string) error
	PutObject(key string, obj interface{}) error
	GetObject(key string, obj interface{}) error

	// Domain-specific operations
	SaveSeed(runID string, generation int, seed core.CampaignSeed) error
	SaveResult(runID string, result *core.SimulationResult) error
	GetResults(runID string) ([]*core.SimulationResult, error)
	SaveRationale(runID string, generation int, rationale *evolution.Rationale) error
	SaveAgents(runID string, agents []*core.AgentProfile) error
	GetAgents(runID string) ([]*core.AgentProfile, error)
	SaveGraph(runID string, data graph.Data) error
	GetGraph(runID string) (graph.Data, error)
	ClearRunData(runID string) error

	// Management operations
	RunGC() error
}

type DBMetrics struct {
	PutCount         int64
	GetCount         int64
	DeleteCount      int64
	GetByPrefixCount int64
	Errors           int64
}

func (s *DBStorage) logOperation(op string, key string, err error) {
	if err != nil {
		log.Printf("BadgerDB %s operation failed for key %s: %v", op, key, err)
		atomic.AddInt64(&s.metrics.Errors, 1)
	}
}

// DBStorage represents a persistent storage using BadgerDB
type DBStorage struct {
	db      *badger.DB
	mu      sync.Mutex
	config  BadgerDBConfig
	metrics DBMetrics
}

var (
	instance     *DBStorage
	instanceOnce sync.Mutex
)

// GetDBStorage returns the shared DB instance, opening it on first use.
func GetDBStorage(dataDir string) (*DBStorage, error) {
	return GetDBStorageWithConfig(DefaultConfig(dataDir))
}

// GetDBStorageWithConfig returns the shared DB instance with custom configuration
func GetDBStorageWithConfig(config BadgerDBConfig) (*DBStorage, error) {
	instanceOnce.Lock()
	defer instanceOnce.Unlock()

	if instance != nil {
		return instance, nil
	}

	dbPath := filepath.Join(config.DataDir, "badgerdb")
	s, err := newDBStorage(dbPath, config)
	if err != nil {
		return nil, err
	}
	instance = s

	if config.GCInterval > 0 {
		go s.startGCRoutine(time.Duration(config.GCInterval) * time.Second)
	}

	return instance, nil
}

// newDBStorage creates a new BadgerDB storage instance
func newDBStorage(dbPath string, config BadgerDBConfig) (*DBStorage, error) {
	opts := badger.DefaultOptions(dbPath)
	if config.DisableLogging {
		opts.Logger = nil
	}
	opts.InMemory = config.InMemory
	opts.SyncWrites = config.SyncWrites

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB: %v", err)
	}

	return &DBStorage{
		db:     db,
		config: config,
	}, nil
}

func (s *DBStorage) startGCRoutine(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		err := s.RunGC()
		if err != nil {
			log.Printf("BadgerDB GC failed: %v", err)
		}
	}
}

// Close closes the BadgerDB database
func (s *DBStorage) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// Put stores a key-value pair in the database
func (s *DBStorage) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	atomic.AddInt64(&s.metrics.PutCount, 1)
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	s.logOperation("put", key, err)
	return err
}

// Get retrieves a value from the database by key
func (s *DBStorage) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	atomic.AddInt64(&s.metrics.GetCount, 1)
	var valCopy []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil // Key not found, return nil value
			}
			return err
		}

		return item.Value(func(val []byte) error {
			valCopy = append([]byte{}, val...)
			return nil
		})
	})

	if err != nil {
		s.logOperation("get", key, err)
		return nil, fmt.Errorf("failed to get value: %v", err)
	}

	return valCopy, nil
}

// Delete removes a key-value pair from the database
func (s *DBStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	atomic.AddInt64(&s.metrics.DeleteCount, 1)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// GetByPrefix retrieves all key-value pairs with a given prefix
func (s *DBStorage) GetByPrefix(prefix string) (map[string][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	atomic.AddInt64(&s.metrics.GetByPrefixCount, 1)
	result := make(map[string][]byte)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			k := item.Key()
			err := item.Value(func(v []byte) error {
				// Copy the key and value since they are only valid during this transaction
				keyCopy := append([]byte{}, k...)
				valCopy := append([]byte{}, v...)
				result[string(keyCopy)] = valCopy
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to get values by prefix: %v", err)
	}

	return result, nil
}

// DeleteByPrefix deletes all key-value pairs with a given prefix
func (s *DBStorage) DeleteByPrefix(prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.deleteByPrefix(prefix)
}

// PutObject serializes and stores an object in the database
func (s *DBStorage) PutObject(key string, obj interface{}) error {
	data, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("failed to marshal object: %v", err)
	}

	return s.Put(key, data)
}

// GetObject retrieves and deserializes an object from the database
func (s *DBStorage) GetObject(key string, obj interface{}) error {
	data, err := s.Get(key)
	if err != nil {
		return err
	}

	if data == nil {
		return fmt.Errorf("key not found: %s", key)
	}

	if err := json.Unmarshal(data, obj); err != nil {
		return fmt.Errorf("failed to unmarshal object: %v", err)
	}

	return nil
}

// RunGC runs garbage collection on the database
func (s *DBStorage) RunGC() error {
	return s.db.RunValueLogGC(0.5) // Clean up if at least 50% can be discarded
}

// SaveSeed persists the campaign seed used for one generation
func (s *DBStorage) SaveSeed(runID string, generation int, seed core.CampaignSeed) error {
	key := fmt.Sprintf("seed:%s:%04d", runID, generation)
	return s.PutObject(key, seed)
}

// SaveRationale persists the analyst's reasoning for a generation's rewrite
func (s *DBStorage) SaveRationale(runID string, generation int, rationale *evolution.Rationale) error {
	key := fmt.Sprintf("rationale:%s:%04d", runID, generation)
	return s.PutObject(key, rationale)
}

// SaveResult persists a finished generation's result
func (s *DBStorage) SaveResult(runID string, result *core.SimulationResult) error {
	key := fmt.Sprintf("result:%s:%04d", runID, result.Generation)
	return s.PutObject(key, result)
}

// GetResults retrieves all generation results for a run, in generation order
func (s *DBStorage) GetResults(runID string) ([]*core.SimulationResult, error) {
	prefix := fmt.Sprintf("result:%s:", runID)
	raw, err := s.GetByPrefix(prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %v", err)
	}

	results := make([]*core.SimulationResult, 0, len(raw))
	for k, v := range raw {
		var r core.SimulationResult
		if err := json.Unmarshal(v, &r); err != nil {
			log.Printf("Failed to unmarshal result %s: %v", k, err)
			continue
		}
		results = append(results, &r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Generation < results[j].Generation })
	return results, nil
}

// SaveAgents persists the run's full population
func (s *DBStorage) SaveAgents(runID string, agents []*core.AgentProfile) error {
	key := fmt.Sprintf("agents:%s", runID)
	return s.PutObject(key, agents)
}

// GetAgents retrieves the run's population
func (s *DBStorage) GetAgents(runID string) ([]*core.AgentProfile, error) {
	var agents []*core.AgentProfile
	if err := s.GetObject(fmt.Sprintf("agents:%s", runID), &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

// SaveGraph persists the social graph snapshot for a run
func (s *DBStorage) SaveGraph(runID string, data graph.Data) error {
	key := fmt.Sprintf("graph:%s", runID)
	return s.PutObject(key, data)
}

// GetGraph retrieves the social graph snapshot for a run
func (s *DBStorage) GetGraph(runID string) (graph.Data, error) {
	var data graph.Data
	if err := s.GetObject(fmt.Sprintf("graph:%s", runID), &data); err != nil {
		return graph.Data{}, err
	}
	return data, nil
}

// ClearRunData removes all data for a specific run
func (s *DBStorage) ClearRunData(runID string) error {
	prefixes := []string{
		fmt.Sprintf("seed:%s:", runID),
		fmt.Sprintf("result:%s:", runID),
		fmt.Sprintf("rationale:%s:", runID),
		fmt.Sprintf("agents:%s", runID),
		fmt.Sprintf("graph:%s", runID),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, prefix := range prefixes {
		if err := s.deleteByPrefix(prefix); err != nil {
			return err
		}
	}

	return nil
}

// deleteByPrefix deletes all keys with the given prefix
func (s *DBStorage) deleteByPrefix(prefix string) error {
	// First collect all keys to delete
	keysToDelete := [][]byte{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			key := it.Item().KeyCopy(nil)
			keysToDelete = append(keysToDelete, key)
		}
		return nil
	})

	if err != nil {
		return fmt.Errorf("failed to collect keys for deletion: %v", err)
	}

	// Now delete all collected keys in a separate transaction
	return s.db.Update(func(txn *badger.Txn) error {
		for _, key := range keysToDelete {
			if err := txn.Delete(key); err != nil {
				return fmt.Errorf("failed to delete key: %v", err)
			}
		}
		return nil
	})
}
