package repositories

import (
	"fmt"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

// Set bundles one implementation of every repository.
type Set struct {
	Posts       PostRepository
	Comments    CommentRepository
	Users       UserRepository
	Reports     ReportRepository
	Credentials CredentialRepository
	Close       func() error
}

// Store owns a Badger database and the repositories built on it.
type Store struct {
	db       *badger.DB
	mutex    sync.Mutex
	dbPath   string
	isTestDB bool
}

// NewStore opens the Badger database at path.
func NewStore(path string) (*Store, error) {
	isTest := false
	if path == "" || path == "test_db" {
		// If no path is provided or if "test_db" is explicitly used,
		// create a unique temporary directory for testing to ensure isolation.
		tempPath, err := os.MkdirTemp("", "contenthub_test_db_")
		if err != nil {
			return nil, fmt.Errorf("Error creating temp dir: %v", err)
		}
		path = tempPath
		isTest = true
	}
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	if isTest {
		opts = opts.WithSyncWrites(false).WithNumGoroutines(1)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	// For testing, ensure the database is clean by dropping all keys.
	if isTest {
		if err := db.DropAll(); err != nil {
			return nil, fmt.Errorf("failed to drop all keys: %v", err)
		}
	}
	return &Store{
		db:       db,
		dbPath:   path,
		isTestDB: isTest,
	}, nil
}

// DB exposes the underlying database for maintenance commands.
func (s *Store) DB() *badger.DB {
	return s.db
}

// Set returns the Badger-backed repositories.
func (s *Store) Set() Set {
	return Set{
		Posts:       NewBadgerPostRepository(s.db),
		Comments:    NewBadgerCommentRepository(s.db),
		Users:       NewBadgerUserRepository(s.db),
		Reports:     NewBadgerReportRepository(s.db),
		Credentials: NewBadgerCredentialRepository(s.db),
		Close:       s.Close,
	}
}

func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	err := s.db.Close()
	if err != nil {
		return err
	}

	// Clean up test database
	if s.isTestDB {
		err = os.RemoveAll(s.dbPath)
		if err != nil {
			return fmt.Errorf("failed to cleanup test database: %v", err)
		}
	}
	return nil
}

// Clear drops every key.
func (s *Store) Clear() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.db.DropAll()
}

// Stats counts the records stored under each entity prefix.
func (s *Store) Stats() (map[string]int, error) {
	prefixes := map[string]string{
		"posts":    PostKeyPrefix,
		"comments": CommentKeyPrefix,
		"users":    UserKeyPrefix,
		"reports":  ReportKeyPrefix,
	}
	counts := make(map[string]int, len(prefixes))
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for name, prefix := range prefixes {
			p := []byte(prefix)
			for it.Seek(p); it.ValidForPrefix(p); it.Next() {
				counts[name]++
			}
		}
		return nil
	})
	return counts, err
}
