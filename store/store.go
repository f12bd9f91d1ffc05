package store

import (
	"math/big"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/inconshreveable/log15"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/vitelabs/go-crowdfund/common/types"
	"github.com/vitelabs/go-crowdfund/fund"
)

// Store keeps project snapshots, the registry order and settlement accounts
// in a single leveldb database.
type Store struct {
	db    *leveldb.DB
	cache *lru.Cache

	// serializes registry appends
	mu sync.Mutex

	log log15.Logger
}

// Open opens or creates the database in dir.
func Open(dir string, cacheSize int) (*Store, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "open leveldb %s", dir)
	}
	return newStore(db, cacheSize)
}

// OpenMemory opens a database that lives only as long as the process.
func OpenMemory(cacheSize int) (*Store, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "open memory leveldb")
	}
	return newStore(db, cacheSize)
}

func newStore(db *leveldb.DB, cacheSize int) (*Store, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create project cache")
	}
	return &Store{
		db:    db,
		cache: cache,
		log:   log15.New("module", "store"),
	}, nil
}

func (s *Store) Close() error {
	s.cache.Purge()
	return s.db.Close()
}

func (s *Store) SaveProject(info *fund.ProjectInfo) error {
	data, err := encodeProject(info)
	if err != nil {
		return err
	}
	if err := s.db.Put(projectKey(info.Address), data, nil); err != nil {
		s.cache.Remove(info.Address)
		return errors.Wrapf(err, "put project %s", info.Address)
	}
	s.cache.Add(info.Address, info.Clone())
	return nil
}

func (s *Store) GetProject(addr types.Address) (*fund.ProjectInfo, error) {
	if v, ok := s.cache.Get(addr); ok {
		return v.(*fund.ProjectInfo).Clone(), nil
	}

	data, err := s.db.Get(projectKey(addr), nil)
	if err == leveldb.ErrNotFound {
		return nil, errors.Wrapf(ErrNotFound, "project %s", addr)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get project %s", addr)
	}
	info, err := decodeProject(data)
	if err != nil {
		return nil, errors.WithMessagef(err, "project %s", addr)
	}
	s.cache.Add(addr, info)
	return info.Clone(), nil
}

// AppendProject records addr at position index of the registry. Positions
// are written once.
func (s *Store) AppendProject(index uint64, addr types.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := registryKey(index)
	exists, err := s.db.Has(key, nil)
	if err != nil {
		return errors.Wrap(err, "check registry index")
	}
	if exists {
		return errors.Wrapf(ErrIndexConflict, "index %d", index)
	}
	return errors.Wrap(s.db.Put(key, addr.Bytes(), nil), "put registry index")
}

// ProjectAddresses returns the registry in creation order.
func (s *Store) ProjectAddresses() ([]types.Address, error) {
	iter := s.db.NewIterator(util.BytesPrefix([]byte{RegistryKeyPrefix}), nil)
	defer iter.Release()

	var addrs []types.Address
	for iter.Next() {
		addr, err := types.BytesToAddress(iter.Value())
		if err != nil {
			return nil, errors.Wrap(ErrBadRecord, err.Error())
		}
		addrs = append(addrs, addr)
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "iterate registry")
	}
	return addrs, nil
}

// GetAccount returns the settlement balance of addr, zero if never written.
func (s *Store) GetAccount(addr types.Address) (*big.Int, error) {
	data, err := s.db.Get(accountKey(addr), nil)
	if err == leveldb.ErrNotFound {
		return new(big.Int), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get account %s", addr)
	}
	return new(big.Int).SetBytes(data), nil
}

// SaveAccounts writes every balance in one batch.
func (s *Store) SaveAccounts(balances map[types.Address]*big.Int) error {
	batch := new(leveldb.Batch)
	for addr, balance := range balances {
		if balance.Sign() < 0 {
			return errors.Errorf("negative balance for %s", addr)
		}
		batch.Put(accountKey(addr), balance.Bytes())
	}
	return errors.Wrap(s.db.Write(batch, nil), "write accounts")
}
