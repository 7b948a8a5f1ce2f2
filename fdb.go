// Package fdb implements a single-node, file-backed relational storage
// engine: fixed-size pages, an async-flavored reference-counted pager, a
// heap-sequence record store, and a pull-model query executor (spec.md
// §1–§4). This file is the top-level facade described in spec.md §4.12.
package fdb

import (
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/joeandaverde/fdb/internal/diskmgr"
	"github.com/joeandaverde/fdb/internal/pager"
	"github.com/joeandaverde/fdb/internal/query"
)

// DefaultPageSize is used by Open; OpenWithPageSize lets a caller choose a
// different fixed page size at creation time.
const DefaultPageSize uint16 = 4096

const defaultCacheCapacity = 256

// Db is the facade over a single database file: a Pager plus the instance
// bookkeeping (id, logger); the id is logged when the database is opened.
type Db struct {
	pager      *pager.Pager
	pageSize   uint16
	InstanceID uuid.UUID
	log        *log.Logger
}

// Open opens (or bootstraps) the database at path using DefaultPageSize.
func Open(path string) (*Db, bool, error) {
	return OpenWithPageSize(path, DefaultPageSize)
}

// OpenWithPageSize opens (or bootstraps) the database at path with an
// explicit page size. isNew reports whether this call bootstrapped a fresh
// database file (spec.md §4.13).
func OpenWithPageSize(path string, pageSize uint16) (*Db, bool, error) {
	disk, err := diskmgr.Open(path, pageSize)
	if err != nil {
		return nil, false, err
	}

	p := pager.New(disk, pageSize, defaultCacheCapacity, Logger)

	isNew, err := bootstrap(p, pageSize)
	if err != nil {
		return nil, false, err
	}

	db := &Db{
		pager:      p,
		pageSize:   pageSize,
		InstanceID: uuid.New(),
		log:        Logger,
	}
	db.log.WithField("instance", db.InstanceID).WithField("path", path).
		WithField("new", isNew).Debug("fdb: opened database")

	return db, isNew, nil
}

// Pager exposes the underlying pager, unstable API present for testing and
// bootstrap (spec.md §4.12).
func (db *Db) Pager() *pager.Pager { return db.pager }

// PageSize returns the database's fixed page size.
func (db *Db) PageSize() uint16 { return db.pageSize }

// Execute drives q to exhaustion, invoking fn with each produced item. It
// returns two errors, mirroring spec.md §4.12's
// "Result<Result<(), E>>": outerErr is non-nil iff an iterator step itself
// failed (the pager's deferred-flush queue is never drained in that case)
// or the final flush of that queue failed;
// innerErr is the first error fn returned, which stops iteration
// immediately without a flush. A nil outerErr and nil innerErr means every
// item was produced and processed, and the pager has been flushed.
func (db *Db) Execute(q query.Query, fn func(query.Item) error) (outerErr, innerErr error) {
	for {
		item, ok, err := q.Next()
		if err != nil {
			return err, nil
		}
		if !ok {
			break
		}
		if err := fn(item); err != nil {
			return nil, err
		}
	}
	if err := db.pager.FlushAll(); err != nil {
		return err, nil
	}
	return nil, nil
}
