// Package buildcache is a content-addressed store of previously
// generated kernel source, keyed by a fingerprint of the MIR subtree
// that produced it. Grounded on two corpus libraries: the teacher's own
// use of modernc.org/sqlite as its embedded SQL backend
// (internal/evaluator/builtins_sql.go) for storage, and the
// viant-linager example repo's use of github.com/minio/highwayhash for
// fast, non-cryptographic content hashing.
package buildcache

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/minio/highwayhash"
	_ "modernc.org/sqlite"

	"github.com/funvibe/graphitc/internal/mir"
)

// hashKey is fixed rather than random: the cache is content-addressed
// for build reproducibility, not for tamper resistance, so a stable key
// is required (a random key would make the same MIR subtree hash
// differently across process runs, defeating the whole cache).
var hashKey = make([]byte, 32)

// Fingerprint returns a stable hex digest of n's MIR subtree. Codegen
// hashes a kernel's MIR node before rendering it; two subtrees that
// print identically via %#v are considered the same kernel. Go's %#v
// recurses fields in declaration order and MIR nodes contain no maps,
// so the digest is deterministic for a given (acyclic) subtree.
func Fingerprint(n mir.Node) string {
	h, err := highwayhash.New(hashKey)
	if err != nil {
		// hashKey's length is fixed above; New only fails on a bad key
		// length, which would be a programmer error, not a runtime one.
		panic(err)
	}
	fmt.Fprintf(h, "%#v", n)
	return hex.EncodeToString(h.Sum(nil))
}

// Cache wraps a sqlite-backed key/value table mapping a Fingerprint to
// previously rendered kernel source. Safe for concurrent Get/Put:
// database/sql's *sql.DB pools and serializes connections internally,
// which is what lets cmd/graphitc's -j worker pool share one Cache
// across concurrently compiled kernel regions.
type Cache struct {
	db *sql.DB
}

// Open creates (if needed) and opens a build cache database under dir.
func Open(dir string) (*Cache, error) {
	path := filepath.Join(dir, "graphitc-buildcache.sqlite")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("buildcache: open %s: %w", path, err)
	}
	const schema = `create table if not exists kernels (
		hash   text primary key,
		source text not null
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("buildcache: init schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Get returns the cached source for hash, if present.
func (c *Cache) Get(hash string) (source string, hit bool, err error) {
	err = c.db.QueryRow(`select source from kernels where hash = ?`, hash).Scan(&source)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("buildcache: get %s: %w", hash, err)
	}
	return source, true, nil
}

// Put records source under hash, overwriting any prior entry (a
// rebuild after a dependency change is expected to produce the same
// source for the same hash, but an overwrite is cheaper than asserting
// it).
func (c *Cache) Put(hash, source string) error {
	_, err := c.db.Exec(`insert or replace into kernels (hash, source) values (?, ?)`, hash, source)
	if err != nil {
		return fmt.Errorf("buildcache: put %s: %w", hash, err)
	}
	return nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}
