// Package boltjournal is a durable, tamper-evident log of finalized ledger
// entries stored in a bbolt file. Each entry is CBOR encoded with
// deterministic options and chained to its predecessor by a BLAKE3 hash,
// so editing, dropping or reordering any stored entry breaks verification.
package boltjournal

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"
	"go.etcd.io/bbolt"

	"recordgate/internal/ledger"
)

var (
	bucketEntries = []byte("entries")
	bucketMeta    = []byte("meta")

	keyHead   = []byte("head")
	keyHeight = []byte("height")
)

var (
	// ErrOutOfOrder is returned by Append when an entry does not extend the
	// log by exactly one.
	ErrOutOfOrder = errors.New("boltjournal: entry out of order")
	// ErrTampered is returned when stored bytes no longer match the chain.
	ErrTampered = errors.New("boltjournal: chain verification failed")
)

// body is the hashed part of a stored entry.
type body struct {
	Seq       uint64 `cbor:"1,keyasint"`
	Handle    string `cbor:"2,keyasint"`
	Kind      string `cbor:"3,keyasint"`
	Sender    string `cbor:"4,keyasint"`
	Grantee   string `cbor:"5,keyasint,omitempty"`
	Hash      string `cbor:"6,keyasint"`
	Status    string `cbor:"7,keyasint"`
	Reason    string `cbor:"8,keyasint,omitempty"`
	Timestamp int64  `cbor:"9,keyasint"`
	Prev      []byte `cbor:"10,keyasint"`
}

// envelope is what bbolt stores under the sequence key.
type envelope struct {
	Body []byte `cbor:"1,keyasint"`
	Sum  []byte `cbor:"2,keyasint"`
}

// Journal implements chain.Journal on top of bbolt.
type Journal struct {
	db *bbolt.DB
}

// Open opens or creates the journal at path. The parent directory is
// created if it does not exist.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("boltjournal: create directory: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("boltjournal: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketEntries, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("boltjournal: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error { return j.db.Close() }

func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}

// Append durably adds e to the end of the log.
func (j *Journal) Append(e ledger.Entry) error {
	return j.db.Update(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		var height uint64
		if raw := meta.Get(keyHeight); raw != nil {
			height = binary.BigEndian.Uint64(raw)
		}
		if e.Seq != height+1 {
			return fmt.Errorf("%w: got %d, want %d", ErrOutOfOrder, e.Seq, height+1)
		}

		b := body{
			Seq:       e.Seq,
			Handle:    string(e.Handle),
			Kind:      string(e.Tx.Kind),
			Sender:    e.Tx.Sender,
			Grantee:   e.Tx.Grantee,
			Hash:      e.Tx.Hash,
			Status:    string(e.Status),
			Reason:    e.Reason,
			Timestamp: e.Timestamp.UnixNano(),
			Prev:      append([]byte(nil), meta.Get(keyHead)...),
		}
		raw, err := marshal(b)
		if err != nil {
			return fmt.Errorf("boltjournal: encode entry: %w", err)
		}
		sum := blake3.Sum256(raw)
		env, err := marshal(envelope{Body: raw, Sum: sum[:]})
		if err != nil {
			return fmt.Errorf("boltjournal: encode envelope: %w", err)
		}

		if err := tx.Bucket(bucketEntries).Put(seqKey(e.Seq), env); err != nil {
			return fmt.Errorf("boltjournal: put entry: %w", err)
		}
		if err := meta.Put(keyHead, sum[:]); err != nil {
			return fmt.Errorf("boltjournal: put head: %w", err)
		}
		return meta.Put(keyHeight, seqKey(e.Seq))
	})
}

// Replay verifies the chain and yields every entry in sequence order.
// Verification failure stops the replay with ErrTampered.
func (j *Journal) Replay(fn func(ledger.Entry) error) error {
	return j.db.View(func(tx *bbolt.Tx) error {
		return walk(tx, fn)
	})
}

// Verify walks the whole chain and returns its height.
func (j *Journal) Verify() (uint64, error) {
	var height uint64
	err := j.db.View(func(tx *bbolt.Tx) error {
		return walk(tx, func(e ledger.Entry) error {
			height = e.Seq
			return nil
		})
	})
	return height, err
}

func walk(tx *bbolt.Tx, fn func(ledger.Entry) error) error {
	var prev []byte
	var want uint64 = 1

	c := tx.Bucket(bucketEntries).Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var env envelope
		if err := unmarshal(v, &env); err != nil {
			return fmt.Errorf("%w: entry %x: %v", ErrTampered, k, err)
		}
		sum := blake3.Sum256(env.Body)
		if !bytes.Equal(sum[:], env.Sum) {
			return fmt.Errorf("%w: entry %x: hash mismatch", ErrTampered, k)
		}

		var b body
		if err := unmarshal(env.Body, &b); err != nil {
			return fmt.Errorf("%w: entry %x: %v", ErrTampered, k, err)
		}
		if b.Seq != want || binary.BigEndian.Uint64(k) != b.Seq {
			return fmt.Errorf("%w: entry %x: sequence %d, want %d", ErrTampered, k, b.Seq, want)
		}
		if !bytes.Equal(b.Prev, prev) {
			return fmt.Errorf("%w: entry %d: broken link", ErrTampered, b.Seq)
		}

		if err := fn(b.entry()); err != nil {
			return err
		}
		prev = env.Sum
		want++
	}

	head := tx.Bucket(bucketMeta).Get(keyHead)
	if !bytes.Equal(head, prev) {
		return fmt.Errorf("%w: head does not match last entry", ErrTampered)
	}
	return nil
}

func (b body) entry() ledger.Entry {
	return ledger.Entry{
		Seq:    b.Seq,
		Handle: ledger.Handle(b.Handle),
		Tx: ledger.Transaction{
			Kind:    ledger.Kind(b.Kind),
			Sender:  b.Sender,
			Grantee: b.Grantee,
			Hash:    b.Hash,
		},
		Status:    ledger.Status(b.Status),
		Reason:    b.Reason,
		Timestamp: time.Unix(0, b.Timestamp).UTC(),
	}
}
