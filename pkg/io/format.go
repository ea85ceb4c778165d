package io

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/matzehuels/pkgcheck/pkg/errors"
)

// Kind identifies which artifact a file holds.
type Kind byte

const (
	KindGraph    Kind = 'G'
	KindProblems Kind = 'P'
)

func (k Kind) String() string {
	switch k {
	case KindGraph:
		return "graph"
	case KindProblems:
		return "problems"
	}
	return "unknown"
}

// Schema is the payload schema version written by this package.
const Schema uint16 = 1

// HeaderSize is the encoded size of a [Header].
const HeaderSize = 32

const codecZstdCBOR byte = 1

var magic = [4]byte{'P', 'K', 'C', 'K'}

// Header precedes every artifact payload.
type Header struct {
	Kind   Kind
	Codec  byte
	Schema uint16
	// Run identifies the analysis run that wrote the artifact.
	Run uuid.UUID
	// Sum is the xxhash64 of the compressed payload.
	Sum uint64
}

func (h Header) marshal() []byte {
	b := make([]byte, HeaderSize)
	copy(b[0:4], magic[:])
	b[4] = byte(h.Kind)
	b[5] = h.Codec
	binary.BigEndian.PutUint16(b[6:8], h.Schema)
	copy(b[8:24], h.Run[:])
	binary.BigEndian.PutUint64(b[24:32], h.Sum)
	return b
}

// ReadHeader reads and validates the header of an artifact of the given
// kind.
func ReadHeader(r io.Reader, kind Kind) (Header, error) {
	var b [HeaderSize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return Header{}, errors.Wrap(errors.ErrCodePersistence, err, "read %s header", kind)
	}
	if !bytes.Equal(b[0:4], magic[:]) {
		return Header{}, errors.New(errors.ErrCodePersistence, "not a pkgcheck artifact (magic %q)", b[0:4])
	}
	h := Header{
		Kind:   Kind(b[4]),
		Codec:  b[5],
		Schema: binary.BigEndian.Uint16(b[6:8]),
		Sum:    binary.BigEndian.Uint64(b[24:32]),
	}
	copy(h.Run[:], b[8:24])

	if h.Kind != kind {
		return Header{}, errors.New(errors.ErrCodePersistence, "artifact holds %s, want %s", h.Kind, kind)
	}
	if h.Schema != Schema {
		return Header{}, errors.New(errors.ErrCodeIncompatibleSchema,
			"%s artifact has schema %d, this build reads schema %d; rerun data run", kind, h.Schema, Schema)
	}
	if h.Codec != codecZstdCBOR {
		return Header{}, errors.New(errors.ErrCodePersistence, "unknown codec %d", h.Codec)
	}
	return h, nil
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(err)
	}
	decMode, err = cbor.DecOptions{
		MaxArrayElements: math.MaxInt32,
		MaxMapPairs:      math.MaxInt32,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// writeArtifact encodes v and writes header plus payload to w. It returns
// the number of bytes written.
func writeArtifact(w io.Writer, kind Kind, run uuid.UUID, v any) (int, error) {
	raw, err := encMode.Marshal(v)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodePersistence, err, "encode %s", kind)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "zstd encoder")
	}
	payload := enc.EncodeAll(raw, nil)
	_ = enc.Close()

	h := Header{Kind: kind, Codec: codecZstdCBOR, Schema: Schema, Run: run, Sum: xxhash.Sum64(payload)}
	n, err := w.Write(h.marshal())
	if err == nil {
		var m int
		m, err = w.Write(payload)
		n += m
	}
	if err != nil {
		return n, errors.Wrap(errors.ErrCodePersistence, err, "write %s", kind)
	}
	return n, nil
}

// readArtifact reads an artifact of kind from r, verifies it and decodes
// the payload into v. It returns the header and the total size read.
func readArtifact(r io.Reader, kind Kind, v any) (Header, int, error) {
	h, err := ReadHeader(r, kind)
	if err != nil {
		return Header{}, 0, err
	}
	payload, err := io.ReadAll(r)
	if err != nil {
		return h, 0, errors.Wrap(errors.ErrCodePersistence, err, "read %s payload", kind)
	}
	size := HeaderSize + len(payload)
	if sum := xxhash.Sum64(payload); sum != h.Sum {
		return h, size, errors.New(errors.ErrCodePersistence, "%s checksum mismatch: %016x != %016x", kind, sum, h.Sum)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return h, size, errors.Wrap(errors.ErrCodeInternal, err, "zstd decoder")
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(payload, nil)
	if err != nil {
		return h, size, errors.Wrap(errors.ErrCodePersistence, err, "decompress %s", kind)
	}
	if err := decMode.Unmarshal(raw, v); err != nil {
		return h, size, errors.Wrap(errors.ErrCodePersistence, err, "decode %s", kind)
	}
	return h, size, nil
}
