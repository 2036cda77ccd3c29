/*
 * Copyright (c) 2025, Psiphon Inc.
 * All rights reserved.
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

package cipher

import (
	"crypto/sha256"
	"encoding/binary"
	"io"
	"math/bits"
	"math/rand"

	"github.com/Psiphon-Labs/clack/clack/alphabet"
	"github.com/Psiphon-Labs/clack/clack/common/errors"
	"github.com/cespare/xxhash"
	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/hkdf"
)

// Keystream is a seeded, deterministic pseudo-random source of alphabet
// shift values. The seed is expanded with a HKDF into a chacha20 key, and
// the chacha20 key stream is drawn through a math/rand adapter; as such
// the entire output sequence is fixed at construction, before any other
// operation, and depends only on the seed, never on wall-clock time. Two
// Keystreams constructed from bit-identical seeds produce bit-identical
// output sequences when drawn the same number of times.
//
// The only draw operation is Next, which is not idempotent and has no
// rewind; a Keystream has no addressable position. A Keystream is an
// owned, sequential resource: it is not safe for concurrent use, and
// callers are responsible for strictly ordering draws.
type Keystream struct {
	rand       *rand.Rand
	streamKey  []byte
	stream     *chacha20.Cipher
	streamUsed uint64
	rekeyCount uint64
}

// NewKeystream creates a Keystream seeded with the given value. Equal
// seeds produce equal streams.
func NewKeystream(seed int64) *Keystream {
	var seedBytes [8]byte
	binary.BigEndian.PutUint64(seedBytes[:], uint64(seed))
	streamKey := make([]byte, chacha20.KeySize)
	_, err := io.ReadFull(
		hkdf.New(sha256.New, seedBytes[:], nil, []byte("clack-keystream")),
		streamKey)
	if err != nil {
		// The HKDF read cannot fail for an output shorter than its
		// maximum expansion, so panic in this unexpected case.
		panic(errors.Trace(err))
	}
	k := &Keystream{
		streamKey: streamKey,
	}
	k.rekey()
	k.rand = rand.New(k)
	return k
}

// DeriveSeed maps a string key to a 64-bit Keystream seed. The first 32
// characters are hashed into the low-order half and any remaining
// characters are hashed into the high-order half, bit-reversed; the two
// halves are combined with exclusive-or. The derivation is deterministic,
// so two endpoints sharing a key phrase derive the same seed.
func DeriveSeed(key string) int64 {
	var low, high uint64
	if len(key) <= 32 {
		low = uint64(uint32(xxhash.Sum64String(key)))
	} else {
		low = uint64(uint32(xxhash.Sum64String(key[:32])))
		high = uint64(uint32(xxhash.Sum64String(key[32:])))
	}
	return int64(low ^ bits.Reverse64(high))
}

// Next draws the next shift value in [0, 26). Synchronization between two
// communicating Keystreams is entirely implicit in call order and count:
// one draw per processed character, same order, no skips, no replays.
func (k *Keystream) Next() int {
	return k.rand.Intn(len(alphabet.Letters))
}

func (k *Keystream) rekey() {

	// chacha20 has a stream limit of 2^38-64 bytes. Before that limit is
	// reached, the cipher must be rekeyed. To rekey without changing the
	// seed, a counter is used for the nonce.
	var nonce [chacha20.NonceSize]byte
	binary.BigEndian.PutUint64(nonce[0:8], k.rekeyCount)

	stream, err := chacha20.NewUnauthenticatedCipher(k.streamKey, nonce[:])
	if err != nil {
		// The only possible errors are invalid key or nonce size, and
		// the correct sizes are used here, so there should never be an
		// error. Panic in this unexpected case.
		panic(errors.Trace(err))
	}
	k.stream = stream
	k.rekeyCount += 1
	k.streamUsed = 0
}

func (k *Keystream) read(b []byte) {
	if k.streamUsed+uint64(len(b)) >= uint64(1<<38-64) {
		k.rekey()
	}
	for i := range b {
		b[i] = 0
	}
	k.stream.XORKeyStream(b, b)
	k.streamUsed += uint64(len(b))
}

// Uint64 returns the next 64 bits of the stream. Uint64, Int63, and Seed
// make Keystream a math/rand.Source64.
func (k *Keystream) Uint64() uint64 {
	var b [8]byte
	k.read(b[:])
	return binary.BigEndian.Uint64(b[:])
}

// Int63 is equivalent to math/rand.Int63.
func (k *Keystream) Int63() int64 {
	return int64(k.Uint64() & (1<<63 - 1))
}

// Seed must exist in order to use a Keystream as a math/rand.Source.
// Reseeding is not supported and the call is ignored.
func (k *Keystream) Seed(_ int64) {
}
