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

/*

Package cipher implements the negotiable character-substitution ciphers
used to encrypt chat text, and the Manager that owns the active cipher
configuration.

The cipher suite is pedagogical, simulated security only: it is not
designed to resist real cryptanalysis, and the pseudo one-time pad draws
its keystream from a deterministic seed derived from a shared key rather
than exchanged randomness.

Every cipher is built once from a (kind, key) pair and is immutable
thereafter; changing the key or kind always constructs a new instance.

*/
package cipher

import (
	"strings"

	"github.com/Psiphon-Labs/clack/clack/common/errors"
)

// Cipher is the three-operation contract shared by all cipher variants,
// called in the order Prepare, Encrypt, Decrypt. For any x that is a legal
// output of Prepare, Decrypt(Encrypt(x)) == x. Prepare is safe to call on
// arbitrary text; Encrypt and Decrypt assume already-prepared input and
// may fail on malformed input.
type Cipher interface {

	// Prepare sanitizes cleartext into a form safe for Encrypt.
	Prepare(cleartext string) string

	// Encrypt transforms prepared text into ciphertext.
	Encrypt(preptext string) (string, error)

	// Decrypt recovers the prepared text -- not the original cleartext --
	// from ciphertext.
	Decrypt(ciphertext string) (string, error)
}

// Kind names a supported cipher variant. The values are the canonical
// identifiers used in option commands and replies.
type Kind string

const (
	CIPHER_NULL                Kind = "NULL_CIPHER"
	CIPHER_CAESAR              Kind = "CAESAR_CIPHER"
	CIPHER_PLAYFAIR            Kind = "PLAYFAIR_CIPHER"
	CIPHER_PSEUDO_ONE_TIME_PAD Kind = "PSEUDO_ONE_TIME_PAD"
	CIPHER_VIGNERE             Kind = "VIGNERE_CIPHER"
)

// Kinds returns all supported cipher kinds.
func Kinds() []Kind {
	return []Kind{
		CIPHER_CAESAR,
		CIPHER_NULL,
		CIPHER_PLAYFAIR,
		CIPHER_PSEUDO_ONE_TIME_PAD,
		CIPHER_VIGNERE,
	}
}

// ParseKind maps a case-insensitive cipher name to its Kind.
func ParseKind(name string) (Kind, error) {
	kind := Kind(strings.ToUpper(strings.TrimSpace(name)))
	switch kind {
	case CIPHER_NULL,
		CIPHER_CAESAR,
		CIPHER_PLAYFAIR,
		CIPHER_PSEUDO_ONE_TIME_PAD,
		CIPHER_VIGNERE:
		return kind, nil
	}
	return "", errors.Tracef("unknown cipher name: %s", name)
}

// New constructs a cipher of the given kind with the given key. New is the
// single dispatch point over the closed set of variants; an error indicates
// the (kind, key) pair cannot form a valid cipher.
func New(kind Kind, key string) (Cipher, error) {
	switch kind {
	case CIPHER_NULL:
		return NewNull(key), nil
	case CIPHER_CAESAR:
		c, err := NewCaesar(key)
		if err != nil {
			return nil, errors.Trace(err)
		}
		return c, nil
	case CIPHER_PLAYFAIR:
		return NewPlayfair(key), nil
	case CIPHER_PSEUDO_ONE_TIME_PAD:
		return NewPseudoOneTimePad(key), nil
	case CIPHER_VIGNERE:
		c, err := NewVignere(key)
		if err != nil {
			return nil, errors.Trace(err)
		}
		return c, nil
	}
	return nil, errors.Tracef("unknown cipher kind: %s", kind)
}
