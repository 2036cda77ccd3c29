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
	"slices"
	"strings"

	"github.com/Psiphon-Labs/clack/clack/alphabet"
	"github.com/Psiphon-Labs/clack/clack/common/errors"
)

const (
	playfairSize   = 5
	playfairFiller = 'X'
	playfairPad    = 'Z'
)

// Playfair is the classical Playfair cipher, substituting digrams via a
// 5x5 matrix derived from the key. The letter J is merged into I to fit
// the 26-letter alphabet into 25 matrix positions.
type Playfair struct {

	// letters holds the 25 distinct matrix symbols in row-major order;
	// the symbol at index i occupies row i/5, column i%5.
	letters string
}

// NewPlayfair constructs a Playfair cipher. The key is cleaned before use,
// so it may contain arbitrary characters; an empty key is legal and yields
// a matrix in plain alphabet order. The matrix is built by scanning the
// cleaned key followed by the full alphabet, J mapped to I, deleting every
// letter after its first occurrence; the I/J merge guarantees exactly 25
// distinct symbols remain.
func NewPlayfair(key string) *Playfair {
	all := strings.ReplaceAll(
		alphabet.Clean(key)+alphabet.Letters, "J", "I")
	var seen [26]bool
	letters := make([]byte, 0, playfairSize*playfairSize)
	for i := 0; i < len(all); i++ {
		pos := all[i] - 'A'
		if !seen[pos] {
			seen[pos] = true
			letters = append(letters, all[i])
		}
	}
	return &Playfair{letters: string(letters)}
}

// Prepare cleans the text, maps J to I, inserts a filler X immediately
// after the first letter of any adjacent identical pair -- resuming
// pairing from the position after the inserted filler -- and finally pads
// with Z if the resulting length is odd.
func (c *Playfair) Prepare(cleartext string) string {
	s := []byte(strings.ReplaceAll(alphabet.Clean(cleartext), "J", "I"))
	for i := 0; i+1 < len(s); i += 2 {
		if s[i] == s[i+1] {
			s = slices.Insert(s, i+1, byte(playfairFiller))
		}
	}
	if len(s)%2 == 1 {
		s = append(s, playfairPad)
	}
	return string(s)
}

func (c *Playfair) Encrypt(preptext string) (string, error) {
	ciphertext, err := c.transform(preptext, 1)
	if err != nil {
		return "", errors.Trace(err)
	}
	return ciphertext, nil
}

func (c *Playfair) Decrypt(ciphertext string) (string, error) {
	preptext, err := c.transform(ciphertext, -1)
	if err != nil {
		return "", errors.Trace(err)
	}
	return preptext, nil
}

// transform encrypts (delta = 1) or decrypts (delta = -1) two characters
// at a time. The input must have even length and no identical-letter
// digram; Prepare eliminates both conditions, so hitting either here
// signals caller error.
func (c *Playfair) transform(s string, delta int) (string, error) {
	if len(s)%2 == 1 {
		return "", errors.TraceNew("odd-length input")
	}
	transformed := []byte(s)
	for i := 0; i < len(transformed); i += 2 {
		c0 := transformed[i]
		c1 := transformed[i+1]
		if c0 == c1 {
			return "", errors.TraceNew(
				"same-letter digram, cannot encrypt/decrypt")
		}
		p0 := strings.IndexByte(c.letters, c0)
		p1 := strings.IndexByte(c.letters, c1)
		if p0 < 0 || p1 < 0 {
			return "", errors.Tracef(
				"character %q not in matrix", string(transformed[i:i+2]))
		}
		r0, col0 := p0/playfairSize, p0%playfairSize
		r1, col1 := p1/playfairSize, p1%playfairSize
		switch {
		case r0 == r1:
			// The modulus is the constant matrix size, so Mod cannot fail.
			col0, _ = alphabet.Mod(col0+delta, playfairSize)
			col1, _ = alphabet.Mod(col1+delta, playfairSize)
		case col0 == col1:
			r0, _ = alphabet.Mod(r0+delta, playfairSize)
			r1, _ = alphabet.Mod(r1+delta, playfairSize)
		default:
			// Rectangle case: swap columns, keep rows. Self-inverse, so
			// encrypt and decrypt are identical here.
			col0, col1 = col1, col0
		}
		transformed[i] = c.letters[r0*playfairSize+col0]
		transformed[i+1] = c.letters[r1*playfairSize+col1]
	}
	return string(transformed), nil
}
