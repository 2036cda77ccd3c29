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
	"github.com/Psiphon-Labs/clack/clack/alphabet"
	"github.com/Psiphon-Labs/clack/clack/common/errors"
)

// Vignere is the classical Vignere cipher: the shift applied to each
// character cycles through the alphabet positions of the key's letters.
type Vignere struct {
	shifts []int
}

// NewVignere constructs a Vignere cipher with the given key. The key must
// be non-empty and consist entirely of uppercase alphabet letters; spaces,
// lowercase, or punctuation in the key are rejected rather than silently
// cleaned.
func NewVignere(key string) (*Vignere, error) {
	if key == "" {
		return nil, errors.TraceNew("key is empty")
	}
	if alphabet.Clean(key) != key {
		return nil, errors.TraceNew("key contains a non-alphabet character")
	}
	shifts := make([]int, len(key))
	for i := 0; i < len(key); i++ {
		shifts[i] = alphabet.Index(key[i])
	}
	return &Vignere{shifts: shifts}, nil
}

func (c *Vignere) Prepare(cleartext string) string {
	return alphabet.Clean(cleartext)
}

func (c *Vignere) Encrypt(preptext string) (string, error) {
	ciphertext, err := c.transform(preptext, 1)
	if err != nil {
		return "", errors.Trace(err)
	}
	return ciphertext, nil
}

func (c *Vignere) Decrypt(ciphertext string) (string, error) {
	preptext, err := c.transform(ciphertext, -1)
	if err != nil {
		return "", errors.Trace(err)
	}
	return preptext, nil
}

// transform walks the key's shifts in cyclic order, indexed by position
// modulo the key length. Both sides of a conversation walk the key in the
// same order, so encrypt and decrypt at the same position use the same
// shift amount with opposite signs.
func (c *Vignere) transform(s string, direction int) (string, error) {
	transformed := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		shifted, err := alphabet.Shift(
			s[i], direction*c.shifts[i%len(c.shifts)])
		if err != nil {
			return "", errors.Trace(err)
		}
		transformed[i] = shifted
	}
	return string(transformed), nil
}
