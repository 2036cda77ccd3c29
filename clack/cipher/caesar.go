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

// Caesar is the classical Caesar cipher: every character is shifted a
// fixed number of positions in the alphabet, with wraparound.
type Caesar struct {
	shift int
}

// NewCaesarShift constructs a Caesar cipher that shifts each letter the
// given number of positions to the right, modulo the alphabet length.
// Negative values shift left; a value of 0 yields the null cipher over
// cleaned text.
func NewCaesarShift(shift int) *Caesar {
	return &Caesar{shift: shift % len(alphabet.Letters)}
}

// NewCaesar constructs a Caesar cipher whose shift is the alphabet
// position of the key's first character. The first character of the raw,
// uncleaned key must itself be an uppercase alphabet letter; lowercase or
// non-alphabet leading characters fail construction.
func NewCaesar(key string) (*Caesar, error) {
	if key == "" {
		return nil, errors.TraceNew("need a non-empty key")
	}
	shift := alphabet.Index(key[0])
	if shift < 0 {
		return nil, errors.TraceNew("first character of key not in alphabet")
	}
	return &Caesar{shift: shift}, nil
}

func (c *Caesar) Prepare(cleartext string) string {
	return alphabet.Clean(cleartext)
}

func (c *Caesar) Encrypt(preptext string) (string, error) {
	ciphertext, err := alphabet.ShiftString(preptext, c.shift)
	if err != nil {
		return "", errors.Trace(err)
	}
	return ciphertext, nil
}

func (c *Caesar) Decrypt(ciphertext string) (string, error) {
	preptext, err := alphabet.ShiftString(ciphertext, -c.shift)
	if err != nil {
		return "", errors.Trace(err)
	}
	return preptext, nil
}
