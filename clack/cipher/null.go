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

// Null is the null cipher: all three operations are the identity function,
// passing all bytes through unchanged.
type Null struct {
}

// NewNull constructs a Null cipher. The key is accepted for interface
// uniformity and ignored.
func NewNull(_ string) *Null {
	return &Null{}
}

func (c *Null) Prepare(cleartext string) string {
	return cleartext
}

func (c *Null) Encrypt(preptext string) (string, error) {
	return preptext, nil
}

func (c *Null) Decrypt(ciphertext string) (string, error) {
	return ciphertext, nil
}
