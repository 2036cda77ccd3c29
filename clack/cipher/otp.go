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

// PseudoOneTimePad is a classical one-time pad whose pad is drawn from a
// seeded Keystream rather than true randomness. Two instances constructed
// from the same key stay synchronized as long as both sides perform
// exactly matching sequences of draws: one draw per processed character,
// in the same order. There is no recovery mechanism after the two sides
// desynchronize.
type PseudoOneTimePad struct {
	keystream *Keystream
}

// NewPseudoOneTimePadSeed constructs a pseudo one-time pad from a raw
// 64-bit seed.
func NewPseudoOneTimePadSeed(seed int64) *PseudoOneTimePad {
	return &PseudoOneTimePad{keystream: NewKeystream(seed)}
}

// NewPseudoOneTimePad constructs a pseudo one-time pad from a key phrase,
// which should be memorable to the user but not guessable to others. The
// phrase is mapped to a seed with DeriveSeed, so any two instances built
// from the same phrase replay the same keystream regardless of when each
// was constructed.
func NewPseudoOneTimePad(key string) *PseudoOneTimePad {
	return NewPseudoOneTimePadSeed(DeriveSeed(key))
}

func (c *PseudoOneTimePad) Prepare(cleartext string) string {
	return alphabet.Clean(cleartext)
}

func (c *PseudoOneTimePad) Encrypt(preptext string) (string, error) {
	ciphertext, err := c.transform(preptext, 1)
	if err != nil {
		return "", errors.Trace(err)
	}
	return ciphertext, nil
}

func (c *PseudoOneTimePad) Decrypt(ciphertext string) (string, error) {
	preptext, err := c.transform(ciphertext, -1)
	if err != nil {
		return "", errors.Trace(err)
	}
	return preptext, nil
}

// transform shifts each character by the next keystream draw, forward for
// encrypt and backward for decrypt. A failure partway through has already
// consumed draws and leaves this instance out of step with its peer.
func (c *PseudoOneTimePad) transform(s string, direction int) (string, error) {
	transformed := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		shifted, err := alphabet.Shift(s[i], direction*c.keystream.Next())
		if err != nil {
			return "", errors.Trace(err)
		}
		transformed[i] = shifted
	}
	return string(transformed), nil
}
