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
	"testing"
	"time"
)

func TestPseudoOneTimePadConversation(t *testing.T) {

	// Two instances built from the same key stay synchronized across an
	// alternating conversation, provided each side consumes keystream in
	// the same order.

	// Construction time must not influence the keystream, so instances
	// built well apart still synchronize.
	alice := NewPseudoOneTimePad("SHAREDSECRET")
	time.Sleep(1 * time.Second)
	bob := NewPseudoOneTimePad("SHAREDSECRET")

	cleartexts := []string{
		"Call me Ishmael",
		"Some years ago never mind how long precisely",
		"",
		"X",
		"having little or no money in my purse",
	}

	for i, cleartext := range cleartexts {

		sender, receiver := alice, bob
		if i%2 == 1 {
			sender, receiver = bob, alice
		}

		preptext := sender.Prepare(cleartext)

		ciphertext, err := sender.Encrypt(preptext)
		if err != nil {
			t.Fatalf("Encrypt failed: %v", err)
		}

		decrypted, err := receiver.Decrypt(ciphertext)
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}

		if decrypted != preptext {
			t.Fatalf("desynchronized at message %d: %q != %q",
				i, decrypted, preptext)
		}
	}
}

func TestPseudoOneTimePadSeed(t *testing.T) {

	// The seed constructor and the key constructor produce the same
	// keystream when the seed matches the key derivation.

	fromKey := NewPseudoOneTimePad("KEY")
	fromSeed := NewPseudoOneTimePadSeed(DeriveSeed("KEY"))

	ciphertext, err := fromKey.Encrypt("SYNCHRONIZED")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	cleartext, err := fromSeed.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if cleartext != "SYNCHRONIZED" {
		t.Fatalf("unexpected cleartext: %s", cleartext)
	}
}

func TestPseudoOneTimePadPrepare(t *testing.T) {

	instance := NewPseudoOneTimePad("KEY")

	preptext := instance.Prepare("Call me Ishmael!")
	if preptext != "CALLMEISHMAEL" {
		t.Fatalf("unexpected preptext: %s", preptext)
	}

	// Prepare is idempotent and draws no keystream.
	if instance.Prepare(preptext) != preptext {
		t.Fatalf("Prepare not idempotent")
	}
}
