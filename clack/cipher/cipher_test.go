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
)

func TestParseKind(t *testing.T) {

	testCases := []struct {
		name        string
		expectedErr bool
		expected    Kind
	}{
		{"NULL_CIPHER", false, CIPHER_NULL},
		{"caesar_cipher", false, CIPHER_CAESAR},
		{" Vignere_Cipher ", false, CIPHER_VIGNERE},
		{"PLAYFAIR_CIPHER", false, CIPHER_PLAYFAIR},
		{"pseudo_one_time_pad", false, CIPHER_PSEUDO_ONE_TIME_PAD},
		{"ROT13", true, ""},
		{"", true, ""},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			kind, err := ParseKind(testCase.name)
			if testCase.expectedErr {
				if err == nil {
					t.Fatalf("unexpected success: %s", kind)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKind failed: %v", err)
			}
			if kind != testCase.expected {
				t.Fatalf("unexpected kind: %s", kind)
			}
		})
	}
}

func TestNewDispatch(t *testing.T) {

	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			instance, err := New(kind, "KEY")
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if instance == nil {
				t.Fatalf("unexpected nil cipher")
			}
		})
	}

	_, err := New(Kind("ROT13"), "KEY")
	if err == nil {
		t.Fatalf("unexpected success")
	}
}

func TestNullIdentity(t *testing.T) {

	instance := NewNull("ignored")

	inputs := []string{"", "Hello, World!", "  mixed Case 123  "}

	for _, input := range inputs {
		if instance.Prepare(input) != input {
			t.Fatalf("Prepare modified input")
		}
		ciphertext, err := instance.Encrypt(input)
		if err != nil {
			t.Fatalf("Encrypt failed: %v", err)
		}
		if ciphertext != input {
			t.Fatalf("Encrypt modified input")
		}
		cleartext, err := instance.Decrypt(input)
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if cleartext != input {
			t.Fatalf("Decrypt modified input")
		}
	}
}

// TestRoundTrip checks that, for each cipher kind, a fresh decrypting
// instance recovers prepared text encrypted by a fresh encrypting
// instance. Separate instances model the two ends of a conversation;
// this matters for the pseudo one-time pad, whose keystream advances
// with use.
func TestRoundTrip(t *testing.T) {

	cleartexts := []string{
		"The quick brown fox jumps over the lazy dog",
		"attack at dawn",
		"A",
		"",
	}

	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {

			for _, cleartext := range cleartexts {

				encrypter, err := New(kind, "KEY")
				if err != nil {
					t.Fatalf("New failed: %v", err)
				}
				decrypter, err := New(kind, "KEY")
				if err != nil {
					t.Fatalf("New failed: %v", err)
				}

				preptext := encrypter.Prepare(cleartext)

				ciphertext, err := encrypter.Encrypt(preptext)
				if err != nil {
					t.Fatalf("Encrypt failed: %v", err)
				}

				decrypted, err := decrypter.Decrypt(ciphertext)
				if err != nil {
					t.Fatalf("Decrypt failed: %v", err)
				}

				if decrypted != preptext {
					t.Fatalf(
						"round trip mismatch: %q != %q", decrypted, preptext)
				}
			}
		})
	}
}
