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

func TestCaesarKeys(t *testing.T) {

	// Only the first byte of the raw key determines the shift, and it
	// must be an uppercase letter.

	testCases := []struct {
		key         string
		expectedErr bool
	}{
		{"B", false},
		{"KEY", false},
		{"Zebra", false},
		{"", true},
		{" ", true},
		{"a", true},
		{" A", true},
		{"#A", true},
	}

	for _, testCase := range testCases {
		t.Run("key:"+testCase.key, func(t *testing.T) {
			_, err := NewCaesar(testCase.key)
			if testCase.expectedErr {
				if err == nil {
					t.Fatalf("unexpected success")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewCaesar failed: %v", err)
			}
		})
	}
}

func TestCaesarShift(t *testing.T) {

	instance, err := NewCaesar("B")
	if err != nil {
		t.Fatalf("NewCaesar failed: %v", err)
	}

	ciphertext, err := instance.Encrypt("A")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if ciphertext != "B" {
		t.Fatalf("unexpected ciphertext: %s", ciphertext)
	}

	ciphertext, err = instance.Encrypt("HELLOWORLD")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if ciphertext != "IFMMPXPSME" {
		t.Fatalf("unexpected ciphertext: %s", ciphertext)
	}

	cleartext, err := instance.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if cleartext != "HELLOWORLD" {
		t.Fatalf("unexpected cleartext: %s", cleartext)
	}

	// Characters outside the alphabet are rejected rather than passed
	// through.
	_, err = instance.Encrypt("HELLO WORLD")
	if err == nil {
		t.Fatalf("unexpected success")
	}
}

func TestCaesarZeroShift(t *testing.T) {

	instance := NewCaesarShift(0)

	ciphertext, err := instance.Encrypt("UNCHANGED")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if ciphertext != "UNCHANGED" {
		t.Fatalf("unexpected ciphertext: %s", ciphertext)
	}
}

func TestCaesarPrepare(t *testing.T) {

	instance, err := NewCaesar("D")
	if err != nil {
		t.Fatalf("NewCaesar failed: %v", err)
	}

	preptext := instance.Prepare("  hello, World! 42 ")
	if preptext != "HELLOWORLD" {
		t.Fatalf("unexpected preptext: %s", preptext)
	}
}
