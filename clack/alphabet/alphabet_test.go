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

package alphabet

import (
	"testing"
)

func TestClean(t *testing.T) {

	testCases := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"a1! B", "AB"},
		{"  hello, WORLD  ", "HELLOWORLD"},
		{"ALREADYCLEAN", "ALREADYCLEAN"},
		{"123 !@#", ""},
	}

	for _, testCase := range testCases {
		t.Run(testCase.input, func(t *testing.T) {
			cleaned := Clean(testCase.input)
			if cleaned != testCase.expected {
				t.Fatalf("unexpected Clean result: %q != %q",
					cleaned, testCase.expected)
			}
		})
	}
}

func TestMod(t *testing.T) {

	testCases := []struct {
		n        int
		modulus  int
		expected int
		isError  bool
	}{
		{-1, 26, 25, false},
		{5, 26, 5, false},
		{26, 26, 0, false},
		{-27, 26, 25, false},
		{0, 1, 0, false},
		{5, 0, 0, true},
		{5, -26, 0, true},
	}

	for _, testCase := range testCases {
		result, err := Mod(testCase.n, testCase.modulus)
		if testCase.isError {
			if err == nil {
				t.Fatalf("Mod(%d, %d): unexpected success",
					testCase.n, testCase.modulus)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Mod(%d, %d) failed: %s",
				testCase.n, testCase.modulus, err)
		}
		if result != testCase.expected {
			t.Fatalf("Mod(%d, %d): %d != %d",
				testCase.n, testCase.modulus, result, testCase.expected)
		}
	}
}

func TestShift(t *testing.T) {

	testCases := []struct {
		c        byte
		n        int
		expected byte
		isError  bool
	}{
		{'A', 1, 'B', false},
		{'Z', 1, 'A', false},
		{'A', -1, 'Z', false},
		{'M', 0, 'M', false},
		{'A', 26, 'A', false},
		{'A', 53, 'B', false},
		{'a', 1, 0, true},
		{'!', 1, 0, true},
	}

	for _, testCase := range testCases {
		shifted, err := Shift(testCase.c, testCase.n)
		if testCase.isError {
			if err == nil {
				t.Fatalf("Shift(%q, %d): unexpected success",
					string(testCase.c), testCase.n)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Shift(%q, %d) failed: %s",
				string(testCase.c), testCase.n, err)
		}
		if shifted != testCase.expected {
			t.Fatalf("Shift(%q, %d): %q != %q",
				string(testCase.c), testCase.n,
				string(shifted), string(testCase.expected))
		}
	}
}

func TestShiftString(t *testing.T) {

	shifted, err := ShiftString("HELLO", 3)
	if err != nil {
		t.Fatalf("ShiftString failed: %s", err)
	}
	if shifted != "KHOOR" {
		t.Fatalf("unexpected shift: %q", shifted)
	}

	unshifted, err := ShiftString(shifted, -3)
	if err != nil {
		t.Fatalf("ShiftString failed: %s", err)
	}
	if unshifted != "HELLO" {
		t.Fatalf("unexpected unshift: %q", unshifted)
	}

	empty, err := ShiftString("", 7)
	if err != nil {
		t.Fatalf("ShiftString failed: %s", err)
	}
	if empty != "" {
		t.Fatalf("unexpected non-empty result: %q", empty)
	}

	_, err = ShiftString("HEL LO", 3)
	if err == nil {
		t.Fatalf("unexpected success shifting unclean text")
	}
}

func TestGroup(t *testing.T) {

	testCases := []struct {
		input    string
		n        int
		expected string
		isError  bool
	}{
		{"ABCDE", 2, "AB CD E", false},
		{"ABCD", 2, "AB CD", false},
		{"ABCDEF", 3, "ABC DEF", false},
		{"AB", 5, "AB", false},
		{"", 3, "", false},
		{"ABCDE", 0, "", true},
		{"ABCDE", -1, "", true},
	}

	for _, testCase := range testCases {
		grouped, err := Group(testCase.input, testCase.n)
		if testCase.isError {
			if err == nil {
				t.Fatalf("Group(%q, %d): unexpected success",
					testCase.input, testCase.n)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Group(%q, %d) failed: %s",
				testCase.input, testCase.n, err)
		}
		if grouped != testCase.expected {
			t.Fatalf("Group(%q, %d): %q != %q",
				testCase.input, testCase.n, grouped, testCase.expected)
		}
	}
}
