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

Package alphabet implements the fixed 26-letter uppercase alphabet that all
character ciphers operate over, along with the modulo arithmetic, character
shifting, text cleaning, and fixed-width grouping helpers shared by the
cipher variants.

All functions are pure; none retain or mutate state.

*/
package alphabet

import (
	"strings"

	"github.com/Psiphon-Labs/clack/clack/common/errors"
)

// Letters is the ordered symbol set. Every position index is in
// [0, len(Letters)) and all wraparound arithmetic is modulo len(Letters).
const Letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Index returns the alphabet position of c, or -1 when c is not an
// alphabet symbol.
func Index(c byte) int {
	if c < 'A' || c > 'Z' {
		return -1
	}
	return int(c - 'A')
}

// Clean trims the input, uppercases it, and strips every character outside
// the alphabet. The empty string passes through unchanged.
func Clean(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	var cleaned strings.Builder
	cleaned.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			cleaned.WriteByte(s[i])
		}
	}
	return cleaned.String()
}

// Mod is the true mathematical modulo operator: the result is always in
// [0, modulus), even for negative n. Use instead of Go's "%" operator when
// shifting leftward.
func Mod(n, modulus int) (int, error) {
	if modulus < 1 {
		return 0, errors.TraceNew("modulus cannot be < 1")
	}
	return ((n % modulus) + modulus) % modulus, nil
}

// Shift returns the alphabet symbol n positions past c, with wraparound at
// either end. Negative values shift left. A shift of 0 returns c.
func Shift(c byte, n int) (byte, error) {
	pos := Index(c)
	if pos < 0 {
		return 0, errors.Tracef("character %q not in alphabet", string(c))
	}
	// The modulus is len(Letters), a constant >= 1, so Mod cannot fail.
	shifted, _ := Mod(pos+n, len(Letters))
	return Letters[shifted], nil
}

// ShiftString maps Shift over every character of s.
func ShiftString(s string, n int) (string, error) {
	shifted := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c, err := Shift(s[i], n)
		if err != nil {
			return "", errors.Trace(err)
		}
		shifted[i] = c
	}
	return string(shifted), nil
}

// Group reformats s into groups of n non-space characters, with groups
// separated by a single space. The last group may have fewer than n
// characters. The empty string passes through unchanged.
func Group(s string, n int) (string, error) {
	if n < 1 {
		return "", errors.TraceNew("groups must have 1 or more letters")
	}
	if len(s) == 0 {
		return s, nil
	}
	var grouped strings.Builder
	grouped.Grow(len(s) + len(s)/n)
	count := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			continue
		}
		if count > 0 && count%n == 0 {
			grouped.WriteByte(' ')
		}
		grouped.WriteByte(s[i])
		count++
	}
	return grouped.String(), nil
}
