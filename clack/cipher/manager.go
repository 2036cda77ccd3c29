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
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/Psiphon-Labs/clack/clack/common/errors"
)

// DEFAULT_KEY is the key a Manager is constructed with.
const DEFAULT_KEY = "KEY"

// Option names a cipher setting that may be set or queried through an
// OptionCommand.
type Option string

const (
	OPTION_KEY    Option = "KEY"
	OPTION_NAME   Option = "NAME"
	OPTION_ENABLE Option = "ENABLE"
)

// ParseOption maps a case-insensitive option name to its Option.
func ParseOption(name string) (Option, error) {
	option := Option(strings.ToUpper(strings.TrimSpace(name)))
	switch option {
	case OPTION_KEY, OPTION_NAME, OPTION_ENABLE:
		return option, nil
	}
	return "", errors.Tracef("unknown option: %s", name)
}

// OptionCommand carries one setting to touch and an optional new value. A
// non-empty Value is a mutation request; an empty Value is a query for the
// current value.
type OptionCommand struct {
	Target Option
	Value  string
}

// Config is a cipher configuration. At every observable point, Kind and
// Key jointly describe a constructible cipher instance; a Manager never
// exposes a Config whose (Kind, Key) pair fails construction.
type Config struct {
	Enabled bool
	Kind    Kind
	Key     string
}

// Boolean synonyms accepted, case-insensitively, when enabling or
// disabling encryption.
var (
	trueSynonyms  = []string{"TRUE", "YES", "ON", "1"}
	falseSynonyms = []string{"FALSE", "NO", "OFF", "0"}
)

// Manager owns the active cipher configuration and the live Cipher
// instance built from it, and preps/encrypts/decrypts text using that
// instance.
//
// Updates follow a validate-then-commit discipline: a candidate instance
// is fully constructed from the proposed configuration in isolation, and
// only on success does it atomically replace the visible state; a failed
// update leaves the prior configuration and instance untouched.
//
// Each Manager must be used by exactly one logical conversation stream at
// a time: the active cipher may carry sequential keystream state whose
// draws must be strictly ordered to stay synchronized with the remote
// peer. The internal mutex makes configuration swaps atomic but cannot
// order keystream draws issued by concurrent callers.
type Manager struct {
	mutex  sync.Mutex
	config Config
	cipher Cipher
}

// NewManager creates a Manager with the default settings: disabled, null
// cipher, default key.
func NewManager() *Manager {
	return &Manager{
		config: Config{
			Enabled: false,
			Kind:    CIPHER_NULL,
			Key:     DEFAULT_KEY,
		},
		cipher: NewNull(DEFAULT_KEY),
	}
}

// NewManagerWithConfig creates a Manager with the given settings, failing
// when the (Kind, Key) pair cannot construct a cipher.
func NewManagerWithConfig(config Config) (*Manager, error) {
	instance, err := New(config.Kind, config.Key)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Manager{
		config: config,
		cipher: instance,
	}, nil
}

// commit builds a cipher instance from the candidate configuration and,
// only on success, replaces both the configuration and the instance.
// The caller must hold the mutex.
func (m *Manager) commit(candidate Config) error {
	instance, err := New(candidate.Kind, candidate.Key)
	if err != nil {
		return errors.Trace(err)
	}
	m.config = candidate
	m.cipher = instance
	return nil
}

// SetKey rebuilds the cipher with a new key, keeping the current kind. On
// failure nothing changes.
func (m *Manager) SetKey(key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	candidate := m.config
	candidate.Key = key
	return m.commit(candidate)
}

// SetCipherName rebuilds the cipher as a new kind, keeping the current
// key. On failure nothing changes.
func (m *Manager) SetCipherName(kind Kind) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	candidate := m.config
	candidate.Kind = kind
	return m.commit(candidate)
}

// SetOptions rebuilds the cipher from a new (kind, key) pair, keeping the
// current enabled flag. On failure nothing changes.
func (m *Manager) SetOptions(kind Kind, key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	candidate := m.config
	candidate.Kind = kind
	candidate.Key = key
	return m.commit(candidate)
}

// SetEnabled sets the enabled flag. The active cipher instance is
// unaffected.
func (m *Manager) SetEnabled(enabled bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.config.Enabled = enabled
}

// SetEnabledText sets the enabled flag from a case-insensitive boolean
// synonym: TRUE/YES/ON/1 or FALSE/NO/OFF/0. Any other value fails and
// leaves the flag unchanged.
func (m *Manager) SetEnabledText(value string) error {
	synonym := strings.ToUpper(strings.TrimSpace(value))
	if slices.Contains(trueSynonyms, synonym) {
		m.SetEnabled(true)
		return nil
	}
	if slices.Contains(falseSynonyms, synonym) {
		m.SetEnabled(false)
		return nil
	}
	return errors.Tracef("'%s' not a boolean synonym", value)
}

// Enabled returns the enabled flag.
func (m *Manager) Enabled() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.config.Enabled
}

// CipherName returns the active cipher kind.
func (m *Manager) CipherName() Kind {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.config.Kind
}

// Key returns the active key.
func (m *Manager) Key() string {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.config.Key
}

// Process queries or updates the option the command mentions. A non-empty
// value attempts the corresponding update; any failure is caught and
// reported as a "FAIL: <reason>. " prefix while the configuration retains
// its pre-call value. Whether the command is a query or an update, the
// reply reports the current -- possibly unchanged -- value in the form
// "option <TARGET> = <value>". Replies are plain text, intended for
// direct display.
func (m *Manager) Process(command OptionCommand) string {

	reply := ""
	if command.Value != "" {
		var err error
		switch command.Target {
		case OPTION_KEY:
			err = m.SetKey(command.Value)
		case OPTION_NAME:
			var kind Kind
			kind, err = ParseKind(command.Value)
			if err == nil {
				err = m.SetCipherName(kind)
			}
		case OPTION_ENABLE:
			err = m.SetEnabledText(command.Value)
		default:
			return fmt.Sprintf("FAIL: unknown option %s", command.Target)
		}
		if err != nil {
			reply = fmt.Sprintf("FAIL: %s. ", err)
		}
	}

	var value string
	switch command.Target {
	case OPTION_KEY:
		value = m.Key()
	case OPTION_NAME:
		value = string(m.CipherName())
	case OPTION_ENABLE:
		value = strconv.FormatBool(m.Enabled())
	default:
		return fmt.Sprintf("FAIL: unknown option %s", command.Target)
	}

	return fmt.Sprintf("%soption %s = %s", reply, command.Target, value)
}

// Prepare preps cleartext using the active cipher instance.
func (m *Manager) Prepare(cleartext string) string {
	return m.activeCipher().Prepare(cleartext)
}

// Encrypt encrypts prepared text using the active cipher instance.
func (m *Manager) Encrypt(preptext string) (string, error) {
	ciphertext, err := m.activeCipher().Encrypt(preptext)
	if err != nil {
		return "", errors.Trace(err)
	}
	return ciphertext, nil
}

// Decrypt decrypts ciphertext using the active cipher instance.
func (m *Manager) Decrypt(ciphertext string) (string, error) {
	preptext, err := m.activeCipher().Decrypt(ciphertext)
	if err != nil {
		return "", errors.Trace(err)
	}
	return preptext, nil
}

func (m *Manager) activeCipher() Cipher {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.cipher
}
