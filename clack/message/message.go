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

Package message defines the chat protocol messages exchanged between client
and server, and the framed wire records that carry them over a connection.

One Message value carries exactly one protocol action: a text line, a login
attempt, an option command, a file transfer, or one of the parameterless
controls. Unused fields stay at their zero value and are omitted from the
encoding.

*/
package message

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Psiphon-Labs/clack/clack/common/errors"
)

// Type tags a Message with the protocol action it carries.
type Type int

const (
	TypeText Type = iota + 1
	TypeLogin
	TypeLogout
	TypeHelp
	TypeOption
	TypeFile
	TypeListUsers
)

func (t Type) String() string {
	switch t {
	case TypeText:
		return "TEXT"
	case TypeLogin:
		return "LOGIN"
	case TypeLogout:
		return "LOGOUT"
	case TypeHelp:
		return "HELP"
	case TypeOption:
		return "OPTION"
	case TypeFile:
		return "FILE"
	case TypeListUsers:
		return "LISTUSERS"
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(t))
}

// Message is one protocol action. Every message carries its type, the
// sending user, and a send timestamp; the remaining fields are populated
// only for the types that use them.
type Message struct {
	Type         Type   `cbor:"1,keyasint"`
	Username     string `cbor:"2,keyasint,omitempty"`
	Timestamp    int64  `cbor:"3,keyasint,omitempty"`
	Text         string `cbor:"4,keyasint,omitempty"`
	Password     string `cbor:"5,keyasint,omitempty"`
	Option       string `cbor:"6,keyasint,omitempty"`
	Value        string `cbor:"7,keyasint,omitempty"`
	FileName     string `cbor:"8,keyasint,omitempty"`
	FileContents []byte `cbor:"9,keyasint,omitempty"`
}

func newMessage(messageType Type, username string) *Message {
	return &Message{
		Type:      messageType,
		Username:  username,
		Timestamp: time.Now().UnixNano(),
	}
}

// NewTextMessage creates a TEXT message. The text may be cleartext or
// ciphertext; the protocol layer does not distinguish.
func NewTextMessage(username, text string) *Message {
	message := newMessage(TypeText, username)
	message.Text = text
	return message
}

// NewLoginMessage creates a LOGIN message carrying the password to
// authenticate username with.
func NewLoginMessage(username, password string) *Message {
	message := newMessage(TypeLogin, username)
	message.Password = password
	return message
}

// NewLogoutMessage creates a LOGOUT message.
func NewLogoutMessage(username string) *Message {
	return newMessage(TypeLogout, username)
}

// NewHelpMessage creates a HELP message.
func NewHelpMessage(username string) *Message {
	return newMessage(TypeHelp, username)
}

// NewListUsersMessage creates a LISTUSERS message.
func NewListUsersMessage(username string) *Message {
	return newMessage(TypeListUsers, username)
}

// NewOptionMessage creates an OPTION message. An empty value queries the
// option; a non-empty value requests a change.
func NewOptionMessage(username, option, value string) *Message {
	message := newMessage(TypeOption, username)
	message.Option = option
	message.Value = value
	return message
}

// NewFileMessage creates a FILE message by reading the file at readPath.
// The message names the file saveAsName, or the base name of readPath when
// saveAsName is empty; any directory components are stripped, so a
// receiver writes only into its own working directory.
func NewFileMessage(username, readPath, saveAsName string) (*Message, error) {
	contents, err := os.ReadFile(readPath)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if saveAsName == "" {
		saveAsName = readPath
	}
	message := newMessage(TypeFile, username)
	message.FileName = filepath.Base(saveAsName)
	message.FileContents = contents
	return message, nil
}

// NewFileContentsMessage creates a FILE message from in-memory contents,
// for forwarding a file that was never read from the local disk.
func NewFileContentsMessage(username, fileName string, contents []byte) *Message {
	message := newMessage(TypeFile, username)
	message.FileName = filepath.Base(fileName)
	message.FileContents = contents
	return message
}

// String renders the message for logs and transcripts. Passwords are
// redacted and file contents are summarized by size.
func (m *Message) String() string {
	timestamp := time.Unix(0, m.Timestamp).Format(time.RFC3339)
	switch m.Type {
	case TypeText:
		return fmt.Sprintf("%s %s %s: %s", timestamp, m.Type, m.Username, m.Text)
	case TypeLogin:
		return fmt.Sprintf("%s %s %s: [redacted]", timestamp, m.Type, m.Username)
	case TypeOption:
		return fmt.Sprintf(
			"%s %s %s: %s=%s", timestamp, m.Type, m.Username, m.Option, m.Value)
	case TypeFile:
		return fmt.Sprintf(
			"%s %s %s: %s (%d bytes)",
			timestamp, m.Type, m.Username, m.FileName, len(m.FileContents))
	}
	return fmt.Sprintf("%s %s %s", timestamp, m.Type, m.Username)
}
