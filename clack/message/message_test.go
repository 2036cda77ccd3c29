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

package message

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRecordStream(t *testing.T) {

	// A sequence of records written to one stream reads back in order
	// with all populated fields intact.

	sent := []*Message{
		NewLoginMessage("user", "resu"),
		NewTextMessage("user", "hello"),
		NewOptionMessage("user", "NAME", "CAESAR_CIPHER"),
		NewListUsersMessage("user"),
		NewLogoutMessage("user"),
	}

	var stream bytes.Buffer
	for _, message := range sent {
		err := WriteRecord(&stream, message)
		if err != nil {
			t.Fatalf("WriteRecord failed: %v", err)
		}
	}

	for _, expected := range sent {
		received, err := ReadRecord(&stream)
		if err != nil {
			t.Fatalf("ReadRecord failed: %v", err)
		}
		if !reflect.DeepEqual(received, expected) {
			t.Fatalf("record mismatch: %+v != %+v", received, expected)
		}
	}

	_, err := ReadRecord(&stream)
	if err == nil {
		t.Fatalf("unexpected success reading drained stream")
	}
}

func TestReadRecordInvalidPreamble(t *testing.T) {

	var stream bytes.Buffer
	err := WriteRecord(&stream, NewHelpMessage("user"))
	if err != nil {
		t.Fatalf("WriteRecord failed: %v", err)
	}
	record := stream.Bytes()

	// Unknown version.
	corrupted := append([]byte{}, record...)
	corrupted[0] = 99
	_, err = ReadRecord(bytes.NewReader(corrupted))
	if err == nil {
		t.Fatalf("unexpected success")
	}

	// Type out of range.
	corrupted = append([]byte{}, record...)
	corrupted[1] = 99
	_, err = ReadRecord(bytes.NewReader(corrupted))
	if err == nil {
		t.Fatalf("unexpected success")
	}

	// Preamble type disagreeing with the encoded message type.
	corrupted = append([]byte{}, record...)
	corrupted[1] = byte(TypeText)
	_, err = ReadRecord(bytes.NewReader(corrupted))
	if err == nil {
		t.Fatalf("unexpected success")
	}

	// Truncated payload.
	_, err = ReadRecord(bytes.NewReader(record[:len(record)-1]))
	if err == nil {
		t.Fatalf("unexpected success")
	}
}

func TestFileMessage(t *testing.T) {

	contents := []byte("file transfer contents\n")
	readPath := filepath.Join(t.TempDir(), "notes.txt")
	err := os.WriteFile(readPath, contents, 0600)
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	// Without a save-as name, the message names the file by its base name.
	sent, err := NewFileMessage("user", readPath, "")
	if err != nil {
		t.Fatalf("NewFileMessage failed: %v", err)
	}
	if sent.FileName != "notes.txt" {
		t.Fatalf("unexpected file name: %s", sent.FileName)
	}
	if !bytes.Equal(sent.FileContents, contents) {
		t.Fatalf("unexpected file contents")
	}

	// A save-as name with directory components is stripped to its base.
	sent, err = NewFileMessage("user", readPath, "/tmp/evil/../copy.txt")
	if err != nil {
		t.Fatalf("NewFileMessage failed: %v", err)
	}
	if sent.FileName != "copy.txt" {
		t.Fatalf("unexpected file name: %s", sent.FileName)
	}

	var stream bytes.Buffer
	err = WriteRecord(&stream, sent)
	if err != nil {
		t.Fatalf("WriteRecord failed: %v", err)
	}
	received, err := ReadRecord(&stream)
	if err != nil {
		t.Fatalf("ReadRecord failed: %v", err)
	}
	if received.FileName != sent.FileName ||
		!bytes.Equal(received.FileContents, sent.FileContents) {
		t.Fatalf("record mismatch")
	}

	_, err = NewFileMessage("user", filepath.Join(t.TempDir(), "missing"), "")
	if err == nil {
		t.Fatalf("unexpected success")
	}
}

func TestMessageString(t *testing.T) {

	rendered := NewLoginMessage("user", "hunter2").String()
	if strings.Contains(rendered, "hunter2") {
		t.Fatalf("password leaked: %s", rendered)
	}
	if !strings.Contains(rendered, "LOGIN") {
		t.Fatalf("unexpected rendering: %s", rendered)
	}

	rendered = NewTextMessage("user", "hello").String()
	if !strings.Contains(rendered, "hello") {
		t.Fatalf("unexpected rendering: %s", rendered)
	}
}
