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
	"encoding/binary"
	"io"

	"github.com/Psiphon-Labs/clack/clack/common/errors"
	"github.com/fxamacker/cbor/v2"
)

// Records are CBOR-encoded messages with a preamble indicating the encoding
// schema version, message type, and payload length. The preamble:
//
// [ 1 byte version ][ 1 byte type ][ varint payload length ][ ...payload... ]
//
// The length field frames the record within the connection's byte stream.

const (
	recordVersion = 1

	recordTypeFirst = int(TypeText)
	recordTypeLast  = int(TypeListUsers)

	// maxRecordLength bounds the payload read off the wire, limiting what
	// one record can make the receiver allocate. File contents dominate
	// payload size.
	maxRecordLength = 8 * 1024 * 1024
)

// cborEncoding is the encoding used for all record payloads, initialized
// to FIDO2 CTAP2 Canonical CBOR.
var cborEncoding cbor.EncMode

func init() {
	cborEncoding, _ = cbor.CTAP2EncOptions().EncMode()
}

// WriteRecord encodes the message and writes it to w as one framed record.
func WriteRecord(w io.Writer, message *Message) error {

	messageType := int(message.Type)
	if messageType < recordTypeFirst || messageType > recordTypeLast {
		return errors.Tracef("invalid record type: %d", messageType)
	}

	payload, err := cborEncoding.Marshal(message)
	if err != nil {
		return errors.Trace(err)
	}

	if len(payload) > maxRecordLength {
		return errors.Tracef("invalid record length: %d", len(payload))
	}

	var preamble [2 + binary.MaxVarintLen64]byte
	preamble[0] = byte(recordVersion)
	preamble[1] = byte(messageType)
	preambleLen := 2 + binary.PutUvarint(preamble[2:], uint64(len(payload)))

	_, err = w.Write(preamble[:preambleLen])
	if err != nil {
		return errors.Trace(err)
	}
	_, err = w.Write(payload)
	if err != nil {
		return errors.Trace(err)
	}
	return nil
}

// ReadRecord reads one framed record from r and decodes its message. The
// version must match the known encoding schema version and the message's
// own type field must match the preamble type.
func ReadRecord(r io.Reader) (*Message, error) {

	var preamble [2]byte
	_, err := io.ReadFull(r, preamble[:])
	if err != nil {
		return nil, errors.Trace(err)
	}

	if int(preamble[0]) != recordVersion {
		return nil, errors.Tracef("invalid record version: %d", preamble[0])
	}

	recordType := int(preamble[1])
	if recordType < recordTypeFirst || recordType > recordTypeLast {
		return nil, errors.Tracef("invalid record type: %d", recordType)
	}

	payloadLength, err := binary.ReadUvarint(byteReader{r})
	if err != nil {
		return nil, errors.Trace(err)
	}
	if payloadLength > maxRecordLength {
		return nil, errors.Tracef("invalid record length: %d", payloadLength)
	}

	payload := make([]byte, payloadLength)
	_, err = io.ReadFull(r, payload)
	if err != nil {
		return nil, errors.Trace(err)
	}

	var message Message
	err = cbor.Unmarshal(payload, &message)
	if err != nil {
		return nil, errors.Trace(err)
	}

	if int(message.Type) != recordType {
		return nil, errors.Tracef(
			"unexpected record type: %d != %d", message.Type, recordType)
	}

	return &message, nil
}

// byteReader adapts an io.Reader for binary.ReadUvarint without buffering
// past the varint.
type byteReader struct {
	io.Reader
}

func (r byteReader) ReadByte() (byte, error) {
	var b [1]byte
	_, err := io.ReadFull(r.Reader, b[:])
	if err != nil {
		return 0, err
	}
	return b[0], nil
}
