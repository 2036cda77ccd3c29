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

package endpoint

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/Psiphon-Labs/clack/clack/cipher"
	"github.com/Psiphon-Labs/clack/clack/common/errors"
	"github.com/Psiphon-Labs/clack/clack/message"
	"golang.org/x/term"
)

const (
	clientDefaultName = "client"

	clientMinPort = 1
	clientMaxPort = 65535
)

// ClientConfig specifies a Client. Zero-value fields assume defaults.
type ClientConfig struct {

	// Host is the server host name or address. The default is localhost.
	Host string

	// Port is the server TCP port.
	Port int

	// Username is the name to converse as. The default is "client".
	Username string

	// LogLevel, when set, reinitializes the package logger at the given
	// level.
	LogLevel string
}

// Client conducts a console conversation with a Server: lines read from
// Input become protocol messages, and server replies are rendered to
// Output.
//
// The client holds its own cipher manager, mirroring the server's
// connection state. An OPTION change is applied locally only after the
// server confirms it, so the two ends go through identical cipher
// configurations in identical order. This matters most for the pseudo
// one-time pad, where both ends must also consume keystream in step.
type Client struct {
	config  *ClientConfig
	manager *cipher.Manager

	// Input and Output default to stdin and stdout.
	Input  io.Reader
	Output io.Writer

	scanner *bufio.Scanner
}

// NewClient creates a Client from its configuration.
func NewClient(config *ClientConfig) (*Client, error) {

	if config.Port < clientMinPort || config.Port > clientMaxPort {
		return nil, errors.Tracef(
			"port %d outside [%d, %d]",
			config.Port, clientMinPort, clientMaxPort)
	}

	if config.Host == "" {
		config.Host = "localhost"
	}
	if config.Username == "" {
		config.Username = clientDefaultName
	}

	if config.LogLevel != "" {
		err := InitLogging(config.LogLevel)
		if err != nil {
			return nil, errors.Trace(err)
		}
	}

	return &Client{
		config:  config,
		manager: cipher.NewManager(),
		Input:   os.Stdin,
		Output:  os.Stdout,
	}, nil
}

// Run connects to the server and conducts the conversation until LOGOUT,
// end of input, or a connection failure.
func (client *Client) Run() error {

	conn, err := net.Dial(
		"tcp", fmt.Sprintf("%s:%d", client.config.Host, client.config.Port))
	if err != nil {
		return errors.Trace(err)
	}
	defer conn.Close()

	// The greeting arrives unprompted.
	greeting, err := message.ReadRecord(conn)
	if err != nil {
		return errors.Trace(err)
	}
	client.print(greeting.Text)

	client.scanner = bufio.NewScanner(client.Input)
	for client.scanner.Scan() {

		line := strings.TrimSpace(client.scanner.Text())
		if line == "" {
			continue
		}

		request, pendingOption, err := client.makeRequest(line)
		if err != nil {
			client.print(fmt.Sprintf("FAIL: %s", err))
			continue
		}

		err = message.WriteRecord(conn, request)
		if err != nil {
			return errors.Trace(err)
		}

		reply, err := message.ReadRecord(conn)
		if err != nil {
			return errors.Trace(err)
		}

		client.handleReply(request, reply, pendingOption)

		if request.Type == message.TypeLogout {
			return nil
		}
	}
	return errors.Trace(client.scanner.Err())
}

// makeRequest parses one console line into a protocol message. When the
// line is an OPTION mutation, the returned command is to be applied to
// the local cipher manager once the server confirms it.
func (client *Client) makeRequest(
	line string) (*message.Message, *cipher.OptionCommand, error) {

	fields := strings.Fields(line)
	keyword := strings.ToUpper(fields[0])

	switch keyword {

	case "LOGOUT":
		return message.NewLogoutMessage(client.config.Username), nil, nil

	case "HELP":
		return message.NewHelpMessage(client.config.Username), nil, nil

	case "LIST":
		if len(fields) == 2 && strings.EqualFold(fields[1], "USERS") {
			return message.NewListUsersMessage(client.config.Username), nil, nil
		}

	case "LOGIN":
		password := ""
		if len(fields) >= 2 {
			password = fields[1]
		} else {
			var err error
			password, err = client.readPassword()
			if err != nil {
				return nil, nil, errors.Trace(err)
			}
		}
		return message.NewLoginMessage(
			client.config.Username, password), nil, nil

	case "OPTION":
		if len(fields) == 2 || len(fields) == 3 {
			value := ""
			if len(fields) == 3 {
				value = fields[2]
			}
			request := message.NewOptionMessage(
				client.config.Username, fields[1], value)
			var pending *cipher.OptionCommand
			if value != "" {
				pending = &cipher.OptionCommand{
					Target: cipher.Option(strings.ToUpper(fields[1])),
					Value:  value,
				}
			}
			return request, pending, nil
		}
		return nil, nil, errors.TraceNew("usage: OPTION <option> [value]")

	case "SEND":
		if len(fields) >= 3 && strings.EqualFold(fields[1], "FILE") {
			readPath := fields[2]
			saveAsName := ""
			if len(fields) == 5 && strings.EqualFold(fields[3], "AS") {
				saveAsName = fields[4]
			} else if len(fields) != 3 {
				return nil, nil, errors.TraceNew(
					"usage: SEND FILE <path> [AS <name>]")
			}
			request, err := message.NewFileMessage(
				client.config.Username, readPath, saveAsName)
			if err != nil {
				return nil, nil, errors.Trace(err)
			}
			return request, nil, nil
		}
	}

	// Anything unrecognized is chat text. When encryption is enabled the
	// text is prepared and enciphered; otherwise it is sent as typed.
	text := line
	if client.manager.Enabled() {
		enciphered, err := client.manager.Encrypt(client.manager.Prepare(line))
		if err != nil {
			return nil, nil, errors.Trace(err)
		}
		text = enciphered
	}
	return message.NewTextMessage(client.config.Username, text), nil, nil
}

// handleReply renders one server reply and applies any pending option
// change the reply confirms. Only replies to chat text are enciphered;
// everything else arrives clear.
func (client *Client) handleReply(
	request, reply *message.Message, pendingOption *cipher.OptionCommand) {

	switch reply.Type {

	case message.TypeFile:
		// A received file is saved under its base name in the working
		// directory.
		fileName := reply.FileName
		err := os.WriteFile(fileName, reply.FileContents, 0644)
		if err != nil {
			client.print(fmt.Sprintf("FAIL: %s", err))
			return
		}
		client.print(fmt.Sprintf(
			"received file %s (%d bytes)", fileName, len(reply.FileContents)))

	case message.TypeText:
		text := reply.Text
		if pendingOption != nil {
			if !strings.HasPrefix(text, "FAIL") {
				client.manager.Process(*pendingOption)
			}
		} else if request.Type == message.TypeText &&
			client.manager.Enabled() &&
			!strings.HasPrefix(text, "FAIL") {
			deciphered, err := client.manager.Decrypt(text)
			if err != nil {
				client.print(fmt.Sprintf("FAIL: %s", err))
				return
			}
			text = deciphered
		}
		client.print(fmt.Sprintf("%s: %s", reply.Username, text))

	default:
		client.print(reply.String())
	}
}

// readPassword prompts for a password, with echo suppressed when stdin is
// a terminal.
func (client *Client) readPassword() (string, error) {

	fmt.Fprint(client.Output, "password: ")

	stdin, isStdin := client.Input.(*os.File)
	if isStdin && term.IsTerminal(int(stdin.Fd())) {
		password, err := term.ReadPassword(int(stdin.Fd()))
		fmt.Fprintln(client.Output)
		if err != nil {
			return "", errors.Trace(err)
		}
		return string(password), nil
	}

	if !client.scanner.Scan() {
		err := client.scanner.Err()
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return "", errors.Trace(err)
	}
	fmt.Fprintln(client.Output)
	return strings.TrimSpace(client.scanner.Text()), nil
}

func (client *Client) print(text string) {
	fmt.Fprintln(client.Output, text)
}
