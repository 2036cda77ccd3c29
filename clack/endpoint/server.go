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

Package endpoint implements the two ends of a chat conversation: a Server
that accepts connections and echoes each client's traffic back, and a
console Client that drives a conversation from stdin.

The conversation protocol is a strict request/reply alternation of framed
message records. The one exception is the greeting the server sends as soon
as a connection is established; after that, every client message receives
exactly one server reply.

Each connection carries its own cipher configuration, adjusted in flight by
OPTION messages. When encryption is enabled, only the Text field of TEXT
messages is enciphered; control messages and replies to them stay clear so
that option handling cannot desynchronize the two ends.

*/
package endpoint

import (
	"fmt"
	"net"
	"sort"
	"strings"
	"sync"

	"github.com/Psiphon-Labs/clack/clack/cipher"
	"github.com/Psiphon-Labs/clack/clack/common/errors"
	"github.com/Psiphon-Labs/clack/clack/message"
	"github.com/sirupsen/logrus"
)

const (
	serverDefaultName = "server"

	// Listening ports are confined to the IANA registered port range.
	serverMinPort = 1024
	serverMaxPort = 49151
)

const helpText = "Commands: SEND FILE <path> [AS <name>], " +
	"OPTION <KEY|NAME|ENABLE> [value], LIST USERS, LOGIN <password>, " +
	"HELP, LOGOUT. Anything else is sent as chat text."

// ServerConfig specifies a Server. Zero-value fields assume defaults.
type ServerConfig struct {

	// Port is the TCP port to listen on. Must be within the registered
	// port range.
	Port int

	// ServerName is the username attributed to server replies. The default
	// is "server".
	ServerName string

	// LogLevel, when set, reinitializes the package logger at the given
	// level.
	LogLevel string
}

// Server accepts chat connections and conducts one conversation per
// connection, echoing each logged-in client's messages back to it.
//
// Connections are independent: each holds its own login state and cipher
// configuration, so concurrent clients cannot disturb one another.
type Server struct {
	config   *ServerConfig
	mutex    sync.Mutex
	listener net.Listener
	stopped  bool
	users    map[string]int
}

// NewServer creates a Server from its configuration.
func NewServer(config *ServerConfig) (*Server, error) {

	if config.Port < serverMinPort || config.Port > serverMaxPort {
		return nil, errors.Tracef(
			"port %d outside [%d, %d]",
			config.Port, serverMinPort, serverMaxPort)
	}

	if config.ServerName == "" {
		config.ServerName = serverDefaultName
	}

	if config.LogLevel != "" {
		err := InitLogging(config.LogLevel)
		if err != nil {
			return nil, errors.Trace(err)
		}
	}

	return &Server{
		config: config,
		users:  make(map[string]int),
	}, nil
}

// Start listens on the configured port and serves connections until
// Stop is called or the listener fails.
func (server *Server) Start() error {
	listener, err := net.Listen(
		"tcp", fmt.Sprintf(":%d", server.config.Port))
	if err != nil {
		return errors.Trace(err)
	}
	return server.Serve(listener)
}

// Serve accepts and serves connections on the given listener until Stop
// is called or the listener fails. Serve assumes ownership of the
// listener.
func (server *Server) Serve(listener net.Listener) error {

	server.mutex.Lock()
	server.listener = listener
	server.mutex.Unlock()

	log.WithContextFields(
		LogFields{"address": listener.Addr().String()}).Info(
		"serving")

	for {
		conn, err := listener.Accept()
		if err != nil {
			server.mutex.Lock()
			stopped := server.stopped
			server.mutex.Unlock()
			if stopped {
				return nil
			}
			return errors.Trace(err)
		}
		go server.handleConnection(conn)
	}
}

// Stop closes the listener, unblocking Serve. In-flight conversations
// run to completion on their own connections.
func (server *Server) Stop() {
	server.mutex.Lock()
	defer server.mutex.Unlock()
	server.stopped = true
	if server.listener != nil {
		server.listener.Close()
	}
}

func (server *Server) addUser(username string) {
	server.mutex.Lock()
	defer server.mutex.Unlock()
	server.users[username] += 1
}

func (server *Server) removeUser(username string) {
	server.mutex.Lock()
	defer server.mutex.Unlock()
	server.users[username] -= 1
	if server.users[username] <= 0 {
		delete(server.users, username)
	}
}

func (server *Server) listUsers() string {
	server.mutex.Lock()
	defer server.mutex.Unlock()
	usernames := make([]string, 0, len(server.users))
	for username := range server.users {
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)
	return strings.Join(usernames, " ")
}

// checkPassword implements the login rule: the password is the username
// reversed.
func checkPassword(username, password string) bool {
	reversed := []byte(password)
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	return username != "" && username == string(reversed)
}

// handleConnection conducts one conversation. The greeting is sent
// immediately; every subsequent inbound message gets exactly one reply.
// The conversation ends at LOGOUT, at a read or write failure, or when
// the client closes the connection.
func (server *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	logger := log.WithContextFields(
		LogFields{"client": conn.RemoteAddr().String()})
	logger.Info("connection established")

	manager := cipher.NewManager()
	loggedIn := false
	username := ""

	reply := func(text string) error {
		return message.WriteRecord(
			conn, message.NewTextMessage(server.config.ServerName, text))
	}

	err := reply("Welcome. Please LOGIN to continue.")
	if err != nil {
		logger.WithField("error", err).Warning(
			"greeting failed")
		return
	}

	defer func() {
		if loggedIn {
			server.removeUser(username)
		}
	}()

	for {
		request, err := message.ReadRecord(conn)
		if err != nil {
			logger.WithField("error", err).Debug(
				"conversation ended")
			return
		}

		logger.WithFields(logrus.Fields{
			"type": request.Type.String(),
			"user": request.Username}).Debug("request")

		if !loggedIn && request.Type != message.TypeLogin {
			err = reply("FAIL: login required")
			if err != nil {
				return
			}
			continue
		}

		switch request.Type {

		case message.TypeLogin:
			if checkPassword(request.Username, request.Password) {
				if loggedIn {
					server.removeUser(username)
				}
				loggedIn = true
				username = request.Username
				server.addUser(username)
				err = reply(fmt.Sprintf("Login successful. Hello %s.", username))
			} else {
				err = reply("FAIL: invalid username or password")
			}

		case message.TypeText:
			err = server.replyText(conn, manager, request.Text)

		case message.TypeOption:
			target := cipher.Option(
				strings.ToUpper(strings.TrimSpace(request.Option)))
			err = reply(manager.Process(
				cipher.OptionCommand{Target: target, Value: request.Value}))

		case message.TypeHelp:
			err = reply(helpText)

		case message.TypeListUsers:
			err = reply(server.listUsers())

		case message.TypeFile:
			// Files are echoed back verbatim; file contents are never
			// enciphered.
			err = message.WriteRecord(
				conn, message.NewFileContentsMessage(
					server.config.ServerName,
					request.FileName,
					request.FileContents))

		case message.TypeLogout:
			err = reply(fmt.Sprintf("Goodbye %s.", username))
			if err == nil {
				logger.Info("logout")
				return
			}

		default:
			err = reply(fmt.Sprintf(
				"FAIL: unsupported message type %s", request.Type))
		}

		if err != nil {
			logger.WithField("error", err).Warning(
				"reply failed")
			return
		}
	}
}

// replyText echoes chat text. When encryption is enabled the inbound text
// is deciphered, then the echo is prepared and enciphered with the
// connection's cipher; otherwise the text passes through both ways.
func (server *Server) replyText(
	conn net.Conn, manager *cipher.Manager, text string) error {

	if manager.Enabled() {
		deciphered, err := manager.Decrypt(text)
		if err != nil {
			return message.WriteRecord(
				conn, message.NewTextMessage(
					server.config.ServerName,
					fmt.Sprintf("FAIL: %s", err)))
		}
		enciphered, err := manager.Encrypt(manager.Prepare(deciphered))
		if err != nil {
			return message.WriteRecord(
				conn, message.NewTextMessage(
					server.config.ServerName,
					fmt.Sprintf("FAIL: %s", err)))
		}
		text = enciphered
	}

	return message.WriteRecord(
		conn, message.NewTextMessage(server.config.ServerName, text))
}
