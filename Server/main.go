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

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/Psiphon-Labs/clack/clack/endpoint"
)

func main() {

	// Define command-line parameters

	var configFilename string
	flag.StringVar(&configFilename, "config", "", "configuration input file")

	var port int
	flag.IntVar(&port, "port", 0, "TCP port to listen on")

	var serverName string
	flag.StringVar(&serverName, "name", "", "username attributed to server replies")

	var logLevel string
	flag.StringVar(&logLevel, "logLevel", "", "logging level")

	flag.Parse()

	// Assemble configuration: the config file provides the base and
	// command-line parameters override it.

	config := &endpoint.ServerConfig{}

	if configFilename != "" {
		configJSON, err := os.ReadFile(configFilename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading configuration file: %s\n", err)
			os.Exit(1)
		}
		err = json.Unmarshal(configJSON, config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error parsing configuration file: %s\n", err)
			os.Exit(1)
		}
	}

	if port != 0 {
		config.Port = port
	}
	if serverName != "" {
		config.ServerName = serverName
	}
	if logLevel != "" {
		config.LogLevel = logLevel
	}

	server, err := endpoint.NewServer(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error initializing server: %s\n", err)
		os.Exit(1)
	}

	err = server.Start()
	if err != nil {
		fmt.Fprintf(os.Stderr, "server failed: %s\n", err)
		os.Exit(1)
	}
}
