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

	var host string
	flag.StringVar(&host, "host", "", "server host name or address")

	var port int
	flag.IntVar(&port, "port", 0, "server TCP port")

	var username string
	flag.StringVar(&username, "username", "", "name to converse as")

	var logLevel string
	flag.StringVar(&logLevel, "logLevel", "", "logging level")

	flag.Parse()

	// Assemble configuration: the config file provides the base and
	// command-line parameters override it.

	config := &endpoint.ClientConfig{}

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

	if host != "" {
		config.Host = host
	}
	if port != 0 {
		config.Port = port
	}
	if username != "" {
		config.Username = username
	}
	if logLevel != "" {
		config.LogLevel = logLevel
	}

	client, err := endpoint.NewClient(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error initializing client: %s\n", err)
		os.Exit(1)
	}

	err = client.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "client failed: %s\n", err)
		os.Exit(1)
	}
}
