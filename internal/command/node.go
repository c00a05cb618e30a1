// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package command

import (
	"fmt"
	"os"
)

// NodeEnvVar is the environment variable that selects the execution target for a whole run.
const NodeEnvVar = "NODE"

// Node is the logical execution target of a directive.
type Node string

// Local is the only node that commands can currently be executed on.
const Local Node = "local"

// NodeFromEnv returns the node named by the NODE environment variable, or Local if it is unset.
func NodeFromEnv() Node {
	return ParseNode(os.Getenv(NodeEnvVar))
}

// ParseNode converts a string to a Node. The empty string is the local node.
func ParseNode(s string) Node {
	if s == "" {
		return Local
	}

	return Node(s)
}

// IsLocal reports whether the node is the local machine.
func (n Node) IsLocal() bool {
	return n == Local
}

// Validate returns ErrUnsupportedNode for any node that has no transport.
func (n Node) Validate() error {
	if n.IsLocal() {
		return nil
	}

	return fmt.Errorf("%w: %q (only %q is supported)", ErrUnsupportedNode, string(n), string(Local))
}

func (n Node) String() string {
	return string(n)
}
