// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package command resolves a command name to something that can be executed on a node.
//
// A name is first looked up in a registry of in-process built-ins. Anything else is treated
// as an external executable, spawned with the given arguments and fed the given stdin lines.
// Either way the caller receives an Output holding the return code and the captured
// stdout and stderr, split into lines with trailing whitespace removed.
//
// Only the local node is supported. Any other node is rejected with ErrUnsupportedNode.
package command
