// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package metrics accumulates per-file and aggregate results of a run, renders the summary
// table and exports the results file.
package metrics
