// Package config holds the process-wide tunables every Series shares,
// analogous to the teacher's cmn.GCO (global config owner) singleton.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package config

import "sync/atomic"

// Config is the set of tunables that do not belong to any one Series.
type Config struct {
	// DefaultVersion is the openPMD version string stamped on newly
	// created Series.
	DefaultVersion string
	// DirScanConcurrency bounds the number of goroutines used to match
	// candidate iteration file names during fileBased reads.
	DirScanConcurrency int
}

var global atomic.Pointer[Config]

func init() {
	global.Store(&Config{
		DefaultVersion:     "1.0.1",
		DirScanConcurrency: 8,
	})
}

// Get returns the current process-wide configuration.
func Get() *Config { return global.Load() }

// Set installs a new process-wide configuration, replacing the default.
// Intended for tests and embedding applications that want a different
// DefaultVersion or scan concurrency.
func Set(c *Config) { global.Store(c) }
