// Package ioh is the backend factory: given a directory, access mode and
// Format, it returns the core.IOHandler to drive that Series, instrumenting
// every Flush with Prometheus metrics the way the teacher instruments its
// transport/disk-IO call sites.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package ioh

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/C0nsultant/openpmd-go/cmn"
	"github.com/C0nsultant/openpmd-go/core"
	"github.com/C0nsultant/openpmd-go/dummy"
)

var (
	flushDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "openpmd",
		Subsystem: "ioh",
		Name:      "flush_duration_seconds",
		Help:      "Duration of IOHandler.Flush calls, by backend format.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"format"})

	flushErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "openpmd",
		Subsystem: "ioh",
		Name:      "flush_errors_total",
		Help:      "Count of IOHandler.Flush calls that returned an error, by backend format.",
	}, []string{"format"})
)

func init() {
	prometheus.MustRegister(flushDuration, flushErrors)
}

// Create opens (or creates) a backend handler of the given Format at dir.
// Only FormatDummy has a working implementation; every other recognized
// format returns a not-implemented error naming itself, so callers get a
// precise diagnostic instead of a generic "unsupported" message.
func Create(dir string, access core.AccessType, format core.Format) (core.IOHandler, error) {
	switch format {
	case core.FormatDummy:
		return instrument(dummy.New(dir, access), format), nil
	case core.FormatHDF5, core.FormatParallelHDF5,
		core.FormatADIOS, core.FormatParallelADIOS,
		core.FormatADIOS2, core.FormatParallelADIOS2:
		return nil, cmn.NewNotImplemented("backend format %s has no implementation in this module", format)
	default:
		return nil, cmn.NewBadConfig("unrecognized backend format %v", format)
	}
}

// instrumented wraps a core.IOHandler, timing and counting every Flush
// under the backend's Format label.
type instrumented struct {
	core.IOHandler
	format core.Format
}

func instrument(h core.IOHandler, format core.Format) core.IOHandler {
	return &instrumented{IOHandler: h, format: format}
}

func (i *instrumented) Flush() error {
	start := time.Now()
	err := i.IOHandler.Flush()
	flushDuration.WithLabelValues(i.format.String()).Observe(time.Since(start).Seconds())
	if err != nil {
		flushErrors.WithLabelValues(i.format.String()).Inc()
	}
	return err
}

// Close releases the underlying backend's resources, if it has any to
// release (DUMMY does; a future HDF5/ADIOS backend would too).
func (i *instrumented) Close() error {
	if c, ok := i.IOHandler.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
