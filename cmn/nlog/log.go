// Package nlog provides the leveled, verbosity-gated logging used across
// the module, grounded on the teacher's 3rdparty/glog conventions
// (Infof/Warningf/Errorf plus a V(level) verbosity gate).
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package nlog

import "github.com/golang/glog"

// V reports whether verbosity level l is currently enabled, mirroring
// the teacher's glog.FastV/glog.V gate used to skip building log
// arguments on the hot path.
func V(l int) bool { return bool(glog.V(glog.Level(l))) }

func Infof(format string, args ...any)    { glog.Infof(format, args...) }
func Warningf(format string, args ...any) { glog.Warningf(format, args...) }
func Errorf(format string, args ...any)   { glog.Errorf(format, args...) }

func Infoln(args ...any)    { glog.Infoln(args...) }
func Warningln(args ...any) { glog.Warningln(args...) }
func Errorln(args ...any)   { glog.Errorln(args...) }

// Flush flushes any buffered log entries; commands call this via defer on
// exit, mirroring the teacher's shutdown-time glog.Flush call.
func Flush() { glog.Flush() }
