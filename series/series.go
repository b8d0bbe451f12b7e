// Package series implements the root of the openPMD object graph: the
// Series node, its iterations container, and the encoding-specific flush
// (flush.go) and read (read.go) protocols that move the in-memory tree to
// and from a backend via the core deferred-I/O engine.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package series

import (
	"strings"

	"github.com/C0nsultant/openpmd-go/cmn"
	"github.com/C0nsultant/openpmd-go/cmn/config"
	"github.com/C0nsultant/openpmd-go/core"
	"github.com/C0nsultant/openpmd-go/ioh"
)

// IterationEncoding selects how iterations map onto backend files.
type IterationEncoding int

const (
	GroupBased IterationEncoding = iota
	FileBased
)

func (e IterationEncoding) String() string {
	if e == FileBased {
		return "fileBased"
	}
	return "groupBased"
}

func parseEncoding(s string) (IterationEncoding, bool) {
	switch s {
	case "groupBased":
		return GroupBased, true
	case "fileBased":
		return FileBased, true
	default:
		return 0, false
	}
}

// placeholder is the literal substring a fileBased name/basePath carries
// in place of the per-iteration decimal key.
const placeholder = "%T"

// supportedVersions are the only openPMD version strings this module
// accepts, on both create and read (spec's version-migration non-goal).
var supportedVersions = map[string]bool{"1.0.0": true, "1.0.1": true}

// Series is the root node of one openPMD dataset: one backend file in
// groupBased encoding, one file per iteration in fileBased encoding. It
// exclusively owns the iterations container; the IOHandler beneath it is
// shared by every node reachable from this root (I2).
type Series struct {
	core.Attributable

	iterations *core.Container[Iteration, *Iteration]

	dir      string
	name     string // as given to Create, suffix-stripped by Open: contains %T in fileBased mode
	encoding IterationEncoding
}

// Iterations returns the container of time-steps. GetOrCreate on it
// inherits this Series's IOHandler and parent link automatically.
func (s *Series) Iterations() *core.Container[Iteration, *Iteration] { return s.iterations }

// Create allocates a new Series in CREATE access mode under dir (which is
// normalized to carry a trailing separator). name must contain the
// literal substring "%T" when encoding is FileBased; violating that fails
// with bad-config before any backend resource is allocated.
func Create(dir, name string, encoding IterationEncoding, format core.Format) (*Series, error) {
	if encoding == FileBased && !strings.Contains(name, placeholder) {
		return nil, cmn.NewBadConfig("fileBased series name %q must contain %q", name, placeholder)
	}
	if v := config.Get().DefaultVersion; !supportedVersions[v] {
		return nil, cmn.NewBadConfig("unsupported openPMD version %q", v)
	}
	dir = normalizeDir(dir)

	handler, err := ioh.Create(dir, core.AccessCreate, format)
	if err != nil {
		return nil, err
	}

	s := &Series{
		iterations: core.NewContainer[Iteration, *Iteration](true),
		dir:        dir,
		name:       name,
		encoding:   encoding,
	}
	core.BindSelf(s)
	s.SetHandler(handler)
	s.iterations.SetHandler(handler)
	s.iterations.SetParent(core.Node(s))

	cfg := config.Get()
	if err := s.SetAttribute("openPMD", cfg.DefaultVersion); err != nil {
		return nil, err
	}
	if err := s.SetAttribute("openPMDextension", uint32(0)); err != nil {
		return nil, err
	}
	if err := s.SetAttribute("basePath", "/data/%T/"); err != nil {
		return nil, err
	}
	if err := s.SetAttribute("meshesPath", "meshes/"); err != nil {
		return nil, err
	}
	if err := s.SetAttribute("particlesPath", "particles/"); err != nil {
		return nil, err
	}
	if err := s.setEncodingAndFormat(encoding); err != nil {
		return nil, err
	}
	return s, nil
}

func normalizeDir(dir string) string {
	if dir == "" {
		return "/"
	}
	if !strings.HasSuffix(dir, "/") {
		return dir + "/"
	}
	return dir
}

func (s *Series) setEncodingAndFormat(encoding IterationEncoding) error {
	s.encoding = encoding
	if err := s.SetAttribute("iterationEncoding", encoding.String()); err != nil {
		return err
	}
	switch encoding {
	case FileBased:
		return s.SetAttribute("iterationFormat", s.name)
	default:
		basePath, err := s.BasePath()
		if err != nil {
			return err
		}
		return s.SetAttribute("iterationFormat", basePath)
	}
}

// SetIterationEncoding changes the encoding. Fails with
// immutable-after-write once the Series has been written at least once.
func (s *Series) SetIterationEncoding(encoding IterationEncoding) error {
	if s.Written() {
		return cmn.NewImmutableAfterWrite("cannot change iterationEncoding after the series has been written")
	}
	return s.setEncodingAndFormat(encoding)
}

func (s *Series) Encoding() IterationEncoding { return s.encoding }

func (s *Series) getString(key string) (string, error) {
	attr, err := s.GetAttribute(key)
	if err != nil {
		return "", err
	}
	return cmn.Get[string](attr)
}

func (s *Series) OpenPMD() (string, error) { return s.getString("openPMD") }

func (s *Series) OpenPMDExtension() (uint32, error) {
	attr, err := s.GetAttribute("openPMDextension")
	if err != nil {
		return 0, err
	}
	return cmn.Get[uint32](attr)
}

func (s *Series) BasePath() (string, error) { return s.getString("basePath") }

// SetBasePath is always rejected: the only supported openPMD versions
// (1.0.0, 1.0.1) fix basePath to "/data/%T/" (spec §6's version policy;
// scenario 5).
func (s *Series) SetBasePath(string) error {
	version, err := s.OpenPMD()
	if err != nil {
		return err
	}
	return cmn.NewBadConfig("openPMD %s pins basePath; custom values are not accepted", version)
}

func (s *Series) MeshesPath() (string, error) { return s.getString("meshesPath") }

func (s *Series) SetMeshesPath(p string) error {
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return s.SetAttribute("meshesPath", p)
}

func (s *Series) ParticlesPath() (string, error) { return s.getString("particlesPath") }

func (s *Series) SetParticlesPath(p string) error {
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return s.SetAttribute("particlesPath", p)
}

func (s *Series) IterationEncodingAttr() (string, error) { return s.getString("iterationEncoding") }
func (s *Series) IterationFormat() (string, error)       { return s.getString("iterationFormat") }

func (s *Series) Author() (string, error)    { return s.getString("author") }
func (s *Series) SetAuthor(v string) error   { return s.SetAttribute("author", v) }
func (s *Series) Software() (string, error)  { return s.getString("software") }
func (s *Series) SetSoftware(v string) error { return s.SetAttribute("software", v) }

func (s *Series) SoftwareVersion() (string, error)  { return s.getString("softwareVersion") }
func (s *Series) SetSoftwareVersion(v string) error { return s.SetAttribute("softwareVersion", v) }

func (s *Series) Date() (string, error)  { return s.getString("date") }
func (s *Series) SetDate(v string) error { return s.SetAttribute("date", v) }

// Close flushes any pending state and releases the backend handler,
// mirroring the spec's Series-destruction guarantee (§5, Scoped
// acquisition): a final flush attempt followed by handler release.
func (s *Series) Close() error {
	if err := s.Flush(); err != nil {
		return err
	}
	if c, ok := s.Handler().(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
