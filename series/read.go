/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package series

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/C0nsultant/openpmd-go/cmn"
	"github.com/C0nsultant/openpmd-go/cmn/config"
	"github.com/C0nsultant/openpmd-go/cmn/nlog"
	"github.com/C0nsultant/openpmd-go/core"
	"github.com/C0nsultant/openpmd-go/dummy"
	"github.com/C0nsultant/openpmd-go/ioh"
)

// Open opens an existing Series in READ_ONLY or READ_WRITE mode. name is
// cleaned of any known backend suffix before the fileBased-vs-groupBased
// dispatch: a cleaned name containing "%T" selects the fileBased read
// protocol, otherwise the groupBased one.
func Open(dir, name string, access core.AccessType, format core.Format) (*Series, error) {
	if access == core.AccessCreate {
		return nil, cmn.NewBadConfig("Open requires READ_ONLY or READ_WRITE, got %s", access)
	}
	dir = normalizeDir(dir)
	cleaned := stripKnownSuffix(name)

	handler, err := ioh.Create(dir, access, format)
	if err != nil {
		return nil, err
	}

	s := &Series{
		iterations: core.NewContainer[Iteration, *Iteration](true),
		dir:        dir,
		name:       cleaned,
	}
	core.BindSelf(s)
	s.SetHandler(handler)
	s.iterations.SetHandler(handler)
	s.iterations.SetParent(core.Node(s))

	if strings.Contains(cleaned, placeholder) {
		if err := s.readFileBased(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err := s.readGroupBased(cleaned); err != nil {
		return nil, err
	}
	return s, nil
}

var knownSuffixes = []string{".h5", ".bp"}

func stripKnownSuffix(name string) string {
	for _, suf := range knownSuffixes {
		if strings.HasSuffix(name, suf) {
			return strings.TrimSuffix(name, suf)
		}
	}
	return name
}

// readGroupBased opens the Series's single file and reconstructs the
// whole tree from it.
func (s *Series) readGroupBased(name string) error {
	h := s.Handler()
	param := &core.Parameter{FileName: name}
	h.Enqueue(core.NewIOTask(core.OpenFile, core.Node(s), param))
	if err := h.Flush(); err != nil {
		return err
	}
	s.SetPosition(param.OutPosition)
	s.SetWritten(false)

	if err := s.readBase(); err != nil {
		return err
	}
	if err := s.readEncoding(GroupBased); err != nil {
		return err
	}
	if err := s.iterations.ClearUnchecked(); err != nil {
		return err
	}
	if err := s.read(); err != nil {
		return err
	}

	s.iterations.SetWritten(true)
	s.SetWritten(true)
	return nil
}

// readFileBased enumerates the backend directory for files matching the
// name pattern (with "%T" widened to "[[:digit:]]+"), filtering candidates
// with a small bounded worker pool (config.Get().DirScanConcurrency), then
// folds every matching file's tree into this Series's single iterations
// container.
func (s *Series) readFileBased() error {
	h := s.Handler()
	pattern := "^" + strings.Replace(regexp.QuoteMeta(s.name), regexp.QuoteMeta(placeholder), `[[:digit:]]+`, 1) + "$"
	re, err := regexp.Compile(pattern)
	if err != nil {
		return cmn.NewBadConfig("invalid fileBased name pattern %q: %v", s.name, err)
	}

	candidates, err := dummy.ListFileCandidates(h.Directory())
	if err != nil {
		return err
	}
	matches, err := filterMatches(candidates, re)
	if err != nil {
		return err
	}

	if err := s.iterations.ClearUnchecked(); err != nil {
		return err
	}

	if len(matches) == 0 {
		nlog.Warningf("no files under %q matched pattern %q", h.Directory(), s.name)
	}

	for _, candidate := range matches {
		s.SetWritten(false)
		s.iterations.SetWritten(false)

		param := &core.Parameter{FileName: candidate}
		h.Enqueue(core.NewIOTask(core.OpenFile, core.Node(s), param))
		if err := h.Flush(); err != nil {
			return err
		}
		s.SetPosition(param.OutPosition)

		if err := s.readBase(); err != nil {
			return err
		}
		if err := s.readEncoding(FileBased); err != nil {
			return err
		}
		if err := s.read(); err != nil {
			return err
		}
	}

	s.iterations.SetWritten(true)
	s.SetWritten(true)
	return nil
}

// filterMatches tests candidates against re using a worker pool bounded by
// config.Get().DirScanConcurrency, preserving input order in the result.
func filterMatches(candidates []string, re *regexp.Regexp) ([]string, error) {
	hits := make([]bool, len(candidates))
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(config.Get().DirScanConcurrency)
	for i, candidate := range candidates {
		i, candidate := i, candidate
		g.Go(func() error {
			hits[i] = re.MatchString(candidate)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, cmn.NewBackendError(err, "scanning fileBased candidates")
	}
	var out []string
	for i, ok := range hits {
		if ok {
			out = append(out, candidates[i])
		}
	}
	return out, nil
}

// readEncoding reads and validates iterationEncoding/iterationFormat. A
// declared encoding that disagrees with the name-derived expectation is a
// warning, not an error (spec's version policy: "a mismatch ... is a
// warning, not an error"); the file's declaration always wins.
func (s *Series) readEncoding(expected IterationEncoding) error {
	encAttr, err := s.getString("iterationEncoding")
	if err != nil {
		return err
	}
	enc, ok := parseEncoding(encAttr)
	if !ok {
		return cmn.NewBadMetadata("unknown iterationEncoding %q", encAttr)
	}
	if enc != expected {
		nlog.Warningf("series declares iterationEncoding %q; honoring it over the name-derived %q", enc, expected)
	}
	s.encoding = enc
	if _, err := s.getString("iterationFormat"); err != nil {
		return err
	}
	return nil
}

// mandatoryAttr pairs a standard attribute name with the Datatype readBase
// must find it stored as.
type mandatoryAttr struct {
	name  string
	dtype cmn.Datatype
}

var mandatoryAttrs = []mandatoryAttr{
	{"openPMD", cmn.STRING},
	{"openPMDextension", cmn.UINT32},
	{"basePath", cmn.STRING},
	{"meshesPath", cmn.STRING},
	{"particlesPath", cmn.STRING},
}

// readBase reads the five mandatory root attributes, failing with
// bad-metadata on a missing attribute or an unexpected Datatype, and
// validates the openPMD version against the set this module accepts.
func (s *Series) readBase() error {
	if err := s.ReadAttributes(); err != nil {
		return err
	}
	for _, m := range mandatoryAttrs {
		attr, err := s.GetAttribute(m.name)
		if err != nil {
			return cmn.NewBadMetadata("missing mandatory attribute %q: %v", m.name, err)
		}
		if attr.Dtype() != m.dtype {
			return cmn.NewBadMetadata("attribute %q has datatype %s, expected %s", m.name, attr.Dtype(), m.dtype)
		}
	}
	version, err := s.OpenPMD()
	if err != nil {
		return err
	}
	if !supportedVersions[version] {
		return cmn.NewBadMetadata("unsupported openPMD version %q", version)
	}
	return nil
}

// read enumerates and reconstructs the iterations container: open the
// base path, read its attributes, LIST_PATHS for iteration keys, and for
// each one create/acquire the Iteration and delegate to its own read().
func (s *Series) read() error {
	h := s.Handler()
	basePath, err := s.BasePath()
	if err != nil {
		return err
	}
	base := basePathDir(basePath)

	param := &core.Parameter{Path: base}
	h.Enqueue(core.NewIOTask(core.OpenPath, core.Node(s.iterations), param))
	if err := h.Flush(); err != nil {
		return err
	}
	s.iterations.SetPosition(param.OutPosition)
	s.iterations.SetWritten(true)

	if err := s.iterations.ReadAttributes(); err != nil {
		return err
	}

	listParam := &core.Parameter{}
	h.Enqueue(core.NewIOTask(core.ListPaths, core.Node(s.iterations), listParam))
	if err := h.Flush(); err != nil {
		return err
	}

	for _, name := range listParam.OutPaths {
		if _, err := strconv.ParseUint(name, 10, 64); err != nil {
			nlog.Warningf("skipping non-numeric iteration path %q", name)
			continue
		}
		it := s.iterations.GetOrCreate(name)

		openParam := &core.Parameter{Path: name}
		h.Enqueue(core.NewIOTask(core.OpenPath, core.Node(it), openParam))
		if err := h.Flush(); err != nil {
			return err
		}
		it.SetPosition(openParam.OutPosition)
		it.SetWritten(true)

		if err := it.read(); err != nil {
			return err
		}
	}
	return nil
}
