package core

import "github.com/C0nsultant/openpmd-go/cmn"

// Parameter carries the union of in-fields (set by the caller before
// enqueueing) and out-fields (filled in place by the backend during
// flush) for a single Operation. Only the fields relevant to the task's
// Operation are meaningful; the rest are zero.
//
// Out-fields are valid only after the enclosing IOHandler.Flush returns
// successfully — callers must not enqueue a dependent task that reads
// another task's output without an intervening Flush.
type Parameter struct {
	// in: CREATE_FILE, OPEN_FILE
	FileName string

	// in: CREATE_PATH, OPEN_PATH, DELETE_PATH ("." = self)
	Path string

	// in: WRITE_ATT, READ_ATT, DELETE_ATT
	AttName string
	// in: WRITE_ATT
	AttResource cmn.Resource
	AttDtype    cmn.Datatype

	// out: OPEN_FILE, CREATE_PATH, OPEN_PATH
	OutPosition string
	// out: LIST_PATHS
	OutPaths []string
	// out: READ_ATT
	OutResource cmn.Resource
	OutDtype    cmn.Datatype
	// out: LIST_ATTS
	OutAttNames []string
}
