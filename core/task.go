package core

// IOTask pairs a target node with a Parameter under an Operation tag.
// Tasks are value-copied into the handler's queue; the handler looks at
// Op to know which Parameter fields are meaningful and writes its
// out-fields back into *Param before the task completes.
type IOTask struct {
	Op     Operation
	Target Node
	Param  *Parameter
}

func NewIOTask(op Operation, target Node, param *Parameter) IOTask {
	return IOTask{Op: op, Target: target, Param: param}
}
