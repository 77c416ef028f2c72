package graph

// NewObjectNode constructs the ExecNode variant for a single compiled object
// file. Compiler selection and flag assembly are out of scope for the core
// (spec.md §1 Non-goals); callers supply the fully-resolved command line.
func NewObjectNode(name Name, compiler, outputFile string, args []string) *ExecNode {
	return NewExecNode(name, OBJECT_NODE, compiler, outputFile, args)
}

// NewDistributableObjectNode constructs an ObjectNode whose build splits into
// two passes: DoBuild runs preprocessExe/preprocessArgs locally, producing
// preprocessedFile; DoBuild2 then runs the real compile (compiler/args),
// producing outputFile. This is the shape the scheduler's
// NeedSecondBuildPass/second-pass queues exist to drive (spec.md §4.2, §4.4),
// grounded on original_source/ObjectNode.cpp's preprocess-then-compile split
// for distributable compilation.
func NewDistributableObjectNode(
	name Name,
	compiler, outputFile string, args []string,
	preprocessExe, preprocessedFile string, preprocessArgs []string,
) *ExecNode {
	n := NewExecNode(name, OBJECT_NODE, compiler, outputFile, args)
	n.Distributable = true
	n.PreprocessExecutable = preprocessExe
	n.PreprocessArguments = preprocessArgs
	n.PreprocessedFile = preprocessedFile
	return n
}
