package graph

// CreateFileNode registers a new FileNode for name. It is an error to call
// this again for a name already registered in the graph, regardless of the
// existing node's type (spec.md §3, §4.1).
func (g *NodeGraph) CreateFileNode(name Name) (*FileNode, error) {
	n, err := g.insert(name, FILE_NODE, func() Node { return NewFileNode(name) })
	if err != nil {
		return nil, err
	}
	return n.(*FileNode), nil
}

func (g *NodeGraph) CreateAliasNode(name Name, targets []Name) (*AliasNode, error) {
	deps, err := g.Resolve(targets, false)
	if err != nil {
		return nil, err
	}
	n, err := g.insert(name, ALIAS_NODE, func() Node {
		alias := NewAliasNode(name)
		alias.SetStaticDependencies(deps)
		return alias
	})
	if err != nil {
		return nil, err
	}
	return n.(*AliasNode), nil
}

func (g *NodeGraph) CreateDependencyListNode(name Name, source Name, dest string, patterns []string) (*DependencyListNode, error) {
	n, err := g.insert(name, DEPENDENCY_LIST_NODE, func() Node {
		return NewDependencyListNode(name, source, dest, patterns)
	})
	if err != nil {
		return nil, err
	}
	return n.(*DependencyListNode), nil
}

func (g *NodeGraph) CreateSettingsNode(name Name) (*SettingsNode, error) {
	n, err := g.insert(name, SETTINGS_NODE, func() Node { return NewSettingsNode(name) })
	if err != nil {
		return nil, err
	}
	return n.(*SettingsNode), nil
}

func (g *NodeGraph) CreateObjectNode(name Name, compiler, outputFile string, args []string) (*ExecNode, error) {
	n, err := g.insert(name, OBJECT_NODE, func() Node { return NewObjectNode(name, compiler, outputFile, args) })
	if err != nil {
		return nil, err
	}
	return n.(*ExecNode), nil
}

// CreateDistributableObjectNode registers an ObjectNode that preprocesses
// locally (DoBuild) before compiling in a second, distributable pass
// (DoBuild2) -- see NewDistributableObjectNode.
func (g *NodeGraph) CreateDistributableObjectNode(
	name Name,
	compiler, outputFile string, args []string,
	preprocessExe, preprocessedFile string, preprocessArgs []string,
) (*ExecNode, error) {
	n, err := g.insert(name, OBJECT_NODE, func() Node {
		return NewDistributableObjectNode(name, compiler, outputFile, args, preprocessExe, preprocessedFile, preprocessArgs)
	})
	if err != nil {
		return nil, err
	}
	return n.(*ExecNode), nil
}

func (g *NodeGraph) CreateLibraryNode(name Name, librarian, outputFile string, args []string) (*ExecNode, error) {
	n, err := g.insert(name, LIBRARY_NODE, func() Node { return NewLibraryNode(name, librarian, outputFile, args) })
	if err != nil {
		return nil, err
	}
	return n.(*ExecNode), nil
}

func (g *NodeGraph) CreateExecutableNode(name Name, linker, outputFile string, args []string) (*ExecNode, error) {
	n, err := g.insert(name, EXECUTABLE_NODE, func() Node { return NewExecutableNode(name, linker, outputFile, args) })
	if err != nil {
		return nil, err
	}
	return n.(*ExecNode), nil
}

func (g *NodeGraph) CreateCopyNode(name Name, source, dest string) (*CopyNode, error) {
	n, err := g.insert(name, COPY_NODE, func() Node { return NewCopyNode(name, source, dest) })
	if err != nil {
		return nil, err
	}
	return n.(*CopyNode), nil
}
