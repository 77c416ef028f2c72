package graph

var (
	_ Node = (*FileNode)(nil)
	_ Node = (*AliasNode)(nil)
	_ Node = (*DependencyListNode)(nil)
	_ Node = (*SettingsNode)(nil)
	_ Node = (*ExecNode)(nil)
	_ Node = (*CopyNode)(nil)
)
