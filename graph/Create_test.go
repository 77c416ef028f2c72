package graph

import "testing"

func TestCreateObjectNodeTwiceWithSameNameIsAnError(t *testing.T) {
	g := NewNodeGraph("/root/project")

	if _, err := g.CreateObjectNode("/root/project/main.o", "cc", "/root/project/main.o", []string{"-c", "main.c"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := g.CreateObjectNode("/root/project/main.o", "cc", "/root/project/main.o", []string{"-c", "main.c"})
	if _, ok := err.(*ErrAlreadyDefined); !ok {
		t.Errorf("expected *ErrAlreadyDefined for a repeated name, got %T (%v)", err, err)
	}
}

func TestCreateDistributableObjectNodeSupportsSecondBuildPass(t *testing.T) {
	g := NewNodeGraph("/root/project")

	obj, err := g.CreateDistributableObjectNode(
		"/root/project/main.o",
		"cc", "/root/project/main.o", []string{"-c", "main.c"},
		"cc", "/root/project/main.i", []string{"-E", "main.c"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !obj.SupportsSecondBuildPass() {
		t.Errorf("expected CreateDistributableObjectNode to produce a two-pass node")
	}

	_, err = g.CreateDistributableObjectNode(
		"/root/project/main.o",
		"cc", "/root/project/main.o", []string{"-c", "main.c"},
		"cc", "/root/project/main.i", []string{"-E", "main.c"},
	)
	if _, ok := err.(*ErrAlreadyDefined); !ok {
		t.Errorf("expected *ErrAlreadyDefined for a repeated name, got %T (%v)", err, err)
	}
}

func TestCreateLibraryNodeSetsLibrarianMode(t *testing.T) {
	g := NewNodeGraph("/root/project")

	lib, err := g.CreateLibraryNode("/root/project/libx.a", "ar", "/root/project/libx.a", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !lib.LibrarianMode {
		t.Errorf("expected CreateLibraryNode to set LibrarianMode")
	}
}

func TestCreateExecutableNodeSetsLibrarianMode(t *testing.T) {
	g := NewNodeGraph("/root/project")

	exe, err := g.CreateExecutableNode("/root/project/app", "ld", "/root/project/app", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exe.LibrarianMode {
		t.Errorf("expected CreateExecutableNode to set LibrarianMode")
	}
}

func TestCreateCopyNodeTwiceWithSameNameIsAnError(t *testing.T) {
	g := NewNodeGraph("/root/project")

	if _, err := g.CreateCopyNode("/root/project/dest.txt", "/root/project/src.txt", "/root/project/dest.txt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := g.CreateCopyNode("/root/project/dest.txt", "/root/project/src.txt", "/root/project/dest.txt")
	if _, ok := err.(*ErrAlreadyDefined); !ok {
		t.Errorf("expected *ErrAlreadyDefined for a repeated name, got %T (%v)", err, err)
	}
}

func TestCreateSettingsNodeTwiceWithSameNameIsAnError(t *testing.T) {
	g := NewNodeGraph("/root/project")

	if _, err := g.CreateSettingsNode("//settings"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := g.CreateSettingsNode("//settings")
	if _, ok := err.(*ErrAlreadyDefined); !ok {
		t.Errorf("expected *ErrAlreadyDefined for a repeated name, got %T (%v)", err, err)
	}
}

func TestCreateDependencyListNodeResolvesSource(t *testing.T) {
	g := NewNodeGraph("/root/project")

	if _, err := g.CreateFileNode("/root/project/a.cpp"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	alias, err := g.CreateAliasNode("//all", []Name{"/root/project/a.cpp"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, err := g.CreateDependencyListNode("//dependency-list", alias.Name(), "/root/project/deps.txt", []string{"*.cpp"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := list.Initialize(g); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
}
