package graph

import (
	"bytes"
	"os"
	"path"
	"sort"

	"github.com/forgebuild/corebuild/internal/base"
)

const dependencyListBucketCount = 256

// dependencyListBucketTable is the fixed-width dedup structure described by
// spec.md §4.3: power-of-two bucket count, keyed by name-hash modulo bucket
// count, linear search within a bucket. It exists as its own type (rather than
// a plain map) because the spec calls it out as a specific data structure the
// walker relies on, mirroring how the C++ original indexes its visited set.
type dependencyListBucketTable struct {
	buckets [dependencyListBucketCount][]Name
}

func newDependencyListBucketTable() *dependencyListBucketTable {
	return &dependencyListBucketTable{}
}

// visitOnce returns true the first time name is seen, false on every
// subsequent call for the same name.
func (t *dependencyListBucketTable) visitOnce(name Name) bool {
	idx := name.Hash() % dependencyListBucketCount
	bucket := t.buckets[idx]
	for _, existing := range bucket {
		if existing == name {
			return false
		}
	}
	t.buckets[idx] = append(bucket, name)
	return true
}

// DependencyListBuilder walks the transitive non-weak dependency closure of a
// root node and renders the matching file names as a sorted, CRLF-terminated
// text file (spec.md §4.3), grounded on original_source/FunctionDependencyList.cpp.
type DependencyListBuilder struct {
	visited  *dependencyListBucketTable
	patterns []string
	names    []Name
}

func NewDependencyListBuilder(patterns []string) *DependencyListBuilder {
	return &DependencyListBuilder{
		visited:  newDependencyListBucketTable(),
		patterns: patterns,
	}
}

// Walk performs the depth-first collection starting at root. Aliases are
// transparent: their own name is never collected, but their dependency list
// is recursed into like any other node's.
func (b *DependencyListBuilder) Walk(root Node) {
	if root == nil {
		return
	}
	if !b.visited.visitOnce(root.Name()) {
		return
	}

	if root.Type() != ALIAS_NODE && root.IsAFile() && b.matches(root.Name()) {
		b.names = append(b.names, root.Name())
	}

	for _, d := range root.StaticDependencies() {
		if d.Weak {
			continue
		}
		b.Walk(d.Node)
	}
	for _, d := range root.DynamicDependencies() {
		if d.Weak {
			continue
		}
		b.Walk(d.Node)
	}
}

func (b *DependencyListBuilder) matches(name Name) bool {
	if len(b.patterns) == 0 {
		return true
	}
	for _, pattern := range b.patterns {
		if ok, _ := path.Match(pattern, string(name)); ok {
			return true
		}
	}
	return false
}

// Sorted returns the collected names in strict ascending order, deduplicated.
func (b *DependencyListBuilder) Sorted() []Name {
	out := base.CopySlice(b.names...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Render produces the CRLF-terminated output buffer (spec.md §4.3 "Output").
func (b *DependencyListBuilder) Render() []byte {
	var buf bytes.Buffer
	for _, name := range b.Sorted() {
		buf.WriteString(string(name))
		buf.WriteString("\r\n")
	}
	return buf.Bytes()
}

// WriteFile atomically (open-write-close, truncating) writes the rendered
// list to dest.
func (b *DependencyListBuilder) WriteFile(dest string) error {
	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(b.Render())
	return err
}
