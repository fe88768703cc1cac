// Package vfs is the virtual-filesystem collaborator the mesh compiler's
// format readers consult before touching disk.
package vfs

import "os"

// FS resolves a logical filename to its byte contents. Implementations are
// read-only from the compiler's perspective.
type FS interface {
	Find(name string) ([]byte, bool)
}

// Memory is an in-memory FS backed by a plain map, the usual stand-in for
// tests and for virtual-filesystem entries registered programmatically by
// a caller.
type Memory map[string][]byte

// Find implements FS.
func (m Memory) Find(name string) ([]byte, bool) {
	b, ok := m[name]
	return b, ok
}

// Buffer is a small sum type in place of a flag-plus-manual-free pattern:
// a buffer is either Borrowed from the VFS (lifetime owned elsewhere,
// never freed here) or Owned (read from disk by the reader itself). Go's
// garbage collector makes the "free" side moot, but the distinction still
// documents which buffers may be retained past the call that produced
// them versus which were copied defensively.
type Buffer struct {
	data   []byte
	owned  bool
}

// Borrowed wraps a VFS-provided slice. The reader must not assume it is
// safe to mutate or retain past the call.
func Borrowed(data []byte) Buffer {
	return Buffer{data: data, owned: false}
}

// Owned wraps a slice the reader itself produced (e.g. read from disk).
func Owned(data []byte) Buffer {
	return Buffer{data: data, owned: true}
}

// Bytes returns the underlying data.
func (b Buffer) Bytes() []byte { return b.data }

// IsOwned reports whether this reader allocated the buffer itself.
func (b Buffer) IsOwned() bool { return b.owned }

// Resolve joins dir components and consults fs before falling back to
// disk: if a record matches, the reader uses its in-memory buffer
// without owning it; otherwise it reads the file from disk and owns the
// buffer.
func Resolve(fs FS, modelFileDir, meshDir, file string) (Buffer, error) {
	full := JoinDirs(modelFileDir, meshDir, file)

	if fs != nil {
		if data, ok := fs.Find(full); ok {
			return Borrowed(data), nil
		}
		if data, ok := fs.Find(file); ok {
			return Borrowed(data), nil
		}
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return Buffer{}, err
	}
	return Owned(data), nil
}

// JoinDirs joins the model file directory, mesh directory, and file name
// into a single resolvable path.
func JoinDirs(modelFileDir, meshDir, file string) string {
	out := file
	if meshDir != "" {
		out = joinPath(meshDir, out)
	}
	if modelFileDir != "" {
		out = joinPath(modelFileDir, out)
	}
	return out
}

func joinPath(a, b string) string {
	if a == "" {
		return b
	}
	if a[len(a)-1] == '/' {
		return a + b
	}
	return a + "/" + b
}
