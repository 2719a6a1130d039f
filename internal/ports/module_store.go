package ports

// ModuleStore performs the filesystem moves and removals of the pipeline.
type ModuleStore interface {
	// Relocate moves src to dst. dst must not exist yet.
	Relocate(src, dst string) error
	// Remove deletes a file or directory tree. A missing path is not an error;
	// removed reports whether anything was there.
	Remove(path string) (removed bool, err error)
}
