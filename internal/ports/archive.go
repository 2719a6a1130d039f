package ports

// ArchiveExtractor inspects and unpacks the downloaded SDK archive.
type ArchiveExtractor interface {
	// Validate checks that the first entry of the archive starts with prefix.
	// It must not write anything to disk.
	Validate(archivePath, prefix string) error
	// Extract unpacks every entry under destDir, keeping archive paths.
	Extract(archivePath, destDir string) error
}
