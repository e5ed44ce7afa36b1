package types

// ArchiveResult represents the output of a successful archiving run.
type ArchiveResult struct {
	ArchivePath     string          // The absolute path to the generated zip file
	SourceDir       string          // The absolute path of the archived directory
	FileCount       int             // Total number of entries written
	SizeBytes       int64           // Total uncompressed size of all entries
	RemovedPrevious bool            // Whether an older archive was deleted first
	Manifest        ArchiveManifest // The manifest describing the archive contents
}
