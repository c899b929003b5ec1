// File: pkg/combine/config.go
package combine

// Options holds the configuration a Collector is constructed with.
type Options struct {
	ExtensionsFile   string // JSON file holding the extension allow-list; rewritten on every mutation.
	IgnoreFileName   string // Ignore file looked up at the root of each imported folder (e.g. ".combineignore"); empty disables it.
	GlobalIgnoreFile string // Optional ignore file applied to every folder import.
}

// FileDescription summarizes a single accepted file for listings.
type FileDescription struct {
	Path     string // Path as it was accepted.
	Name     string // Base name used in the combined header.
	Size     int64  // Size in bytes; -1 when the file could not be stat'ed.
	Language string // Detected language, empty when unknown.
	Binary   bool   // True when the leading bytes look binary.
}

// Rejection records a path that was not accepted during an import.
type Rejection struct {
	Path string
	Err  error
}

// ImportReport is the outcome of a batch import.
type ImportReport struct {
	Accepted []string    // Paths appended to the accepted list, in order.
	Rejected []Rejection // Paths refused, with the reason.
	Ignored  []string    // Paths skipped because an ignore rule matched.
}
