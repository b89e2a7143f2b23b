package fwd

import (
	"path/filepath"
	"strings"

	"github.com/qobs-build/qtvendor/internal/msg"
	"github.com/qobs-build/qtvendor/internal/qtconf"
)

// Split partitions headers into public and private, preserving order
func Split(headers []qtconf.HeaderFile) (public, private []qtconf.HeaderFile) {
	for _, h := range headers {
		if h.IsPrivate() {
			private = append(private, h)
		} else {
			public = append(public, h)
		}
	}
	return public, private
}

// WriteFilenameHeaders writes dir/<base name> for every header. Two headers
// with the same base name write the same file; the later one wins.
func WriteFilenameHeaders(dir string, headers []qtconf.HeaderFile) (int, error) {
	written := 0
	for _, h := range headers {
		if err := WriteForwardingHeader(filepath.Join(dir, h.BaseName()), h.Path); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// validTypeName rejects scanned names that are not a single file name
func validTypeName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

// WriteTypeHeaders scans every header and writes dir/<TypeName> for each
// detected type. A type found in several headers forwards to the last one.
// Names containing a path separator are skipped.
func WriteTypeHeaders(dir string, headers []qtconf.HeaderFile, scanner TypeScanner) (int, error) {
	written := 0
	for _, h := range headers {
		names, err := ScanFile(scanner, h.Path)
		if err != nil {
			return written, err
		}
		for _, name := range names {
			if !validTypeName(name) {
				msg.Debug("%s: skipping type name %q", h.BaseName(), name)
				continue
			}
			if err := WriteForwardingHeader(filepath.Join(dir, name), h.Path); err != nil {
				return written, err
			}
			written++
		}
		if len(names) > 0 {
			msg.Debug("%s: %d type headers", h.BaseName(), len(names))
		}
	}
	return written, nil
}
