package osfile

import (
	"context"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/datatug/drivetug/pkg/files"
	"github.com/datatug/drivetug/pkg/files/drives"
)

var detectFile = mimetype.DetectFile

var mimeClasses = map[string]files.ContentClass{
	"text/plain":                   files.ContentText,
	"application/json":             files.ContentText,
	"application/xml":              files.ContentText,
	"image/png":                    files.ContentGraphics,
	"image/bmp":                    files.ContentGraphics,
	"application/zip":              files.ContentArchive,
	"application/gzip":             files.ContentArchive,
	"application/x-tar":            files.ContentArchive,
	"application/x-7z-compressed":  files.ContentArchive,
	"application/x-elf":            files.ContentExecutable,
	"application/x-executable":     files.ContentExecutable,
	"application/x-iso9660-image":  files.ContentImage,
	"application/x-virtualbox-vhd": files.ContentImage,
}

// ClassifyContent sniffs the file with mimetype and merges the result with
// the extension based classes.
func (s *Store) ClassifyContent(ctx context.Context, p string) files.ContentClass {
	class := drives.ClassifyName(path.Base(p))
	if ctx.Err() != nil {
		return class
	}
	mtype, err := detectFile(s.hostPath(p))
	if err != nil {
		return class
	}
	for m := mtype; m != nil; m = m.Parent() {
		name, _, _ := strings.Cut(m.String(), ";")
		if c, ok := mimeClasses[name]; ok {
			return class | c
		}
	}
	return class
}
