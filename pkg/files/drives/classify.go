package drives

import (
	"path"
	"strings"

	"github.com/datatug/drivetug/pkg/files"
)

var extClasses = map[string]files.ContentClass{
	".txt":  files.ContentText,
	".md":   files.ContentText,
	".log":  files.ContentText,
	".ini":  files.ContentText,
	".cfg":  files.ContentText,
	".json": files.ContentText,
	".xml":  files.ContentText,
	".lua":  files.ContentText | files.ContentScript,
	".gm9":  files.ContentText | files.ContentScript,
	".img":  files.ContentImage,
	".iso":  files.ContentImage,
	".fat":  files.ContentImage,
	".vhd":  files.ContentImage,
	".bin":  files.ContentImage,
	".zip":  files.ContentArchive,
	".tar":  files.ContentArchive,
	".gz":   files.ContentArchive,
	".7z":   files.ContentArchive,
	".firm": files.ContentExecutable | files.ContentVerifiable,
	".elf":  files.ContentExecutable,
	".cia":  files.ContentArchive | files.ContentEncrypted | files.ContentTransformable | files.ContentVerifiable,
	".ncch": files.ContentImage | files.ContentEncrypted | files.ContentTransformable | files.ContentVerifiable | files.ContentRenamable,
	".cxi":  files.ContentImage | files.ContentEncrypted | files.ContentTransformable | files.ContentVerifiable | files.ContentRenamable,
	".3ds":  files.ContentImage | files.ContentEncrypted | files.ContentTransformable | files.ContentVerifiable | files.ContentRenamable,
	".png":  files.ContentGraphics,
	".bmp":  files.ContentGraphics,
	".pbm":  files.ContentFont,
	".frf":  files.ContentFont,
	".sha":  files.ContentVerifiable,
}

// ClassifyName classifies a file by its extension alone. Backends without
// content inspection fall back to it.
func ClassifyName(name string) files.ContentClass {
	return extClasses[strings.ToLower(path.Ext(name))]
}
