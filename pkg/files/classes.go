package files

// ContentClass describes a file's recognized format or purpose, independent
// of where it is stored.
type ContentClass uint64

const (
	ContentText ContentClass = 1 << iota
	ContentScript
	ContentImage // a mountable disk or partition image
	ContentArchive
	ContentExecutable
	ContentEncrypted     // can be decrypted
	ContentTransformable // can be encrypted/decrypted in place
	ContentGraphics
	ContentFont
	ContentVerifiable
	ContentRenamable // has a canonical name that can be applied
	ContentNone ContentClass = 0
)

var contentNames = []struct {
	c    ContentClass
	name string
}{
	{ContentText, "text"},
	{ContentScript, "script"},
	{ContentImage, "image"},
	{ContentArchive, "archive"},
	{ContentExecutable, "executable"},
	{ContentEncrypted, "encrypted"},
	{ContentTransformable, "transformable"},
	{ContentGraphics, "graphics"},
	{ContentFont, "font"},
	{ContentVerifiable, "verifiable"},
	{ContentRenamable, "renamable"},
}

func (c ContentClass) Has(f ContentClass) bool { return c&f == f }

func (c ContentClass) Any(f ContentClass) bool { return c&f != 0 }

func (c ContentClass) String() string {
	return flagString(uint64(c), func(yield func(uint64, string) bool) {
		for _, n := range contentNames {
			if !yield(uint64(n.c), n.name) {
				return
			}
		}
	})
}

// DriveClass describes the backing medium and mount type of a listing.
type DriveClass uint64

const (
	DriveRemovable DriveClass = 1 << iota
	DriveInternal
	DriveImage   // created by mounting an image file
	DriveVirtual // synthesized files, no regular directory semantics
	DriveSearch  // query result set
	DriveRAM
	DriveRemote
	DriveReadOnly
	DrivePrimary  // the writable primary backend holding the output area
	DriveStandard // regular hierarchical file system, supports move
	DriveNone DriveClass = 0
)

var driveNames = []struct {
	c    DriveClass
	name string
}{
	{DriveRemovable, "removable"},
	{DriveInternal, "internal"},
	{DriveImage, "image"},
	{DriveVirtual, "virtual"},
	{DriveSearch, "search"},
	{DriveRAM, "ram"},
	{DriveRemote, "remote"},
	{DriveReadOnly, "readonly"},
	{DrivePrimary, "primary"},
	{DriveStandard, "standard"},
}

func (c DriveClass) Has(f DriveClass) bool { return c&f == f }

func (c DriveClass) Any(f DriveClass) bool { return c&f != 0 }

func (c DriveClass) String() string {
	return flagString(uint64(c), func(yield func(uint64, string) bool) {
		for _, n := range driveNames {
			if !yield(uint64(n.c), n.name) {
				return
			}
		}
	})
}

func flagString(v uint64, names func(yield func(uint64, string) bool)) string {
	if v == 0 {
		return "none"
	}
	var s string
	names(func(f uint64, name string) bool {
		if v&f != 0 {
			if s != "" {
				s += "|"
			}
			s += name
		}
		return true
	})
	return s
}
