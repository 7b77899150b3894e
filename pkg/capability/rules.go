package capability

import "github.com/datatug/drivetug/pkg/files"

// Predicate is a conjunction of conditions. Zero fields do not constrain.
type Predicate struct {
	Kinds           []files.EntryKind
	RequireContent  files.ContentClass // all of these
	AnyContent      files.ContentClass // at least one of these
	RequireDrive    files.DriveClass   // all of these
	ForbidDrive     files.DriveClass   // none of these
	NotInStaging    bool
	RequireElevated bool
	NeedClipboard   bool
	NeedFileInClip  bool
}

// Rule grants Op when its predicate holds. Several rules for the same Op
// are alternatives.
type Rule struct {
	Op   Op
	When Predicate
}

var (
	entries    = []files.EntryKind{files.KindFile, files.KindDirectory}
	fileOnly   = []files.EntryKind{files.KindFile}
	containers = []files.EntryKind{files.KindDirectory, files.KindDriveRoot}
	listing    = []files.EntryKind{files.KindDirectory}

	noWrites = files.DriveReadOnly | files.DriveVirtual | files.DriveSearch
)

// DefaultRules is the operation table of the file browser. Internal drives
// accept writes only with elevated write permission.
var DefaultRules = []Rule{
	{HexView, Predicate{Kinds: fileOnly}},
	{TextView, Predicate{Kinds: fileOnly, AnyContent: files.ContentText | files.ContentScript}},
	{Info, Predicate{Kinds: entries}},
	{DirInfo, Predicate{Kinds: containers, ForbidDrive: files.DriveSearch}},
	{Search, Predicate{Kinds: containers, ForbidDrive: files.DriveSearch}},
	{OpenContaining, Predicate{Kinds: entries, RequireDrive: files.DriveSearch}},
	{CopyToStaging, Predicate{Kinds: entries, NotInStaging: true}},
	{Mount, Predicate{Kinds: fileOnly, RequireContent: files.ContentImage, ForbidDrive: files.DriveImage}},
	{TransformInPlace, Predicate{
		Kinds:          fileOnly,
		RequireContent: files.ContentTransformable,
		RequireDrive:   files.DrivePrimary,
		ForbidDrive:    noWrites,
		NotInStaging:   true,
	}},
	{TransformToStaging, Predicate{Kinds: fileOnly, RequireContent: files.ContentTransformable}},
	{Inject, Predicate{Kinds: fileOnly, NeedFileInClip: true, ForbidDrive: noWrites | files.DriveInternal}},
	{Inject, Predicate{Kinds: fileOnly, NeedFileInClip: true, RequireDrive: files.DriveInternal, ForbidDrive: noWrites, RequireElevated: true}},
	{Paste, Predicate{Kinds: listing, NeedClipboard: true, ForbidDrive: noWrites | files.DriveInternal}},
	{Paste, Predicate{Kinds: listing, NeedClipboard: true, RequireDrive: files.DriveInternal, ForbidDrive: noWrites, RequireElevated: true}},
	{Rename, Predicate{Kinds: entries, ForbidDrive: noWrites | files.DriveInternal}},
	{Rename, Predicate{Kinds: entries, RequireDrive: files.DriveInternal, ForbidDrive: noWrites, RequireElevated: true}},
	{Delete, Predicate{Kinds: entries, ForbidDrive: noWrites | files.DriveInternal}},
	{Delete, Predicate{Kinds: entries, RequireDrive: files.DriveInternal, ForbidDrive: noWrites, RequireElevated: true}},
	{Create, Predicate{Kinds: listing, ForbidDrive: noWrites | files.DriveInternal}},
	{Create, Predicate{Kinds: listing, RequireDrive: files.DriveInternal, ForbidDrive: noWrites, RequireElevated: true}},
}

// Match reports whether every condition of p holds for c.
func (p Predicate) Match(c Context) bool {
	return p.Explain(c) == ""
}

// Explain returns why p does not hold for c, or "" if it does.
func (p Predicate) Explain(c Context) string {
	if len(p.Kinds) > 0 && !kindIn(c.Kind, p.Kinds) {
		return "not available for " + c.Kind.String()
	}
	if !c.Content.Has(p.RequireContent) || (p.AnyContent != 0 && !c.Content.Any(p.AnyContent)) {
		return "not available for this file type"
	}
	if bad := c.Drive & p.ForbidDrive; bad != 0 {
		return driveReason(bad)
	}
	if !c.Drive.Has(p.RequireDrive) {
		return "not available on this drive"
	}
	if p.NotInStaging && c.InStaging {
		return "already in output"
	}
	if p.RequireElevated && !c.WriteElevated {
		return "write permission required"
	}
	if p.NeedClipboard && c.ClipboardSize == 0 {
		return "clipboard is empty"
	}
	if p.NeedFileInClip && !c.ClipboardFile {
		return "clipboard must hold one file"
	}
	return ""
}

func kindIn(k files.EntryKind, kinds []files.EntryKind) bool {
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

func driveReason(bad files.DriveClass) string {
	switch {
	case bad.Has(files.DriveSearch):
		return "not allowed in search drive"
	case bad.Has(files.DriveVirtual):
		return "not allowed in virtual path"
	case bad.Has(files.DriveReadOnly):
		return "not allowed on read-only drive"
	case bad.Has(files.DriveInternal):
		return "write permission required"
	case bad.Has(files.DriveImage):
		return "not allowed in mounted image"
	default:
		return "not allowed on this drive"
	}
}

// Resolve evaluates DefaultRules.
func Resolve(c Context) OpSet {
	return ResolveWith(DefaultRules, c)
}

func ResolveWith(rules []Rule, c Context) OpSet {
	var set OpSet
	for _, r := range rules {
		if !set.Has(r.Op) && r.When.Match(c) {
			set = set.With(r.Op)
		}
	}
	return set
}

// Blocked explains why op is not offered in c using DefaultRules, or
// returns "" when it is.
func Blocked(c Context, op Op) string {
	return BlockedWith(DefaultRules, c, op)
}

// BlockedWith returns the reason of the first alternative for op.
func BlockedWith(rules []Rule, c Context, op Op) string {
	reason := ""
	for _, r := range rules {
		if r.Op != op {
			continue
		}
		why := r.When.Explain(c)
		if why == "" {
			return ""
		}
		if reason == "" {
			reason = why
		}
	}
	if reason == "" {
		return "not available"
	}
	return reason
}
