package files

// PaneData remembers one navigation position. An empty Path is the drive
// selection root.
type PaneData struct {
	Path   string
	Cursor int
	Scroll int
}
