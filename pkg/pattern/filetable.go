package pattern

// File statuses.
const (
	FilePresent = "present"
	FileMissing = "missing"
	FileExtra   = "extra"
)

// FileTable lists the files a job was expected to leave and what came back.
type FileTable struct {
	Label string          `json:"label"`
	Files []FileTableItem `json:"files"`
}

// FileTableItem is one file.
type FileTableItem struct {
	Name     string `json:"name"`
	Status   string `json:"status"`
	Expected bool   `json:"expected"`
	Details  string `json:"details,omitempty"`
}

func (f *FileTable) Type() PatternType { return PatternTypeFileTable }

// Missing counts files with FileMissing status.
func (f *FileTable) Missing() int {
	n := 0
	for _, it := range f.Files {
		if it.Status == FileMissing {
			n++
		}
	}
	return n
}
