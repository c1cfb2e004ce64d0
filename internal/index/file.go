package index

// IndexFile is the deserialized content of one blob.
//
// The declaration tables are kept in blob order so that walking them is
// deterministic for a given blob.
type IndexFile struct {
	// Path is the name the blob was read from, assigned by the deserializer.
	Path          string   `json:"-"`
	Language      int      `json:"language"`
	LastWriteTime int64    `json:"last_write_time"`
	Args          []string `json:"args,omitempty"`
	FileContents  string   `json:"-"`

	Funcs []Func `json:"usr2func"`
	Types []Type `json:"usr2type"`
	Vars  []Var  `json:"usr2var"`
}
