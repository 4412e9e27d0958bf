package model

// ChecksumRecord is a single line of the checksum file
type ChecksumRecord struct {
	Name   string
	Digest string // lowercase hex
}

// Line serializes the record as "<name>\t<digest>\n"
func (x ChecksumRecord) Line() string {
	return x.Name + "\t" + x.Digest + "\n"
}
