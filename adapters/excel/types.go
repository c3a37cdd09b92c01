package excel

// SheetData is a spreadsheet read as trimmed strings
type SheetData struct {
	Headers []string   // Column headers
	Rows    [][]string // Data rows, one cell per header
}

// Column returns the index of header name
func (d *SheetData) Column(name string) (int, bool) {
	for i, h := range d.Headers {
		if h == name {
			return i, true
		}
	}
	return -1, false
}
