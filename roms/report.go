package roms

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteReport writes a table of the verification results.
func (imgs *Images) WriteReport(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tREGION\tOFFSET\tSIZE\tCRC32\tSHA1\tSTATUS")
	for _, c := range imgs.Checks {
		status := "ok"
		switch {
		case c.CRC != c.File.CRC:
			status = fmt.Sprintf("bad crc, want %08x", c.File.CRC)
		case c.SHA1 != c.File.SHA1:
			status = "bad sha1, want " + c.File.SHA1
		}
		fmt.Fprintf(tw, "%s\t%s\t%#05x\t%#05x\t%08x\t%s\t%s\n",
			c.File.Name, c.File.Region, c.File.Offset, c.File.Size, c.CRC, c.SHA1, status)
	}
	return tw.Flush()
}
