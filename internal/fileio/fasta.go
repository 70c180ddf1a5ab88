package fileio

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Record is one FASTA entry. IDs are the first whitespace-delimited
// token of the header line.
type Record struct {
	ID  string
	Seq string
}

// ReadFASTA reads every record of a (possibly compressed) multi-FASTA
// file into memory. Sequence lines are concatenated verbatim; case is
// preserved for the caller to normalize.
func ReadFASTA(path string) ([]Record, error) {
	reader, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var records []Record
	var id string
	var seq strings.Builder

	flush := func() {
		if id != "" {
			records = append(records, Record{ID: id, Seq: seq.String()})
		}
		seq.Reset()
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.HasPrefix(line, ">") {
			flush()
			fields := strings.Fields(line[1:])
			if len(fields) == 0 {
				return nil, fmt.Errorf("%s: FASTA header with no identifier", path)
			}
			id = fields[0]
			continue
		}
		if id == "" && line != "" {
			return nil, fmt.Errorf("%s: sequence data before the first FASTA header", path)
		}
		seq.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	return records, nil
}

// WriteFASTA writes records with sequences wrapped at 80 columns.
func WriteFASTA(w io.Writer, records []Record) error {
	const width = 80

	for _, record := range records {
		if _, err := fmt.Fprintf(w, ">%s\n", record.ID); err != nil {
			return err
		}
		for start := 0; start < len(record.Seq); start += width {
			end := start + width
			if end > len(record.Seq) {
				end = len(record.Seq)
			}
			if _, err := fmt.Fprintln(w, record.Seq[start:end]); err != nil {
				return err
			}
		}
	}
	return nil
}
