package vcfconv_api

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// An in-memory random access index over a FASTA reference: sequence names in
// file order plus the bases of every sequence.
type Reference struct {
	names []string
	seqs  map[string][]byte
}

// LoadReference reads a plain or gzip-compressed FASTA file.
func LoadReference(fname string) (*Reference, error) {
	file, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("could not load the reference %s: %w", fname, err)
	}
	defer file.Close()

	var input io.Reader = file
	if strings.HasSuffix(fname, ".gz") {
		gzReader, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("could not load the reference %s: %w", fname, err)
		}
		defer gzReader.Close()
		input = gzReader
	}

	ref := &Reference{seqs: map[string][]byte{}}
	scanner := bufio.NewScanner(input)
	const maxCapacity = 8 * 1000000 // 8 MB
	scanner.Buffer(make([]byte, maxCapacity), maxCapacity)

	name := ""
	var seq []byte
	flush := func() {
		if name == "" {
			return
		}
		ref.names = append(ref.names, name)
		ref.seqs[name] = seq
	}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			flush()
			name = strings.Fields(line[1:])[0]
			seq = []byte{}
			continue
		}
		if name == "" {
			return nil, fmt.Errorf("could not load the reference %s: sequence data before the first header", fname)
		}
		seq = append(seq, line...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not load the reference %s: %w", fname, err)
	}
	flush()

	if len(ref.names) == 0 {
		return nil, fmt.Errorf("could not load the reference %s: no sequences found", fname)
	}
	return ref, nil
}

// Sequences returns every reference sequence with its length, in the order
// they appear in the file.
func (ref *Reference) Sequences() []HeaderLineIdLength {
	sequences := make([]HeaderLineIdLength, len(ref.names))
	for i, name := range ref.names {
		sequences[i] = HeaderLineIdLength{
			Id:     name,
			Length: int64(len(ref.seqs[name])),
		}
	}
	return sequences
}

// FetchBase returns the base at a 1-based position.
func (ref *Reference) FetchBase(chrom string, pos int64) (byte, error) {
	seq, ok := ref.seqs[chrom]
	if !ok {
		return 0, fmt.Errorf("reference fetch failed at %s:%d: unknown sequence", chrom, pos)
	}
	if pos < 1 || pos > int64(len(seq)) {
		return 0, fmt.Errorf("reference fetch failed at %s:%d: position out of range", chrom, pos)
	}
	return seq[pos-1], nil
}
