package utils

import (
	"bufio"
	"encoding/json"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// Check logs err and exits if err is not nil. It is only meant for the
// CLI boundary.
func Check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

// OutputJSON writes the indented JSON representation of v to w.
func OutputJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	if bw, ok := w.(*bufio.Writer); ok {
		return bw.Flush()
	}
	return nil
}

// NewWriter returns an io.Writer for the given output file name. If the
// name is '-' os.Stdout is returned.
func NewWriter(output string) io.Writer {
	switch output {
	case "-":
		return os.Stdout
	default:
		f, err := os.Create(output)
		Check(err)
		return bufio.NewWriter(f)
	}
}
