package cachestore

import (
	"fmt"
	"time"

	"github.com/dekarrin/dpc/internal/diag"
)

// Entry is the tiny fixed record persisted per canonical URI: enough to
// answer a repeat GetCachedCompileResult without a full recompile on first
// request after a restart, but not the full SIR (statement trees aren't
// persisted — see DESIGN.md for why that scope was deliberately kept
// small rather than reaching for a reflective serializer).
type Entry struct {
	SourceID    string
	Timestamp   time.Time
	Success     bool
	Diagnostics []diag.Diagnostic
	LabelNames  []string
}

// MarshalBinary always returns a nil error.
func (e Entry) MarshalBinary() ([]byte, error) {
	data := encBinaryString(e.SourceID)
	data = append(data, encBinaryInt(int(e.Timestamp.Unix()))...)
	data = append(data, encBinaryBool(e.Success)...)

	data = append(data, encBinaryInt(len(e.Diagnostics))...)
	for _, d := range e.Diagnostics {
		data = append(data, encBinaryString(d.Message)...)
		data = append(data, encBinaryInt(d.Line)...)
		data = append(data, encBinaryInt(d.Column)...)
		data = append(data, encBinaryInt(int(d.Severity))...)
	}

	data = append(data, encBinaryStringSlice(e.LabelNames)...)

	return data, nil
}

func (e *Entry) UnmarshalBinary(data []byte) error {
	var n int
	var err error

	e.SourceID, n, err = decBinaryString(data)
	if err != nil {
		return err
	}
	data = data[n:]

	ts, n, err := decBinaryInt(data)
	if err != nil {
		return err
	}
	e.Timestamp = time.Unix(int64(ts), 0)
	data = data[n:]

	e.Success, n, err = decBinaryBool(data)
	if err != nil {
		return err
	}
	data = data[n:]

	diagCount, n, err := decBinaryInt(data)
	if err != nil {
		return err
	}
	data = data[n:]

	if diagCount < 0 {
		return fmt.Errorf("cachestore: negative diagnostic count")
	}

	e.Diagnostics = make([]diag.Diagnostic, 0, diagCount)
	for i := 0; i < diagCount; i++ {
		var d diag.Diagnostic

		d.Message, n, err = decBinaryString(data)
		if err != nil {
			return err
		}
		data = data[n:]

		d.Line, n, err = decBinaryInt(data)
		if err != nil {
			return err
		}
		data = data[n:]

		d.Column, n, err = decBinaryInt(data)
		if err != nil {
			return err
		}
		data = data[n:]

		var sev int
		sev, n, err = decBinaryInt(data)
		if err != nil {
			return err
		}
		d.Severity = diag.Severity(sev)
		data = data[n:]

		e.Diagnostics = append(e.Diagnostics, d)
	}

	e.LabelNames, _, err = decBinaryStringSlice(data)
	if err != nil {
		return err
	}

	return nil
}
