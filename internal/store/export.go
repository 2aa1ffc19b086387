package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/opdyn/polsweep/internal/aggregate"
)

// exportHeader is the column order shared by the CSV and Arrow exports.
var exportHeader = []string{
	"key", "translate", "tactic", "media", "citizen", "epsilon", "graph", "graph_param",
	"reps", "intercept", "slope", "variance", "start", "end", "delta", "max", "steps",
	"polarizing",
}

// ExportCSV writes the result table as CSV for spreadsheet use.
func ExportCSV(w io.Writer, table *aggregate.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, r := range table.Records {
		row := []string{
			r.Key(),
			strconv.Itoa(r.Params.Translate),
			r.Params.Tactic,
			r.Params.MediaDist,
			r.Params.CitizenDist,
			formatFloat(r.Params.Epsilon),
			r.Params.GraphType,
			formatFloat(r.Params.GraphParam),
			strconv.Itoa(r.Reps),
			formatFloat(r.Fit.Intercept),
			formatFloat(r.Fit.Slope),
			formatFloat(r.Fit.Variance),
			formatFloat(r.Fit.Start),
			formatFloat(r.Fit.End),
			formatFloat(r.Fit.Delta),
			formatFloat(r.Fit.Max),
			strconv.Itoa(r.Fit.Steps),
			strconv.FormatBool(r.Polarizing),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing record %s: %w", r.Key(), err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// arrowSchema describes the result table for Arrow IPC export.
var arrowSchema = arrow.NewSchema([]arrow.Field{
	{Name: "key", Type: arrow.BinaryTypes.String},
	{Name: "translate", Type: arrow.PrimitiveTypes.Int64},
	{Name: "tactic", Type: arrow.BinaryTypes.String},
	{Name: "media", Type: arrow.BinaryTypes.String},
	{Name: "citizen", Type: arrow.BinaryTypes.String},
	{Name: "epsilon", Type: arrow.PrimitiveTypes.Float64},
	{Name: "graph", Type: arrow.BinaryTypes.String},
	{Name: "graph_param", Type: arrow.PrimitiveTypes.Float64},
	{Name: "reps", Type: arrow.PrimitiveTypes.Int64},
	{Name: "intercept", Type: arrow.PrimitiveTypes.Float64},
	{Name: "slope", Type: arrow.PrimitiveTypes.Float64},
	{Name: "variance", Type: arrow.PrimitiveTypes.Float64},
	{Name: "start", Type: arrow.PrimitiveTypes.Float64},
	{Name: "end", Type: arrow.PrimitiveTypes.Float64},
	{Name: "delta", Type: arrow.PrimitiveTypes.Float64},
	{Name: "max", Type: arrow.PrimitiveTypes.Float64},
	{Name: "steps", Type: arrow.PrimitiveTypes.Int64},
	{Name: "polarizing", Type: arrow.FixedWidthTypes.Boolean},
}, nil)

// ExportArrow writes the result table as an Arrow IPC file, the format
// read directly by pandas/polars in the companion notebooks.
func ExportArrow(w io.Writer, table *aggregate.Table) error {
	b := array.NewRecordBuilder(memory.DefaultAllocator, arrowSchema)
	defer b.Release()

	for _, r := range table.Records {
		b.Field(0).(*array.StringBuilder).Append(r.Key())
		b.Field(1).(*array.Int64Builder).Append(int64(r.Params.Translate))
		b.Field(2).(*array.StringBuilder).Append(r.Params.Tactic)
		b.Field(3).(*array.StringBuilder).Append(r.Params.MediaDist)
		b.Field(4).(*array.StringBuilder).Append(r.Params.CitizenDist)
		b.Field(5).(*array.Float64Builder).Append(r.Params.Epsilon)
		b.Field(6).(*array.StringBuilder).Append(r.Params.GraphType)
		b.Field(7).(*array.Float64Builder).Append(r.Params.GraphParam)
		b.Field(8).(*array.Int64Builder).Append(int64(r.Reps))
		b.Field(9).(*array.Float64Builder).Append(r.Fit.Intercept)
		b.Field(10).(*array.Float64Builder).Append(r.Fit.Slope)
		b.Field(11).(*array.Float64Builder).Append(r.Fit.Variance)
		b.Field(12).(*array.Float64Builder).Append(r.Fit.Start)
		b.Field(13).(*array.Float64Builder).Append(r.Fit.End)
		b.Field(14).(*array.Float64Builder).Append(r.Fit.Delta)
		b.Field(15).(*array.Float64Builder).Append(r.Fit.Max)
		b.Field(16).(*array.Int64Builder).Append(int64(r.Fit.Steps))
		b.Field(17).(*array.BooleanBuilder).Append(r.Polarizing)
	}

	rec := b.NewRecord()
	defer rec.Release()

	// ipc.NewFileWriter needs an io.WriteSeeker for the file footer, so
	// assemble the file in memory and copy it to w.
	var sb seekBuffer
	fw, err := ipc.NewFileWriter(&sb, ipc.WithSchema(arrowSchema))
	if err != nil {
		return fmt.Errorf("creating Arrow writer: %w", err)
	}
	if err := fw.Write(rec); err != nil {
		fw.Close()
		return fmt.Errorf("writing Arrow record: %w", err)
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("closing Arrow writer: %w", err)
	}
	if _, err := w.Write(sb.buf); err != nil {
		return fmt.Errorf("writing Arrow file: %w", err)
	}
	return nil
}

// seekBuffer is an in-memory io.WriteSeeker backing the Arrow file
// writer.
type seekBuffer struct {
	buf []byte
	pos int
}

func (b *seekBuffer) Write(p []byte) (int, error) {
	if end := b.pos + len(p); end > len(b.buf) {
		b.buf = append(b.buf, make([]byte, end-len(b.buf))...)
	}
	n := copy(b.buf[b.pos:], p)
	b.pos += n
	return n, nil
}

func (b *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(b.pos) + offset
	case io.SeekEnd:
		pos = int64(len(b.buf)) + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if pos < 0 {
		return 0, fmt.Errorf("negative seek position %d", pos)
	}
	b.pos = int(pos)
	return pos, nil
}
