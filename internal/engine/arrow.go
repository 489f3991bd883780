package engine

import (
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"coviddash/internal/models"
)

// RecordSchema is the Arrow layout of a ColumnStore. The day column is the
// calendar day in the source location, which the UTC timestamp alone loses.
var RecordSchema = arrow.NewSchema([]arrow.Field{
	{Name: "region", Type: arrow.BinaryTypes.String},
	{Name: "date", Type: arrow.FixedWidthTypes.Timestamp_ns},
	{Name: "deaths", Type: arrow.PrimitiveTypes.Int64},
	{Name: "day", Type: arrow.FixedWidthTypes.Date32},
}, nil)

// ToArrow copies the store into a single Arrow record. The caller owns the
// record and must Release it.
func (cs *ColumnStore) ToArrow(mem memory.Allocator) arrow.Record {
	b := array.NewRecordBuilder(mem, RecordSchema)
	defer b.Release()

	regions := b.Field(0).(*array.StringBuilder)
	dates := b.Field(1).(*array.TimestampBuilder)
	deaths := b.Field(2).(*array.Int64Builder)
	days := b.Field(3).(*array.Date32Builder)

	n := cs.Len()
	regions.Reserve(n)
	dates.Reserve(n)
	deaths.Reserve(n)
	days.Reserve(n)

	for i := 0; i < n; i++ {
		if r, ok := cs.Region(i); ok {
			regions.Append(r)
		} else {
			regions.AppendNull()
		}
		dates.Append(arrow.Timestamp(cs.Dates[i].UnixNano()))
		deaths.Append(cs.Deaths[i])
		days.Append(arrow.Date32FromTime(models.DayFromKey(cs.Days[i]).Time()))
	}

	return b.NewRecord()
}
