package forecaster

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/aouyang1/go-climate-forecaster/target"
	"github.com/aouyang1/go-climate-forecaster/timedataset"
	"github.com/goccy/go-json"
)

// ColumnHistorical names the observed values column of every table
const ColumnHistorical = "Historical"

// Table is the assembled forecast of one target with one row per calendar month. Historical values
// occupy the observed months and model predictions the horizon months. NaN marks a null cell. A
// table is never modified after creation so it is safe to share across goroutines.
type Table struct {
	target        target.Target
	dates         []time.Time
	columns       []string
	values        [][]float64 // values[col][row]
	startKey      int
	historyEnd    time.Time
	lookupDefault float64
}

// newTable joins the history and the horizon predictions by month key. Rows span from the first
// historical month through the later of the last horizon month and the last historical month.
func newTable(tgt target.Target, history *timedataset.TimeDataset, hz []time.Time, names []string, preds [][]float64, lookupDefault float64) *Table {
	start := timedataset.MonthEnd(history.T[0])
	end := timedataset.MonthEnd(history.T[len(history.T)-1])
	historyEnd := end
	if len(hz) > 0 && hz[len(hz)-1].After(end) {
		end = timedataset.MonthEnd(hz[len(hz)-1])
	}

	tbl := &Table{
		target:        tgt,
		dates:         timedataset.MonthRange(start, end),
		columns:       append([]string{ColumnHistorical}, names...),
		startKey:      timedataset.MonthKey(start),
		historyEnd:    historyEnd,
		lookupDefault: lookupDefault,
	}
	tbl.values = make([][]float64, len(tbl.columns))
	for c := range tbl.values {
		col := make([]float64, len(tbl.dates))
		for i := range col {
			col[i] = math.NaN()
		}
		tbl.values[c] = col
	}

	for i, t := range history.T {
		if row, ok := tbl.rowIndex(t); ok {
			tbl.values[0][row] = history.Y[i]
		}
	}
	for c, pred := range preds {
		for i, t := range hz {
			if row, ok := tbl.rowIndex(t); ok {
				tbl.values[c+1][row] = pred[i]
			}
		}
	}
	return tbl
}

func (t *Table) rowIndex(date time.Time) (int, bool) {
	row := timedataset.MonthKey(date) - t.startKey
	if row < 0 || row >= len(t.dates) {
		return -1, false
	}
	return row, true
}

// Target returns the target the table was assembled for
func (t *Table) Target() target.Target {
	return t.target
}

// Len returns the number of monthly rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.dates)
}

// Dates returns a copy of the month-end date of every row
func (t *Table) Dates() []time.Time {
	out := make([]time.Time, len(t.dates))
	copy(out, t.dates)
	return out
}

// Columns returns a copy of the column names in table order
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Column returns a copy of the named column
func (t *Table) Column(name string) ([]float64, bool) {
	for c, col := range t.columns {
		if col == name {
			out := make([]float64, len(t.values[c]))
			copy(out, t.values[c])
			return out, true
		}
	}
	return nil, false
}

// HistoryEnd returns the last historical month
func (t *Table) HistoryEnd() time.Time {
	return t.historyEnd
}

// Row returns every column of the month containing date with NaN for null cells
func (t *Table) Row(date time.Time) (map[string]float64, error) {
	row, ok := t.rowIndex(date)
	if !ok {
		return nil, &LookupError{Date: timedataset.MonthEnd(date), Err: ErrDateOutOfRange}
	}
	res := make(map[string]float64, len(t.columns))
	for c, col := range t.columns {
		res[col] = t.values[c][row]
	}
	return res, nil
}

// Lookup returns the columns of the month containing date. Null model cells are replaced by the
// configured default. Historical is only present for observed months.
func (t *Table) Lookup(date time.Time) (map[string]float64, error) {
	res, err := t.Row(date)
	if err != nil {
		return nil, err
	}
	for col, v := range res {
		if !math.IsNaN(v) {
			continue
		}
		if col == ColumnHistorical {
			delete(res, col)
			continue
		}
		res[col] = t.lookupDefault
	}
	return res, nil
}

type tableJSON struct {
	Target  target.Target `json:"target"`
	Columns []string      `json:"columns"`
	Rows    []rowJSON     `json:"rows"`
}

type rowJSON struct {
	Date   string     `json:"date"`
	Values []*float64 `json:"values"`
}

// MarshalJSON renders rows with values ordered as Columns and null cells as null
func (t *Table) MarshalJSON() ([]byte, error) {
	out := tableJSON{
		Target:  t.target,
		Columns: t.columns,
		Rows:    make([]rowJSON, 0, len(t.dates)),
	}
	for i, date := range t.dates {
		row := rowJSON{
			Date:   date.Format(time.DateOnly),
			Values: make([]*float64, len(t.columns)),
		}
		for c := range t.columns {
			if v := t.values[c][i]; !math.IsNaN(v) {
				row.Values[c] = &v
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return json.Marshal(out)
}

// TablePrint writes the table as aligned text with '-' for null cells
func (t *Table) TablePrint(w io.Writer) error {
	tbl := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprint(tbl, "Date\t"); err != nil {
		return err
	}
	for _, col := range t.columns {
		if _, err := fmt.Fprintf(tbl, "%s\t", col); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(tbl); err != nil {
		return err
	}

	for i, date := range t.dates {
		if _, err := fmt.Fprintf(tbl, "%s\t", date.Format("2006-01")); err != nil {
			return err
		}
		for c := range t.columns {
			cell := "-"
			if v := t.values[c][i]; !math.IsNaN(v) {
				cell = strconv.FormatFloat(v, 'f', 3, 64)
			}
			if _, err := fmt.Fprintf(tbl, "%s\t", cell); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(tbl); err != nil {
			return err
		}
	}
	return tbl.Flush()
}
