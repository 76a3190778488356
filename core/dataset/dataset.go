package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/evbms/core/scaling"
)

// CategoricalColumns are the dataset columns that get label-encoded.
var CategoricalColumns = []string{"Charging Mode", "Battery Type", "EV Model"}

// ExcludedColumn is dropped from the numeric feature set alongside the
// categorical columns.
const ExcludedColumn = "Optimal Charging Duration Class"

// ErrNoRows indicates that no dataset rows match the requested EV model.
var ErrNoRows = errors.New("no rows for requested ev model")

// Dataset holds the numeric feature matrix and encoded categorical columns of
// the battery charging data. It is populated once at startup and read-only
// afterwards.
type Dataset struct {
	featureNames []string
	data         *mat.Dense
	modelCodes   []int
	encoders     map[string]*scaling.LabelEncoder
}

// Load reads a CSV dataset, drops rows with missing or unparsable values,
// fits a label encoder per categorical column and keeps the remaining columns
// as the numeric feature set.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("dataset %s has no data rows", path)
	}

	header := records[0]
	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[name] = i
	}
	for _, col := range CategoricalColumns {
		if _, ok := colIdx[col]; !ok {
			return nil, fmt.Errorf("missing column %q in dataset", col)
		}
	}

	catIdx := map[int]bool{}
	for _, col := range CategoricalColumns {
		catIdx[colIdx[col]] = true
	}
	if i, ok := colIdx[ExcludedColumn]; ok {
		catIdx[i] = true
	}
	var featureNames []string
	var featureIdx []int
	for i, name := range header {
		if catIdx[i] {
			continue
		}
		featureNames = append(featureNames, name)
		featureIdx = append(featureIdx, i)
	}
	if len(featureNames) == 0 {
		return nil, fmt.Errorf("dataset %s has no numeric feature columns", path)
	}

	// Row filter: keep only fully populated, parsable rows.
	var values []float64
	var catValues = map[string][]string{}
	kept := 0
rows:
	for _, rec := range records[1:] {
		if len(rec) != len(header) {
			continue
		}
		rowVals := make([]float64, len(featureIdx))
		for j, idx := range featureIdx {
			v, err := strconv.ParseFloat(rec[idx], 64)
			if err != nil {
				continue rows
			}
			rowVals[j] = v
		}
		for _, col := range CategoricalColumns {
			if rec[colIdx[col]] == "" {
				continue rows
			}
		}
		values = append(values, rowVals...)
		for _, col := range CategoricalColumns {
			catValues[col] = append(catValues[col], rec[colIdx[col]])
		}
		kept++
	}
	if kept == 0 {
		return nil, fmt.Errorf("dataset %s has no usable rows", path)
	}

	encoders := make(map[string]*scaling.LabelEncoder, len(CategoricalColumns))
	for _, col := range CategoricalColumns {
		enc := &scaling.LabelEncoder{}
		enc.Fit(catValues[col])
		encoders[col] = enc
	}
	modelCodes := make([]int, kept)
	modelEnc := encoders["EV Model"]
	for i, label := range catValues["EV Model"] {
		code, err := modelEnc.Transform(label)
		if err != nil {
			return nil, err
		}
		modelCodes[i] = code
	}

	return &Dataset{
		featureNames: featureNames,
		data:         mat.NewDense(kept, len(featureNames), values),
		modelCodes:   modelCodes,
		encoders:     encoders,
	}, nil
}

// FeatureNames returns the numeric feature names in column order.
func (d *Dataset) FeatureNames() []string { return d.featureNames }

// Len returns the number of usable rows.
func (d *Dataset) Len() int { return len(d.modelCodes) }

// Matrix exposes the numeric feature matrix, one row per dataset row.
func (d *Dataset) Matrix() mat.Matrix { return d.data }

// Encoder returns the fitted label encoder for a categorical column, or nil.
func (d *Dataset) Encoder(column string) *scaling.LabelEncoder { return d.encoders[column] }

// MeanVector averages all rows whose EV Model matches the given label.
func (d *Dataset) MeanVector(evModel string) ([]float64, error) {
	code, err := d.encoders["EV Model"].Transform(evModel)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoRows, evModel)
	}
	sum := make([]float64, len(d.featureNames))
	n := 0
	for i, c := range d.modelCodes {
		if c != code {
			continue
		}
		for j := range sum {
			sum[j] += d.data.At(i, j)
		}
		n++
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRows, evModel)
	}
	for j := range sum {
		sum[j] /= float64(n)
	}
	return sum, nil
}

// RandomRow returns a copy of a random dataset row.
func (d *Dataset) RandomRow(rng *rand.Rand) []float64 {
	i := rng.Intn(d.Len())
	row := make([]float64, len(d.featureNames))
	mat.Row(row, i, d.data)
	return row
}
