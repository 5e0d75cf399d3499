package analytics

import (
	"fmt"
	"math"

	"github.com/Skufu/medplat/internal/dataset"
)

const DefaultThreshold = 2.0

// AnomalyReport lists the rows whose value lies more than Threshold
// standard deviations from the mean.
type AnomalyReport struct {
	Field        string        `json:"field"`
	Mean         float64       `json:"mean"`
	StdDev       float64       `json:"stddev"`
	Threshold    float64       `json:"threshold"`
	AnomalyCount int           `json:"anomaly_count"`
	Anomalies    []dataset.Row `json:"anomalies"`
}

// Threshold accepts only a positive finite number; anything else, including
// numeric strings, falls back to DefaultThreshold.
func Threshold(v any) float64 {
	f, ok := v.(float64)
	if !ok || f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return DefaultThreshold
	}
	return f
}

// DetectAnomalies flags rows where |v - mean| > threshold * stddev, using the
// population standard deviation over every coercible value of field.
func DetectAnomalies(rows []dataset.Row, field string, threshold float64) (*AnomalyReport, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	values := dataset.Values(rows, field)
	if len(values) == 0 {
		return nil, fmt.Errorf("%w for field '%s'", ErrNoNumericData, field)
	}
	mean := Mean(values)
	stddev := PopulationStdDev(values)

	report := &AnomalyReport{
		Field:     field,
		Mean:      mean,
		StdDev:    stddev,
		Threshold: threshold,
		Anomalies: []dataset.Row{},
	}
	limit := threshold * stddev
	for _, row := range rows {
		raw, _ := row.Get(field)
		v, ok := dataset.Number(raw)
		if !ok {
			continue
		}
		if math.Abs(v-mean) > limit {
			report.Anomalies = append(report.Anomalies, row)
		}
	}
	report.AnomalyCount = len(report.Anomalies)
	return report, nil
}
