package buildings

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egandro/thermomap/pkg/barchart"
)

func TestParseStatistic(t *testing.T) {
	tests := []struct {
		input    string
		expected Statistic
	}{
		{"", Temp},
		{"temp", Temp},
		{"statisticTemp", Temp},
		{"in-out", InMinusOut},
		{"statisticTinMinTout", InMinusOut},
		{"STATISTICTINMINTOUTNATURE", InMinusOutNature},
		{" in-out-nature ", InMinusOutNature},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStatistic(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := ParseStatistic("humidity")
	assert.True(t, errors.Is(err, ErrUnknownStatistic))
}

func TestStatistic_RoundTrip(t *testing.T) {
	for _, s := range Statistics {
		got, err := ParseStatistic(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	assert.Equal(t, "Statistic(7)", Statistic(7).String())
}

func TestStatistic_JSON(t *testing.T) {
	out, err := json.Marshal(map[string]Statistic{"s": InMinusOutNature})
	require.NoError(t, err)
	assert.JSONEq(t, `{"s": "statisticTinMinToutNature"}`, string(out))

	var got struct{ S Statistic }
	require.NoError(t, json.Unmarshal([]byte(`{"S": "in-out"}`), &got))
	assert.Equal(t, InMinusOut, got.S)
	assert.Error(t, json.Unmarshal([]byte(`{"S": "bogus"}`), &got))
}

func TestStatistic_LabelAndRange(t *testing.T) {
	tests := []struct {
		stat     Statistic
		label    string
		min, max float64
	}{
		{Temp, "T [°C]", -5, 35},
		{InMinusOut, "T_in - T_out [°C]", -2, 2},
		{InMinusOutNature, "T_in - T_out (no buildings) [°C]", -2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.stat.String(), func(t *testing.T) {
			assert.Equal(t, tt.label, tt.stat.Label())
			min, max := tt.stat.Range()
			assert.Equal(t, tt.min, min)
			assert.Equal(t, tt.max, max)
		})
	}
}

func TestStatistic_Of(t *testing.T) {
	r := Reading{Inside: 4, Outside: 1.5, OutsideNature: 5}
	assert.Equal(t, 4.0, Temp.Of(r))
	assert.Equal(t, 2.5, InMinusOut.Of(r))
	assert.Equal(t, -1.0, InMinusOutNature.Of(r))
}

func TestDayLabel(t *testing.T) {
	assert.Equal(t, "2020-11-17", DayLabel("2020-11-17 10:04:26.7534760Z"))
	assert.Equal(t, "2020-11-17", DayLabel("2020-11-17"))
	assert.Equal(t, "short", DayLabel("short"))
}

func TestBuilding_TimeSeries(t *testing.T) {
	nan := math.NaN()
	b := &Building{
		ID: "x",
		Temperature: map[string]Reading{
			"2020-12-19 10:04:26Z": {Inside: 3.5, Outside: 2.5, OutsideNature: 1},
			"2020-11-17 10:04:26Z": {Inside: 1.5, Outside: 2, OutsideNature: nan},
			"2021-02-21 09:00:00Z": {Inside: 0, Outside: 1, OutsideNature: 0},
			"2021-02-21 11:00:00Z": {Inside: 2, Outside: nan, OutsideNature: 0},
		},
	}

	tests := []struct {
		stat     Statistic
		expected []barchart.Datum
	}{
		{Temp, []barchart.Datum{
			{Label: "2020-11-17", Value: 1.5},
			{Label: "2020-12-19", Value: 3.5},
			{Label: "2021-02-21", Value: 2},
		}},
		{InMinusOut, []barchart.Datum{
			{Label: "2020-11-17", Value: -0.5},
			{Label: "2020-12-19", Value: 1},
			{Label: "2021-02-21", Value: -1},
		}},
		{InMinusOutNature, []barchart.Datum{
			{Label: "2020-12-19", Value: 2.5},
			{Label: "2021-02-21", Value: 2},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.stat.String(), func(t *testing.T) {
			if diff := cmp.Diff(tt.expected, b.TimeSeries(tt.stat)); diff != "" {
				t.Errorf("TimeSeries(%v) mismatch (-want +got):\n%s", tt.stat, diff)
			}
		})
	}

	empty := &Building{ID: "empty"}
	assert.Empty(t, empty.TimeSeries(Temp))
}

func TestMean(t *testing.T) {
	mean, ok := Mean([]barchart.Datum{{Label: "a", Value: 1}, {Label: "b", Value: math.NaN()}, {Label: "c", Value: 2}, {Label: "d", Value: math.Inf(1)}})
	require.True(t, ok)
	assert.Equal(t, 1.5, mean)

	_, ok = Mean(nil)
	assert.False(t, ok)
	_, ok = Mean([]barchart.Datum{{Label: "a", Value: math.NaN()}})
	assert.False(t, ok)
}

func TestValueAt(t *testing.T) {
	ts := []barchart.Datum{{Label: "2020-11-17", Value: 1.5}, {Label: "2020-12-19", Value: -2}}

	v, ok := ValueAt(ts, "2020-12-19")
	require.True(t, ok)
	assert.Equal(t, -2.0, v)

	_, ok = ValueAt(ts, "2020-12-19 10:04:26Z")
	assert.False(t, ok, "full timestamps must be shortened with DayLabel")
}
