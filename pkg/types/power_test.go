package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeSeriesUnmarshal(t *testing.T) {
	// keys deliberately out of chronological order
	raw := `{"946685400": 120.5, "946685100": 0.0, "946685700": -30.0}`

	var ts TimeSeries
	require.NoError(t, json.Unmarshal([]byte(raw), &ts))
	require.Len(t, ts, 3)

	assert.Equal(t, time.Unix(946685100, 0), ts[0].Timestamp, "samples should be sorted chronologically")
	assert.Equal(t, 0.0, ts[0].Value)
	assert.Equal(t, 120.5, ts[1].Value)
	assert.Equal(t, -30.0, ts[2].Value)
	assert.Equal(t, []float64{0.0, 120.5, -30.0}, ts.Values())
}

func TestTimeSeriesUnmarshalNull(t *testing.T) {
	ts := TimeSeries{{Timestamp: time.Unix(0, 0), Value: 1}}
	require.NoError(t, json.Unmarshal([]byte("null"), &ts))
	assert.Nil(t, ts)
}

func TestTimeSeriesUnmarshalBadKey(t *testing.T) {
	var ts TimeSeries
	err := json.Unmarshal([]byte(`{"not-a-timestamp": 1.0}`), &ts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not-a-timestamp")
}

func TestTimeSeriesMarshal(t *testing.T) {
	ts := TimeSeries{
		{Timestamp: time.Unix(946685100, 0), Value: 1.5},
		{Timestamp: time.Unix(946685400, 0), Value: 2.5},
	}
	b, err := json.Marshal(ts)
	require.NoError(t, err)

	var raw map[string]float64
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, map[string]float64{"946685100": 1.5, "946685400": 2.5}, raw)
}

func TestMillis(t *testing.T) {
	var h Home
	require.NoError(t, json.Unmarshal([]byte(`{"homeId":"1","createTime":946684800000}`), &h))
	assert.Equal(t, time.UnixMilli(946684800000), h.CreateTime.Time())

	b, err := json.Marshal(h.CreateTime)
	require.NoError(t, err)
	assert.Equal(t, "946684800000", string(b))
}

func TestHomeShared(t *testing.T) {
	assert.True(t, Home{Type: HomeTypeShared}.Shared())
	assert.False(t, Home{Type: 1}.Shared())
}

func TestInsightOptionalSections(t *testing.T) {
	raw := `{
		"selfPowered": 42,
		"deviceRealtimeDto": null,
		"deviceStatisticsDto": {"consumptionEnergy": 12.5, "fromSolar": 3.5},
		"insightConsumptionDataDto": {"homeEnergyDps": {"1733112000": 39.6}}
	}`
	var in Insight
	require.NoError(t, json.Unmarshal([]byte(raw), &in))

	assert.Nil(t, in.PowerTimeSeries)
	require.NotNil(t, in.Statistics)
	assert.Equal(t, 12.5, in.Statistics.ConsumptionEnergy)
	require.NotNil(t, in.Consumption)
	require.Len(t, in.Consumption.HomeEnergy, 1)
	assert.Equal(t, 39.6, in.Consumption.HomeEnergy[0].Value)
}
