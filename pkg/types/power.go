package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Millis is a time.Time that marshals to/from epoch milliseconds, the form
// the API uses for create/update times.
type Millis time.Time

func (m *Millis) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var ms int64
	if err := json.Unmarshal(b, &ms); err != nil {
		return err
	}
	*m = Millis(time.UnixMilli(ms))
	return nil
}

func (m Millis) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(m).UnixMilli())
}

// Time returns the underlying time.Time.
func (m Millis) Time() time.Time {
	return time.Time(m)
}

// Sample is a single timestamped measurement.
type Sample struct {
	Timestamp time.Time
	Value     float64
}

// TimeSeries is an ordered series of samples. The API transmits series as
// objects keyed by epoch seconds ({"946685100": 0.0, ...}); decoding sorts
// them chronologically.
type TimeSeries []Sample

func (ts *TimeSeries) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*ts = nil
		return nil
	}
	var raw map[string]float64
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(TimeSeries, 0, len(raw))
	for k, v := range raw {
		sec, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid timestamp key %q: %w", k, err)
		}
		out = append(out, Sample{Timestamp: time.Unix(sec, 0), Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	*ts = out
	return nil
}

func (ts TimeSeries) MarshalJSON() ([]byte, error) {
	if ts == nil {
		return []byte("null"), nil
	}
	raw := make(map[string]float64, len(ts))
	for _, s := range ts {
		raw[strconv.FormatInt(s.Timestamp.Unix(), 10)] = s.Value
	}
	return json.Marshal(raw)
}

// Values returns just the measurement values, in chronological order.
func (ts TimeSeries) Values() []float64 {
	out := make([]float64, len(ts))
	for i, s := range ts {
		out[i] = s.Value
	}
	return out
}

// PowerTimeSeries holds per-source power series for a device, in watts.
type PowerTimeSeries struct {
	Solar   TimeSeries `json:"solarPowerDps"`
	Battery TimeSeries `json:"batteryPowerDps"`
	Grid    TimeSeries `json:"gridPowerDps"`
	Meter   TimeSeries `json:"meterPowerDps"`
	Home    TimeSeries `json:"homePowerDps"`
	EPS     TimeSeries `json:"epsPowerDps"`
}

// BatterySOC holds the state of charge reported for one device of a home.
type BatterySOC struct {
	DeviceSN       string  `json:"deviceSn"`
	BatterySOC     float64 `json:"batterySoc"`
	SysRunMode     int     `json:"sysRunMode"`
	IsExistSolar   bool    `json:"isExistSolar"`
	SysPowerConfig int     `json:"sysPowerConfig"`
}

// HomePower is the instantaneous power snapshot for a whole home, in watts.
type HomePower struct {
	BatteryPower   float64      `json:"batteryPower"`
	EPSPower       float64      `json:"epsPower"`
	GridPower      float64      `json:"gridPower"`
	HomePower      float64      `json:"homePower"`
	MeterPower     float64      `json:"meterPower"`
	SolarPower     float64      `json:"solarPower"`
	ChargePower    float64      `json:"chargePower"`
	BatterySOCList []BatterySOC `json:"batterySocList"`
}

// DevicePower is the instantaneous power snapshot for a single device.
// A negative MeterPower means the home is exporting to the grid.
type DevicePower struct {
	BatterySOC     float64 `json:"batterySoc"`
	BatteryPower   float64 `json:"batteryPower"`
	EPSPower       float64 `json:"epsPower"`
	GridPower      float64 `json:"gridPower"`
	HomePower      float64 `json:"homePower"`
	MeterPower     float64 `json:"meterPower"`
	SolarPower     float64 `json:"solarPower"`
	SysRunMode     int     `json:"sysRunMode"`
	IsExistSolar   bool    `json:"isExistSolar"`
	SysPowerConfig int     `json:"sysPowerConfig"`
}
