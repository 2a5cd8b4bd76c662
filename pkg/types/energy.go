package types

// EnergyHistory holds aggregated home energy for a period, in kWh.
type EnergyHistory struct {
	EnergyConsumption float64    `json:"energyConsumption"`
	SolarPercent      float64    `json:"solarPercent"`
	HomeEnergy        TimeSeries `json:"homeEnergyDps"`
}

// DeviceStatistics summarizes energy flows for a device over the insight
// period, in kWh.
type DeviceStatistics struct {
	ConsumptionEnergy float64 `json:"consumptionEnergy"`
	FromBattery       float64 `json:"fromBattery"`
	ToBattery         float64 `json:"toBattery"`
	FromGrid          float64 `json:"fromGrid"`
	ToGrid            float64 `json:"toGrid"`
	FromSolar         float64 `json:"fromSolar"`
	EPS               float64 `json:"eps"`
}

// InsightConsumption holds the per-bucket energy series of an insight
// response. Buckets are days, months or years depending on the period type.
type InsightConsumption struct {
	FromBattery TimeSeries `json:"fromBatteryDps"`
	ToBattery   TimeSeries `json:"toBatteryDps"`
	FromGrid    TimeSeries `json:"fromGridDps"`
	ToGrid      TimeSeries `json:"toGridDps"`
	FromSolar   TimeSeries `json:"fromSolarDps"`
	HomeEnergy  TimeSeries `json:"homeEnergyDps"`
	EPS         TimeSeries `json:"epsDps"`
	SelfPowered TimeSeries `json:"selfPoweredDps"`
}

// Insight is the combined statistics response for a device. Depending on the
// requested period type the API omits either the realtime power series or the
// consumption series, so both are pointers.
type Insight struct {
	SelfPowered     float64             `json:"selfPowered"`
	PowerTimeSeries *PowerTimeSeries    `json:"deviceRealtimeDto"`
	Statistics      *DeviceStatistics   `json:"deviceStatisticsDto"`
	Consumption     *InsightConsumption `json:"insightConsumptionDataDto"`
}

// DayEnergy holds the energy flows of a single weekday, in kWh.
type DayEnergy struct {
	SolarEnergy float64 `json:"solarEnergy"`
	GridEnergy  float64 `json:"gridEnergy"`
	ToGrid      float64 `json:"toGrid"`
	HomeEnergy  float64 `json:"homeEnergy"`
	SelfPowered float64 `json:"selfPowered"`
}

// CarbonEmissions holds the carbon emissions of a single weekday, in kg.
type CarbonEmissions struct {
	CarbonEmissions float64 `json:"carbonEmissions"`
}

// StandardCoal holds the standard coal savings of a single weekday, in kg.
type StandardCoal struct {
	SaveStandardCoal float64 `json:"saveStandardCoal"`
}

// HomeEnergy is the weekly energy summary for a home. Week maps are keyed by
// weekday number ("1" through "7").
type HomeEnergy struct {
	Today                         int                        `json:"today"`
	LastWeekTotalSolar            float64                    `json:"lastWeekTotalSolar"`
	LastWeekTotalGrid             float64                    `json:"lastWeekTotalGrid"`
	LastWeekTotalCarbonEmissions  float64                    `json:"lastWeekTotalCarbonEmissions"`
	LastWeekTotalSaveStandardCoal float64                    `json:"lastWeekTotalSaveStandardCoal"`
	WeekEnergy                    map[string]DayEnergy       `json:"weekEnergy"`
	CarbonEmissionsWeekEnergy     map[string]CarbonEmissions `json:"carbonEmissionsWeekEnergy"`
	SaveStandardCoalWeekEnergy    map[string]StandardCoal    `json:"saveStandardCoalWeekEnergy"`
}
