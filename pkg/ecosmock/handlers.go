package ecosmock

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ecactus/ecos/pkg/types"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ClientType    string `json:"clientType"`
		ClientVersion string `json:"clientVersion"`
		Email         string `json:"email"`
		Password      string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeAPIError(w, 20000, "invalid payload")
		return
	}

	// field validation mirrors the vendor: code 20000 with a per-field map,
	// the message carries the last failing field in declaration order
	checks := []struct {
		field   string
		message string
		failed  bool
	}{
		{"clientVersion", "cannot be blank", payload.ClientVersion == ""},
		{"clientType", "Invalid terminal type", payload.ClientType != "BROWSER"},
		{"email", "cannot be blank", payload.Email == ""},
		{"password", "cannot be blank", payload.Password == ""},
	}
	fieldErrs := map[string]string{}
	var message string
	for _, c := range checks {
		if c.failed {
			fieldErrs[c.field] = c.message
			message = c.message
		}
	}
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusOK, envelope{Code: 20000, Message: message, Success: false, Data: fieldErrs})
		return
	}

	if payload.Email != s.Email || payload.Password != s.Password {
		writeAPIError(w, 20414, "Account or password or country error")
		return
	}

	writeData(w, map[string]string{
		"accessToken":  s.AccessToken,
		"refreshToken": s.RefreshToken,
	})
}

func (s *Server) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	writeData(w, types.User{
		Username:            s.Email,
		Nickname:            "Test",
		Email:               s.Email,
		TimezoneID:          "209",
		Timezone:            "GMT-05:00",
		TimezoneName:        "America/Toronto",
		DatacenterPhoneCode: 49,
		Datacenter:          "EU",
		DatacenterHost:      "https://api-ecos-eu.weiheng-tech.com",
	})
}

func (s *Server) handleHomes(w http.ResponseWriter, r *http.Request) {
	created := types.Millis(time.UnixMilli(946684800000))
	writeData(w, []types.Home{
		{
			ID:           SharedHomeID,
			Type:         types.HomeTypeShared,
			DeviceNumber: 1,
			RelationType: 1,
			CreateTime:   created,
			UpdateTime:   created,
		},
		{
			ID:           HomeID,
			Name:         "My Home",
			Type:         1,
			RelationType: 1,
			CreateTime:   created,
			UpdateTime:   created,
		},
	})
}

func deviceFixture() types.Device {
	return types.Device{
		ID:         DeviceID,
		Alias:      "My Device",
		Serial:     DeviceSerial,
		Type:       1,
		AgentID:    HomeID,
		DeviceType: "XX-XXX123",
	}
}

func (s *Server) handleHomeDevices(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("homeId") != HomeID {
		writeAPIError(w, 20450, "The home does not exist")
		return
	}
	writeData(w, []types.Device{deviceFixture()})
}

func (s *Server) handleAllDevices(w http.ResponseWriter, r *http.Request) {
	writeData(w, []types.Device{deviceFixture()})
}

// powerSeries builds a day of 5-minute samples ending now.
func powerSeries(base float64) types.TimeSeries {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	var out types.TimeSeries
	for t := start; !t.After(now); t = t.Add(5 * time.Minute) {
		out = append(out, types.Sample{Timestamp: t, Value: base})
	}
	return out
}

func decodeDeviceID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var payload struct {
		DeviceID string `json:"deviceId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeAPIError(w, 20000, "invalid payload")
		return "", false
	}
	if payload.DeviceID != DeviceID {
		writeAPIError(w, 20424, "Device is not authorized")
		return "", false
	}
	return payload.DeviceID, true
}

func (s *Server) handleTodayDeviceData(w http.ResponseWriter, r *http.Request) {
	if _, ok := decodeDeviceID(w, r); !ok {
		return
	}
	writeData(w, types.PowerTimeSeries{
		Solar:   powerSeries(0),
		Battery: powerSeries(0),
		Grid:    powerSeries(23),
		Meter:   powerSeries(1118),
		Home:    powerSeries(1118),
		EPS:     powerSeries(0),
	})
}

func (s *Server) handleDeviceRunData(w http.ResponseWriter, r *http.Request) {
	if _, ok := decodeDeviceID(w, r); !ok {
		return
	}
	writeData(w, types.DevicePower{
		HomePower:      3581,
		MeterPower:     3581,
		SysRunMode:     1,
		IsExistSolar:   true,
		SysPowerConfig: 3,
	})
}

func (s *Server) handleHomeRunData(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("homeId") != HomeID {
		writeAPIError(w, 20450, "The home does not exist")
		return
	}
	writeData(w, types.HomePower{
		GridPower:  23,
		HomePower:  1118,
		MeterPower: 1118,
		BatterySOCList: []types.BatterySOC{
			{
				DeviceSN:       DeviceSerial,
				SysRunMode:     1,
				IsExistSolar:   true,
				SysPowerConfig: 3,
			},
		},
	})
}

func decodeDevicePeriod(w http.ResponseWriter, r *http.Request) (deviceID string, periodType int, ok bool) {
	var payload struct {
		DeviceID   string `json:"deviceId"`
		Timestamp  int64  `json:"timestamp"`
		PeriodType int    `json:"periodType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeAPIError(w, 20000, "invalid payload")
		return "", 0, false
	}
	if payload.DeviceID != DeviceID {
		writeAPIError(w, 20424, "Device is not authorized")
		return "", 0, false
	}
	return payload.DeviceID, payload.PeriodType, true
}

// dailyEnergy builds one sample per day of the current month up to today.
func dailyEnergy() types.TimeSeries {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	var out types.TimeSeries
	for t := start; !t.After(now); t = t.AddDate(0, 0, 1) {
		out = append(out, types.Sample{Timestamp: t, Value: 39.6})
	}
	return out
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	_, periodType, ok := decodeDevicePeriod(w, r)
	if !ok {
		return
	}
	if periodType < 0 || periodType > 4 {
		writeAPIError(w, 20404, "Parameter verification failed")
		return
	}

	series := dailyEnergy()
	if periodType == 4 {
		// single monthly total
		series = types.TimeSeries{{Timestamp: time.Now(), Value: 1221.2}}
	}
	writeData(w, types.EnergyHistory{
		EnergyConsumption: 1221.2,
		SolarPercent:      47.0,
		HomeEnergy:        series,
	})
}

func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	_, periodType, ok := decodeDevicePeriod(w, r)
	if !ok {
		return
	}
	// 1 and 3 are not implemented by the vendor
	if periodType < 0 || periodType > 5 || periodType == 1 || periodType == 3 {
		writeAPIError(w, 20404, "Parameter verification failed")
		return
	}

	insight := types.Insight{SelfPowered: 47}
	if periodType == 0 {
		insight.PowerTimeSeries = &types.PowerTimeSeries{
			Solar:   powerSeries(0),
			Battery: powerSeries(0),
			Grid:    powerSeries(23),
			Meter:   powerSeries(1118),
			Home:    powerSeries(1118),
			EPS:     powerSeries(0),
		}
	} else {
		insight.Consumption = &types.InsightConsumption{
			FromBattery: dailyEnergy(),
			ToBattery:   dailyEnergy(),
			FromGrid:    dailyEnergy(),
			ToGrid:      dailyEnergy(),
			FromSolar:   dailyEnergy(),
			HomeEnergy:  dailyEnergy(),
			EPS:         dailyEnergy(),
			SelfPowered: dailyEnergy(),
		}
	}
	insight.Statistics = &types.DeviceStatistics{
		ConsumptionEnergy: 1221.2,
		FromSolar:         574.0,
		FromGrid:          647.2,
	}
	writeData(w, insight)
}

func (s *Server) handleHomeEnergy(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("homeId") != HomeID {
		writeAPIError(w, 20450, "The home does not exist")
		return
	}

	week := make(map[string]types.DayEnergy, 7)
	carbon := make(map[string]types.CarbonEmissions, 7)
	coal := make(map[string]types.StandardCoal, 7)
	for _, day := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		week[day] = types.DayEnergy{
			SolarEnergy: 17.9,
			GridEnergy:  20.7,
			ToGrid:      6.5,
			HomeEnergy:  32.1,
			SelfPowered: 38,
		}
		carbon[day] = types.CarbonEmissions{CarbonEmissions: 17.9}
		coal[day] = types.StandardCoal{SaveStandardCoal: 7.2}
	}
	writeData(w, types.HomeEnergy{
		Today:                         int(time.Now().Weekday()),
		LastWeekTotalSolar:            125.7,
		LastWeekTotalGrid:             145.1,
		LastWeekTotalCarbonEmissions:  125.326,
		LastWeekTotalSaveStandardCoal: 50.78,
		WeekEnergy:                    week,
		CarbonEmissionsWeekEnergy:     carbon,
		SaveStandardCoalWeekEnergy:    coal,
	})
}

func (s *Server) handleIncrRefresh(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		HomeID string `json:"homeId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeAPIError(w, 20000, "invalid payload")
		return
	}
	if payload.HomeID != HomeID {
		writeAPIError(w, 20450, "The home does not exist")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Code: 0, Message: "success", Success: true})
}
