package ecos

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/ecactus/ecos/pkg/log"
	"github.com/ecactus/ecos/pkg/types"
)

// PeriodType selects the aggregation window of GetHistory and GetInsight.
// The two endpoints interpret the values differently; see the constants.
type PeriodType int

// Period types accepted by GetHistory.
const (
	// HistoryMonthOfDate returns daily values of the calendar month
	// containing the start date.
	HistoryMonthOfDate PeriodType = 0
	// HistoryLastDays returns daily values of the last few days; the start
	// date is ignored.
	HistoryLastDays PeriodType = 1
	// HistoryCurrentMonthDaily returns daily values of the current month; the
	// start date is ignored.
	HistoryCurrentMonthDaily PeriodType = 2
	// HistoryCurrentMonthTotal returns a single total for the current month;
	// the start date is ignored.
	HistoryCurrentMonthTotal PeriodType = 4
)

// Period types accepted by GetInsight.
const (
	// InsightDay returns 5-minute power measurements for the calendar day of
	// the start date; the consumption section is omitted.
	InsightDay PeriodType = 0
	// InsightMonth returns daily energy for the calendar month of the start
	// date; the realtime section is omitted.
	InsightMonth PeriodType = 2
	// InsightYear returns monthly energy for the calendar year of the start
	// date; the realtime section is omitted.
	InsightYear PeriodType = 4
	// InsightAllYears returns yearly energy; the realtime section is omitted.
	InsightAllYears PeriodType = 5
)

type devicePeriodPayload struct {
	DeviceID   string `json:"deviceId"`
	Timestamp  int64  `json:"timestamp"`
	PeriodType int    `json:"periodType"`
}

// GetTodayDeviceData returns the power metrics of the current day, from
// midnight until now, in 5-minute buckets.
func (c *Client) GetTodayDeviceData(ctx context.Context, deviceID string) (types.PowerTimeSeries, error) {
	log.Ctx(ctx).InfoContext(ctx, "get current day data for device", slog.String("deviceID", deviceID))
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLogin(ctx); err != nil {
		return types.PowerTimeSeries{}, err
	}

	req, err := c.newPostJSONRequest(ctx, "api/client/home/now/device/realtime", map[string]string{"deviceId": deviceID})
	if err != nil {
		return types.PowerTimeSeries{}, err
	}

	var series types.PowerTimeSeries
	if err := c.doRequest(req, &series); err != nil {
		return types.PowerTimeSeries{}, wrapDeviceErr(err, deviceID)
	}
	return series, nil
}

// GetRealtimeDeviceData returns the current power snapshot of a device.
func (c *Client) GetRealtimeDeviceData(ctx context.Context, deviceID string) (types.DevicePower, error) {
	log.Ctx(ctx).InfoContext(ctx, "get realtime data for device", slog.String("deviceID", deviceID))
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLogin(ctx); err != nil {
		return types.DevicePower{}, err
	}

	req, err := c.newPostJSONRequest(ctx, "api/client/home/now/device/runData", map[string]string{"deviceId": deviceID})
	if err != nil {
		return types.DevicePower{}, err
	}

	var power types.DevicePower
	if err := c.doRequest(req, &power); err != nil {
		return types.DevicePower{}, wrapDeviceErr(err, deviceID)
	}
	return power, nil
}

// GetRealtimeHomeData returns the current power snapshot of a home, including
// the state of charge of each of its devices.
func (c *Client) GetRealtimeHomeData(ctx context.Context, homeID string) (types.HomePower, error) {
	log.Ctx(ctx).InfoContext(ctx, "get realtime data for home", slog.String("homeID", homeID))
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLogin(ctx); err != nil {
		return types.HomePower{}, err
	}

	params := url.Values{}
	params.Set("homeId", homeID)
	req, err := c.newGetRequest(ctx, "api/client/v2/home/device/runData", params)
	if err != nil {
		return types.HomePower{}, err
	}

	var power types.HomePower
	if err := c.doRequest(req, &power); err != nil {
		return types.HomePower{}, wrapHomeErr(err, homeID)
	}
	return power, nil
}

// GetHistory returns aggregated home energy for a period. The start date is
// sent as epoch seconds; whether it is honored depends on the period type.
func (c *Client) GetHistory(ctx context.Context, deviceID string, startDate time.Time, periodType PeriodType) (types.EnergyHistory, error) {
	log.Ctx(ctx).InfoContext(ctx, "get history for device", slog.String("deviceID", deviceID), slog.Int("periodType", int(periodType)))
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLogin(ctx); err != nil {
		return types.EnergyHistory{}, err
	}

	payload := devicePeriodPayload{
		DeviceID:   deviceID,
		Timestamp:  startDate.Unix(),
		PeriodType: int(periodType),
	}
	req, err := c.newPostJSONRequest(ctx, "api/client/home/history/home", payload)
	if err != nil {
		return types.EnergyHistory{}, err
	}

	var history types.EnergyHistory
	if err := c.doRequest(req, &history); err != nil {
		return types.EnergyHistory{}, wrapDeviceErr(err, deviceID)
	}
	return history, nil
}

// GetInsight returns energy metrics and statistics of a device for a period.
// Unlike GetHistory, this endpoint takes the start date in epoch milliseconds.
func (c *Client) GetInsight(ctx context.Context, deviceID string, startDate time.Time, periodType PeriodType) (types.Insight, error) {
	log.Ctx(ctx).InfoContext(ctx, "get insight for device", slog.String("deviceID", deviceID), slog.Int("periodType", int(periodType)))
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLogin(ctx); err != nil {
		return types.Insight{}, err
	}

	payload := devicePeriodPayload{
		DeviceID:   deviceID,
		Timestamp:  startDate.UnixMilli(),
		PeriodType: int(periodType),
	}
	req, err := c.newPostJSONRequest(ctx, "api/client/v2/device/three/device/insight", payload)
	if err != nil {
		return types.Insight{}, err
	}

	var insight types.Insight
	if err := c.doRequest(req, &insight); err != nil {
		return types.Insight{}, wrapDeviceErr(err, deviceID)
	}
	return insight, nil
}

// GetHomeEnergy returns the weekly energy summary of a home, including carbon
// emission and standard coal equivalents.
func (c *Client) GetHomeEnergy(ctx context.Context, homeID string) (types.HomeEnergy, error) {
	log.Ctx(ctx).InfoContext(ctx, "get energy for home", slog.String("homeID", homeID))
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLogin(ctx); err != nil {
		return types.HomeEnergy{}, err
	}

	params := url.Values{}
	params.Set("homeId", homeID)
	req, err := c.newGetRequest(ctx, "api/client/v2/home/device/energy", params)
	if err != nil {
		return types.HomeEnergy{}, err
	}

	var energy types.HomeEnergy
	if err := c.doRequest(req, &energy); err != nil {
		return types.HomeEnergy{}, wrapHomeErr(err, homeID)
	}
	return energy, nil
}

// RefreshHomeDevices asks the cloud to refresh the data of all devices of a
// home. The API acknowledges without returning data.
func (c *Client) RefreshHomeDevices(ctx context.Context, homeID string) error {
	log.Ctx(ctx).InfoContext(ctx, "refresh devices for home", slog.String("homeID", homeID))
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLogin(ctx); err != nil {
		return err
	}

	req, err := c.newPostJSONRequest(ctx, "api/client/v2/home/device/incrRefresh", map[string]string{"homeId": homeID})
	if err != nil {
		return err
	}

	if err := c.doRequest(req, nil); err != nil {
		return wrapHomeErr(err, homeID)
	}
	return nil
}
