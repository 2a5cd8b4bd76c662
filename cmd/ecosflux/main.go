package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecactus/ecos/pkg/ecos"
	"github.com/ecactus/ecos/pkg/log"
	"github.com/ecactus/ecos/pkg/types"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/joho/godotenv"
	"github.com/levenlabs/go-lflag"
	"github.com/levenlabs/go-llog"
)

func main() {
	_ = godotenv.Load()

	datacenter := lflag.String("datacenter", "", "ECOS datacenter to talk to (CN, EU or AU)")
	apiURL := lflag.String("url", "", "ECOS API base URL, overrides -datacenter")
	email := lflag.String("email", "", "account email")
	password := lflag.String("password", "", "account password")
	homeID := lflag.String("home-id", "", "home to export power data for")
	interval := lflag.Duration("interval", time.Minute, "poll interval")
	influxURL := lflag.String("influx-url", "http://localhost:8086", "InfluxDB server URL")
	influxToken := lflag.String("influx-token", os.Getenv("INFLUXDB_TOKEN"), "InfluxDB API token")
	influxOrg := lflag.String("influx-org", "home", "InfluxDB organization")
	influxBucket := lflag.String("influx-bucket", "ecos", "InfluxDB bucket")

	lflag.Configure()

	var level slog.Level
	// lflag automatically sets llog's level, but we need to set the slog level
	switch llog.GetLevel() {
	case llog.DebugLevel:
		level = slog.LevelDebug
	case llog.InfoLevel:
		level = slog.LevelInfo
	case llog.WarnLevel:
		level = slog.LevelWarn
	case llog.ErrorLevel:
		level = slog.LevelError
	default:
		panic(fmt.Errorf("unknown log level: %s", llog.GetLevel().String()))
	}
	log.SetDefaultLogLevel(level)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *homeID == "" {
		log.Ctx(ctx).ErrorContext(ctx, "-home-id is required")
		os.Exit(2)
	}

	client, err := ecos.New(ecos.Options{
		Datacenter: *datacenter,
		URL:        *apiURL,
		Email:      *email,
		Password:   *password,
	})
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to create client", "error", err)
		os.Exit(1)
	}

	influx := influxdb2.NewClient(*influxURL, *influxToken)
	defer influx.Close()
	writeAPI := influx.WriteAPIBlocking(*influxOrg, *influxBucket)

	log.Ctx(ctx).InfoContext(ctx, "exporting home power",
		slog.String("homeID", *homeID),
		slog.Duration("interval", *interval),
		slog.String("bucket", *influxBucket))

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		if err := export(ctx, client, writeAPI, *homeID); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "export failed", "error", err)
		}
		select {
		case <-ctx.Done():
			log.Ctx(ctx).InfoContext(ctx, "shutting down")
			return
		case <-ticker.C:
		}
	}
}

// export polls the current home power snapshot and writes one point per home
// plus one per reporting battery.
func export(ctx context.Context, client *ecos.Client, writeAPI api.WriteAPIBlocking, homeID string) error {
	power, err := client.GetRealtimeHomeData(ctx, homeID)
	if err != nil {
		return err
	}

	now := time.Now()
	point := influxdb2.NewPoint(
		"home_power",
		map[string]string{"home_id": homeID},
		map[string]interface{}{
			"solar_w":   power.SolarPower,
			"battery_w": power.BatteryPower,
			"grid_w":    power.GridPower,
			"meter_w":   power.MeterPower,
			"home_w":    power.HomePower,
			"eps_w":     power.EPSPower,
			"charge_w":  power.ChargePower,
		},
		now,
	)
	if err := writeAPI.WritePoint(ctx, point); err != nil {
		return fmt.Errorf("failed to write home point: %w", err)
	}

	for _, soc := range power.BatterySOCList {
		point := batteryPoint(homeID, soc, now)
		if err := writeAPI.WritePoint(ctx, point); err != nil {
			return fmt.Errorf("failed to write battery point for %s: %w", soc.DeviceSN, err)
		}
	}

	log.Ctx(ctx).DebugContext(ctx, "exported home power",
		slog.Float64("homeW", power.HomePower),
		slog.Int("batteries", len(power.BatterySOCList)))
	return nil
}

func batteryPoint(homeID string, soc types.BatterySOC, now time.Time) *write.Point {
	return influxdb2.NewPoint(
		"battery_soc",
		map[string]string{"home_id": homeID, "device_sn": soc.DeviceSN},
		map[string]interface{}{
			"soc_percent":  soc.BatterySOC,
			"sys_run_mode": soc.SysRunMode,
		},
		now,
	)
}
