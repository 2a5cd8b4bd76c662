package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ecactus/ecos/pkg/ecos"
	"github.com/ecactus/ecos/pkg/log"

	"github.com/joho/godotenv"
	"github.com/levenlabs/go-lflag"
	"github.com/levenlabs/go-llog"
)

func main() {
	// .env is optional, flags can also come from the environment
	_ = godotenv.Load()

	datacenter := lflag.String("datacenter", "", "ECOS datacenter to talk to (CN, EU or AU)")
	apiURL := lflag.String("url", "", "ECOS API base URL, overrides -datacenter")
	email := lflag.String("email", "", "account email")
	password := lflag.String("password", "", "account password")
	accessToken := lflag.String("access-token", "", "previously obtained access token, skips login")
	homeID := lflag.String("home-id", "", "home ID for home-scoped actions")
	deviceID := lflag.String("device-id", "", "device ID for device-scoped actions")
	start := lflag.String("start", "", "start date for history/insight (RFC 3339, default now)")
	periodType := lflag.Int("period-type", 0, "period type for history/insight")
	action := lflag.String("action", "", "one of: user, homes, devices, all-devices, today, device-power, home-power, history, insight, home-energy, refresh")

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
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	ctx := context.Background()

	client, err := ecos.New(ecos.Options{
		Datacenter:  *datacenter,
		URL:         *apiURL,
		Email:       *email,
		Password:    *password,
		AccessToken: *accessToken,
	})
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to create client", "error", err)
		os.Exit(1)
	}

	startDate := time.Now()
	if *start != "" {
		startDate, err = time.Parse(time.RFC3339, *start)
		if err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "invalid -start date", "error", err)
			os.Exit(1)
		}
	}

	var out interface{}
	switch *action {
	case "user":
		out, err = client.GetUser(ctx)
	case "homes":
		out, err = client.GetHomes(ctx)
	case "devices":
		out, err = client.GetDevices(ctx, *homeID)
	case "all-devices":
		out, err = client.GetAllDevices(ctx)
	case "today":
		out, err = client.GetTodayDeviceData(ctx, *deviceID)
	case "device-power":
		out, err = client.GetRealtimeDeviceData(ctx, *deviceID)
	case "home-power":
		out, err = client.GetRealtimeHomeData(ctx, *homeID)
	case "history":
		out, err = client.GetHistory(ctx, *deviceID, startDate, ecos.PeriodType(*periodType))
	case "insight":
		out, err = client.GetInsight(ctx, *deviceID, startDate, ecos.PeriodType(*periodType))
	case "home-energy":
		out, err = client.GetHomeEnergy(ctx, *homeID)
	case "refresh":
		err = client.RefreshHomeDevices(ctx, *homeID)
	default:
		log.Ctx(ctx).ErrorContext(ctx, "unknown action", "action", *action)
		os.Exit(2)
	}
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "action failed", "action", *action, "error", err)
		os.Exit(1)
	}

	if out != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to encode output", "error", err)
			os.Exit(1)
		}
	}
}
