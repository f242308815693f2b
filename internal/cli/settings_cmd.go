package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rabbishuki/rambam-sub001/internal/cli/formatter"
	"github.com/rabbishuki/rambam-sub001/internal/domain"
)

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Settings.Get(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSettings(cfg))
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Long: `Change one setting. Keys:

  language        he | en | both
  auto-mark       on | off
  hide-completed  on | off
  boundary        fixed | sunset
  boundary-time   HH:MM (for the fixed boundary)
  location        LAT,LNG (for the sunset boundary)
  start.<path>    YYYY-MM-DD (per-track start date)`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applySetting(cmd, app, args[0], args[1])
		},
	}

	cmd.AddCommand(show, set)
	return cmd
}

func applySetting(cmd *cobra.Command, app *App, key, value string) error {
	ctx := context.Background()

	if rest, ok := strings.CutPrefix(key, "start."); ok {
		path, err := parsePath(rest)
		if err != nil {
			return err
		}
		day, err := domain.ParseDayKey(value)
		if err != nil {
			return err
		}
		if err := app.Settings.SetStartDate(ctx, path, day); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "start date for %s set to %s\n", path, day)
		return nil
	}

	if key == "auto-mark" {
		on, err := parseOnOff(value)
		if err != nil {
			return err
		}
		if err := app.Settings.SetAutoMark(ctx, on); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "auto-mark is now %s\n", value)
		return nil
	}

	cfg, err := app.Settings.Get(ctx)
	if err != nil {
		return err
	}
	switch key {
	case "language":
		cfg.Language = domain.Language(value)
	case "hide-completed":
		on, err := parseOnOff(value)
		if err != nil {
			return err
		}
		cfg.HideCompleted = on
	case "boundary":
		cfg.Boundary = domain.BoundaryKind(value)
	case "boundary-time":
		h, m, err := parseClock(value)
		if err != nil {
			return err
		}
		cfg.FixedHour, cfg.FixedMinute = h, m
	case "location":
		lat, lng, err := parseLatLng(value)
		if err != nil {
			return err
		}
		cfg.Latitude, cfg.Longitude = lat, lng
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	if err := app.Settings.Update(ctx, *cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s set to %s\n", key, value)
	return nil
}

func parseOnOff(v string) (bool, error) {
	switch v {
	case "on", "true":
		return true, nil
	case "off", "false":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", v)
}

func parseClock(v string) (int, int, error) {
	parts := strings.SplitN(v, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected HH:MM, got %q", v)
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("expected HH:MM, got %q", v)
	}
	return h, m, nil
}

func parseLatLng(v string) (float64, float64, error) {
	parts := strings.SplitN(v, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected LAT,LNG, got %q", v)
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("expected LAT,LNG, got %q", v)
	}
	return lat, lng, nil
}
