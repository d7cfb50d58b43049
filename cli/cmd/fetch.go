package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	rates "github.com/malusev998/privatbank-rates"
	"github.com/malusev998/privatbank-rates/fetchers"
	"github.com/malusev998/privatbank-rates/services"
)

var (
	ErrInvalidDays = errors.New("days must be an integer")
	ErrExtraArgs   = errors.New("unexpected arguments")
	ErrIncomplete  = errors.New("exchange rates are missing for some dates")
)

type fetchJob struct {
	service  rates.Service
	writer   Writer
	out      io.Writer
	logger   *slog.Logger
	location *time.Location
	now      func() time.Time
	request  rates.Request
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// parseRequest reads <days> and the currency list. Positional arguments after
// days extend --currencies so that "--currencies USD EUR GBP" works.
// A negative days value arrives as the first argument behind "--".
func parseRequest(cmd *cobra.Command, v *viper.Viper, args []string) (rates.Request, error) {
	daysIndex := 0
	if dash := cmd.ArgsLenAtDash(); dash > 0 && dash < len(args) && negativeNumber.MatchString(args[dash]) {
		daysIndex = dash
	}

	days, err := strconv.Atoi(args[daysIndex])
	if err != nil {
		return rates.Request{}, fmt.Errorf("%w: %q", ErrInvalidDays, args[daysIndex])
	}

	extra := make([]string, 0, len(args)-1)
	extra = append(extra, args[:daysIndex]...)
	extra = append(extra, args[daysIndex+1:]...)

	currencies := v.GetStringSlice("currencies")

	if len(extra) > 0 {
		if !cmd.Flags().Changed("currencies") {
			return rates.Request{}, fmt.Errorf("%w: %v", ErrExtraArgs, extra)
		}

		currencies = append(currencies, extra...)
	}

	return rates.Request{Days: days, Currencies: cleanCurrencies(currencies)}, nil
}

// cleanCurrencies trims every code and drops the empty ones.
func cleanCurrencies(currencies []string) []string {
	result := make([]string, 0, len(currencies))

	for _, c := range currencies {
		if c = strings.TrimSpace(c); c != "" {
			result = append(result, c)
		}
	}

	return result
}

func (j fetchJob) run(ctx context.Context) error {
	dates := rates.LastDays(j.now().In(j.location), j.request.Days)

	days, err := j.service.Save(ctx, dates, j.request.Currencies)
	if days == nil {
		return err
	}

	if werr := j.writer.Write(j.out, days); werr != nil {
		return fmt.Errorf("write rates: %w", werr)
	}

	// storage failure, reported after the rates are printed
	if err != nil {
		return err
	}

	for _, day := range days {
		if day.Err != nil {
			return ErrIncomplete
		}
	}

	return nil
}

func (j fetchJob) schedule(ctx context.Context, spec string) error {
	c := cron.New(
		cron.WithLocation(j.location),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	_, err := c.AddFunc(spec, func() {
		if err := j.run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "scheduled fetch failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	if err := j.run(ctx); err != nil {
		j.logger.ErrorContext(ctx, "fetch failed", "error", err)
	}

	c.Start()
	j.logger.InfoContext(ctx, "waiting for the next scheduled fetch", "schedule", spec)

	<-ctx.Done()
	<-c.Stop().Done()

	return nil
}

func closeStorage(logger *slog.Logger, storages []rates.Storage) {
	for _, st := range storages {
		if err := st.Close(); err != nil {
			logger.Warn("closing storage", "storage", st.GetStorageProviderName(), "error", err)
		}
	}
}

func fetchCommand(v *viper.Viper, factory ConfigFactory) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		request, err := parseRequest(cmd, v, args)
		if err != nil {
			return err
		}

		if err := request.Validate(); err != nil {
			if errors.Is(err, rates.ErrDaysOutOfRange) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), rates.DaysOutOfRangeMessage)
			}

			return err
		}

		writer, err := NewWriter(OutputFormat(v.GetString("output")))
		if err != nil {
			return err
		}

		source, err := rates.ConvertToProviderFromString(v.GetString("source"))
		if err != nil {
			return err
		}

		location, err := time.LoadLocation(v.GetString("location"))
		if err != nil {
			return fmt.Errorf("load location: %w", err)
		}

		ctx := cmd.Context()
		logger := newLogger(cmd.ErrOrStderr(), v.GetBool("debug"))

		config, err := factory(ctx, v, logger)
		if err != nil {
			return err
		}
		defer closeStorage(logger, config.Storage)

		client := &http.Client{}
		if config.Client != nil {
			*client = *config.Client
		}

		client.Timeout = v.GetDuration("timeout")

		now := config.Now
		if now == nil {
			now = time.Now
		}

		fetcher, err := fetchers.NewFetcher(source, fetchers.Config{
			URL:       v.GetString("url"),
			Client:    client,
			Logger:    logger,
			KeepGoing: v.GetBool("keep_going"),
		})
		if err != nil {
			return err
		}

		job := fetchJob{
			service: services.Service{
				Fetcher: fetcher,
				Storage: config.Storage,
				Logger:  logger,
			},
			writer:   writer,
			out:      cmd.OutOrStdout(),
			logger:   logger,
			location: location,
			now:      now,
			request:  request,
		}

		if spec := v.GetString("schedule"); spec != "" {
			return job.schedule(ctx, spec)
		}

		return job.run(ctx)
	}
}
