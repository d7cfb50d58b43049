package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	rates "github.com/malusev998/privatbank-rates"
	"github.com/malusev998/privatbank-rates/fetchers"
)

const (
	EnvPrefix = "PRIVATBANK_RATES"
	Version   = "v1.0.0"
)

// negativeNumber matches tokens pflag would read as a shorthand flag cluster.
var negativeNumber = regexp.MustCompile(`^-\d+$`)

type (
	// Config carries what the command cannot build from flags alone.
	// Storage is closed by the command when it returns.
	Config struct {
		Storage []rates.Storage
		Client  *http.Client
		Now     func() time.Time
	}

	// ConfigFactory is called after the arguments are validated.
	ConfigFactory func(ctx context.Context, v *viper.Viper, logger *slog.Logger) (*Config, error)
)

func SetDefaults(v *viper.Viper) {
	v.SetDefault("url", fetchers.PrivatBankURL)
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("location", "Europe/Kyiv")
	v.SetDefault("currencies", rates.DefaultCurrencies)
	v.SetDefault("output", string(JSONOutput))
	v.SetDefault("source", string(rates.PrivatBankProvider))
	v.SetDefault("keep_going", false)
	v.SetDefault("schedule", "")
	v.SetDefault("migrate", false)
	v.SetDefault("storage", []string{})
}

func NewRootCommand(ctx context.Context, factory ConfigFactory) *cobra.Command {
	v := viper.New()
	SetDefaults(v)

	var configFile string

	rootCmd := &cobra.Command{
		Use:           "privatbank-rates <days>",
		Short:         "PrivatBank historical exchange rates",
		Version:       Version,
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return readConfig(v, configFile)
		},
	}

	rootCmd.SetContext(ctx)

	flags := rootCmd.Flags()
	rootCmd.PersistentFlags().Bool("debug", false, "Debug flag")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./config.yml", "Path to config file")
	flags.StringSlice("currencies", rates.DefaultCurrencies, "Currency codes to keep (USD EUR or USD,EUR)")
	flags.String("output", string(JSONOutput), "Output format: json or text")
	flags.String("source", string(rates.PrivatBankProvider), "Rate source: privatbank or nbu")
	flags.Bool("keep-going", false, "Print the dates that succeeded when some fail")
	flags.String("schedule", "", "Cron spec for repeated fetching, empty runs once")
	flags.Duration("timeout", 30*time.Second, "Timeout for a single request, 0 disables it")

	_ = v.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = v.BindPFlag("currencies", flags.Lookup("currencies"))
	_ = v.BindPFlag("output", flags.Lookup("output"))
	_ = v.BindPFlag("source", flags.Lookup("source"))
	_ = v.BindPFlag("keep_going", flags.Lookup("keep-going"))
	_ = v.BindPFlag("schedule", flags.Lookup("schedule"))
	_ = v.BindPFlag("timeout", flags.Lookup("timeout"))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	rootCmd.RunE = fetchCommand(v, factory)

	return rootCmd
}

func readConfig(v *viper.Viper, configFile string) error {
	if configFile == "" {
		return nil
	}

	absolutePath, err := filepath.Abs(configFile)
	if err != nil {
		return err
	}

	if _, err := os.Stat(absolutePath); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	v.SetConfigFile(absolutePath)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", absolutePath, err)
	}

	return nil
}

// positionalDays moves a negative days value right behind "--" so it reaches
// the command as a positional argument. Arguments already behind "--" are kept.
func positionalDays(args []string) []string {
	for i, arg := range args {
		if arg == "--" {
			return args
		}

		if !negativeNumber.MatchString(arg) {
			continue
		}

		rest := make([]string, 0, len(args)+1)
		rest = append(rest, args[:i]...)
		rest = append(rest, args[i+1:]...)

		for j, r := range rest {
			if r == "--" {
				result := make([]string, 0, len(rest)+1)
				result = append(result, rest[:j+1]...)
				result = append(result, arg)
				return append(result, rest[j+1:]...)
			}
		}

		return append(rest, "--", arg)
	}

	return args
}

func newCommand(ctx context.Context, factory ConfigFactory, args []string) *cobra.Command {
	rootCmd := NewRootCommand(ctx, factory)
	rootCmd.SetArgs(positionalDays(args))

	return rootCmd
}

func Execute(ctx context.Context, factory ConfigFactory, args []string) error {
	return newCommand(ctx, factory, args).Execute()
}
