/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/Seednode/imprompt/gateway"
	"github.com/Seednode/imprompt/imagegen"
	"github.com/Seednode/imprompt/room"
)

const (
	minGuessLimit = 20
	maxGuessLimit = 50
	minPlayers    = room.MinPlayersToStart
	maxPlayers    = 5
)

type Config struct {
	bind    string
	port    int
	prefix  string
	profile bool
	tlsCert string
	tlsKey  string
	verbose bool
	version bool

	imageProvider string
	imageTimeout  time.Duration
	mockDelay     time.Duration
	togetherKey   string
	togetherModel string
	togetherURL   string

	guessLimit int
	guessTime  time.Duration
	maxPlayers int
	promptTime time.Duration
	reviewTime time.Duration

	rateBurst int
	rateLimit float64

	redisAddr     string
	redisDB       int
	redisPassword string

	log zerolog.Logger
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if !imagegen.ValidProvider(c.imageProvider) {
		return fmt.Errorf("invalid image provider (must be one of %s): %s", strings.Join(imagegen.Providers, ", "), c.imageProvider)
	}
	if c.imageProvider == "together" && c.togetherKey == "" {
		return errors.New("--together-key is required when --image-provider is together")
	}
	if c.maxPlayers < minPlayers || c.maxPlayers > maxPlayers {
		return fmt.Errorf("invalid max players (must be between %d-%d inclusive): %d", minPlayers, maxPlayers, c.maxPlayers)
	}
	if c.guessLimit < minGuessLimit || c.guessLimit > maxGuessLimit {
		return fmt.Errorf("invalid guess limit (must be between %d-%d inclusive): %d", minGuessLimit, maxGuessLimit, c.guessLimit)
	}

	for name, d := range map[string]time.Duration{
		"image-timeout": c.imageTimeout,
		"prompt-time":   c.promptTime,
		"guess-time":    c.guessTime,
		"review-time":   c.reviewTime,
	} {
		if d < time.Second {
			return fmt.Errorf("invalid --%s (must be at least 1s): %s", name, d)
		}
	}

	if c.mockDelay < 0 {
		return fmt.Errorf("invalid --mock-delay (must not be negative): %s", c.mockDelay)
	}
	if c.rateLimit < 0 {
		return fmt.Errorf("invalid --rate-limit (must not be negative): %g", c.rateLimit)
	}
	if c.rateBurst < 1 {
		return fmt.Errorf("invalid --rate-burst (must be at least 1): %d", c.rateBurst)
	}
	if c.redisDB < 0 {
		return fmt.Errorf("invalid --redis-db (must not be negative): %d", c.redisDB)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func (c *Config) roomConfig() room.Config {
	rc := room.DefaultConfig()

	rc.MaxPlayers = c.maxPlayers
	rc.GuessCharLimit = c.guessLimit
	rc.PromptTime = c.promptTime
	rc.GuessTime = c.guessTime
	rc.ReviewTime = c.reviewTime

	return rc
}

func (c *Config) imageOptions() imagegen.Options {
	return imagegen.Options{
		Provider:      c.imageProvider,
		MockDelay:     c.mockDelay,
		TogetherURL:   c.togetherURL,
		TogetherKey:   c.togetherKey,
		TogetherModel: c.togetherModel,
		Timeout:       c.imageTimeout,
	}
}

func (c *Config) gatewayOptions(gen imagegen.Generator, usage imagegen.Usage) gateway.Options {
	return gateway.Options{
		Room:              c.roomConfig(),
		Generator:         gen,
		Usage:             usage,
		GenerationTimeout: c.imageTimeout,
		RateLimit:         rate.Limit(c.rateLimit),
		RateBurst:         c.rateBurst,
		Logger:            c.log,
	}
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("IMPROMPT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "imprompt",
		Short:         "A multiplayer party game where players guess the prompt behind AI-generated images.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			cfg.log = newLogger(cmd.OutOrStdout(), cfg.verbose)
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: IMPROMPT_BIND)")
	fs.IntVar(&cfg.guessLimit, "guess-limit", maxGuessLimit, "maximum characters per guess, 20-50 (env: IMPROMPT_GUESS_LIMIT)")
	fs.DurationVar(&cfg.guessTime, "guess-time", 30*time.Second, "time players have to guess each image (env: IMPROMPT_GUESS_TIME)")
	fs.StringVar(&cfg.imageProvider, "image-provider", "mock", "image generator to use: mock, stock or together (env: IMPROMPT_IMAGE_PROVIDER)")
	fs.DurationVar(&cfg.imageTimeout, "image-timeout", imagegen.DefaultTimeout, "time allowed for each image generation (env: IMPROMPT_IMAGE_TIMEOUT)")
	fs.IntVar(&cfg.maxPlayers, "max-players", maxPlayers, "maximum players per room, 2-5 (env: IMPROMPT_MAX_PLAYERS)")
	fs.DurationVar(&cfg.mockDelay, "mock-delay", 2*time.Second, "simulated latency of the mock image provider (env: IMPROMPT_MOCK_DELAY)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: IMPROMPT_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: IMPROMPT_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: IMPROMPT_PROFILE)")
	fs.DurationVar(&cfg.promptTime, "prompt-time", 30*time.Second, "time the prompt giver has to submit a prompt (env: IMPROMPT_PROMPT_TIME)")
	fs.IntVar(&cfg.rateBurst, "rate-burst", 10, "messages a connection may send in a burst (env: IMPROMPT_RATE_BURST)")
	fs.Float64Var(&cfg.rateLimit, "rate-limit", 5, "messages per second allowed per connection, 0 for unlimited (env: IMPROMPT_RATE_LIMIT)")
	fs.StringVar(&cfg.redisAddr, "redis-addr", "", "redis address for shared usage counters, in-memory if unset (env: IMPROMPT_REDIS_ADDR)")
	fs.IntVar(&cfg.redisDB, "redis-db", 0, "redis database number (env: IMPROMPT_REDIS_DB)")
	fs.StringVar(&cfg.redisPassword, "redis-password", "", "redis password (env: IMPROMPT_REDIS_PASSWORD)")
	fs.DurationVar(&cfg.reviewTime, "review-time", 8*time.Second, "time results are shown between turns (env: IMPROMPT_REVIEW_TIME)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: IMPROMPT_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: IMPROMPT_TLS_KEY)")
	fs.StringVar(&cfg.togetherKey, "together-key", "", "Together.ai API key (env: IMPROMPT_TOGETHER_KEY)")
	fs.StringVar(&cfg.togetherModel, "together-model", imagegen.DefaultTogetherModel, "Together.ai image model (env: IMPROMPT_TOGETHER_MODEL)")
	fs.StringVar(&cfg.togetherURL, "together-url", imagegen.DefaultTogetherURL, "Together.ai image generation endpoint (env: IMPROMPT_TOGETHER_URL)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: IMPROMPT_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: IMPROMPT_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("imprompt v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
