package config

import (
	"flag"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/IlikeChooros/go-menace/pkg/game"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Prefix of the environment variables read by Load
const EnvPrefix = "MENACE_"

type Config struct {
	KnowledgeFile string
	JournalFile   string // training run history, empty disables it
	Bias          int

	// Training
	Games    int
	Workers  int
	Opponent string
	Runtime  time.Duration

	// Interactive play
	Cross     string
	Circle    string
	MoveDelay time.Duration
	Plain     bool

	LogLevel  string
	LogPretty bool
}

func Default() Config {
	return Config{
		KnowledgeFile: "knowledge.json",
		JournalFile:   "menace.db",
		Bias:          1,
		Games:         10000,
		Workers:       runtime.NumCPU(),
		Opponent:      game.KnowledgeDriven.String(),
		Cross:         game.HumanInput.String(),
		Circle:        game.KnowledgeDriven.String(),
		MoveDelay:     500 * time.Millisecond,
		LogLevel:      "info",
		LogPretty:     true,
	}
}

// Defaults overlaid with the variables of 'envFile' and then with the process
// environment, which wins. A missing env file is not an error.
func Load(envFile string) (Config, error) {
	fileVars := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileVars = vars
		case !errors.Is(err, os.ErrNotExist):
			return Config{}, errors.Wrapf(err, "read %s", envFile)
		}
	}

	cfg := Default()
	err := cfg.ApplyEnv(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	})
	return cfg, err
}

// Overlay the MENACE_* variables found by 'lookup'
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}
	var err error
	setInt := func(name string, dst *int) {
		if v, ok := get(name); ok && err == nil {
			n, perr := strconv.Atoi(v)
			if perr != nil {
				err = errors.Wrapf(perr, "%s%s", EnvPrefix, name)
				return
			}
			*dst = n
		}
	}
	setDuration := func(name string, dst *time.Duration) {
		if v, ok := get(name); ok && err == nil {
			d, perr := time.ParseDuration(v)
			if perr != nil {
				err = errors.Wrapf(perr, "%s%s", EnvPrefix, name)
				return
			}
			*dst = d
		}
	}
	setBool := func(name string, dst *bool) {
		if v, ok := get(name); ok && err == nil {
			b, perr := strconv.ParseBool(v)
			if perr != nil {
				err = errors.Wrapf(perr, "%s%s", EnvPrefix, name)
				return
			}
			*dst = b
		}
	}
	setString := func(name string, dst *string) {
		if v, ok := get(name); ok {
			*dst = v
		}
	}

	setString("KNOWLEDGE", &c.KnowledgeFile)
	setString("JOURNAL", &c.JournalFile)
	setInt("BIAS", &c.Bias)
	setInt("GAMES", &c.Games)
	setInt("WORKERS", &c.Workers)
	setString("OPPONENT", &c.Opponent)
	setDuration("RUNTIME", &c.Runtime)
	setString("X", &c.Cross)
	setString("O", &c.Circle)
	setDuration("MOVE_DELAY", &c.MoveDelay)
	setBool("PLAIN", &c.Plain)
	setString("LOG_LEVEL", &c.LogLevel)
	setBool("LOG_PRETTY", &c.LogPretty)
	return err
}

// Shared flags, their defaults are the current values so that command line
// arguments take precedence over the environment
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.KnowledgeFile, "kb", c.KnowledgeFile, "knowledge base file")
	fs.StringVar(&c.JournalFile, "journal", c.JournalFile, "training history database, empty to disable")
	fs.IntVar(&c.Bias, "bias", c.Bias, "copies of every legal move in a new bag")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "trace, debug, info, warn or error")
	fs.BoolVar(&c.LogPretty, "log-pretty", c.LogPretty, "human readable log output")
}

func (c *Config) BindTrainFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Games, "games", c.Games, "number of training games")
	fs.IntVar(&c.Workers, "workers", c.Workers, "number of parallel games")
	fs.StringVar(&c.Opponent, "opponent", c.Opponent, "ai (self-play) or random")
	fs.DurationVar(&c.Runtime, "runtime", c.Runtime, "stop training after this long, 0 for no limit")
}

func (c *Config) BindPlayFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Cross, "x", c.Cross, "player of X: human, ai or random")
	fs.StringVar(&c.Circle, "o", c.Circle, "player of O: human, ai or random")
	fs.DurationVar(&c.MoveDelay, "delay", c.MoveDelay, "pause before computer moves")
	fs.BoolVar(&c.Plain, "plain", c.Plain, "line based play instead of the terminal UI")
}

func (c Config) Validate() error {
	if c.KnowledgeFile == "" {
		return errors.New("knowledge file must not be empty")
	}
	if c.Bias < 1 {
		return errors.Errorf("bias must be at least 1, got %d", c.Bias)
	}
	if c.Games < 0 {
		return errors.Errorf("games must not be negative, got %d", c.Games)
	}
	if c.Workers < 1 {
		return errors.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Runtime < 0 || c.MoveDelay < 0 {
		return errors.New("durations must not be negative")
	}

	opponent, err := game.ParsePlayerKind(c.Opponent)
	if err != nil {
		return errors.Wrap(err, "opponent")
	}
	if opponent == game.HumanInput {
		return errors.New("opponent must be ai or random")
	}
	if _, err := game.ParsePlayerKind(c.Cross); err != nil {
		return errors.Wrap(err, "x")
	}
	if _, err := game.ParsePlayerKind(c.Circle); err != nil {
		return errors.Wrap(err, "o")
	}
	return nil
}
