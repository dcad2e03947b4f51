package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater"
	"github.com/go-pkgz/repeater/strategy"
	"github.com/umputun/go-flags"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/umputun/jobtrack/app/store"
	"github.com/umputun/jobtrack/app/web"
)

const defaultSecret = "dev-key-please-change"

var opts struct {
	Host      string  `long:"host" env:"HOST" default:"0.0.0.0" description:"listen host"`
	Port      int     `short:"p" long:"port" env:"PORT" default:"5001" description:"listen port"`
	DB        string  `long:"db" env:"DATABASE_URL" default:"sqlite://var/jobs.db" description:"database connection string, sqlite path or postgres:// url"`
	Frontend  string  `long:"frontend" env:"FRONTEND_URL" default:"http://localhost:3000" description:"frontend origin allowed by CORS"`
	Secret    string  `long:"secret" env:"SECRET_KEY" default:"dev-key-please-change" description:"secret key"`
	Env       string  `long:"env" env:"APP_ENV" default:"development" choice:"development" choice:"production" description:"run mode, development exposes error details"`
	SeedFile  string  `long:"seed-file" env:"SEED_FILE" description:"yaml file with sample jobs for an empty database"`
	NoSeed    bool    `long:"no-seed" env:"NO_SEED" description:"don't seed an empty database"`
	RateLimit float64 `long:"limit" env:"RATE_LIMIT" default:"10" description:"max create/update/delete requests per second per client, 0 to disable"`
	MaxBody   int64   `long:"max-body" env:"MAX_BODY" default:"1048576" description:"max request body size in bytes"`

	DBConnect struct {
		Attempts int           `long:"attempts" env:"ATTEMPTS" default:"5" description:"how many times to try connecting to database on start"`
		Delay    time.Duration `long:"delay" env:"DELAY" default:"500ms" description:"initial delay between connection attempts"`
	} `group:"db-connect" namespace:"db-connect" env-namespace:"DB_CONNECT"`

	Log struct {
		Enabled         bool   `long:"enabled" env:"ENABLED" description:"enable logging to file"`
		Filename        string `long:"file" env:"FILE" default:"var/jobtrack.log" description:"log file name"`
		MaxSize         int    `long:"max-size" env:"MAX_SIZE" default:"100" description:"max log file size in megabytes"`
		MaxBackups      int    `long:"max-backups" env:"MAX_BACKUPS" default:"7" description:"max number of old log files to keep"`
		MaxAge          int    `long:"max-age" env:"MAX_AGE" default:"0" description:"max days to keep old log files, 0 keeps all"`
		EnabledCompress bool   `long:"compress" env:"COMPRESS" description:"compress rotated log files"`
	} `group:"log" namespace:"log" env-namespace:"LOG"`

	Dbg bool `long:"dbg" env:"DEBUG" description:"debug mode"`
}

var revision = "unknown"

func main() {
	fmt.Printf("jobtrack %s\n", revision)

	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(2)
	}
	setupLogs()

	defer func() {
		if x := recover(); x != nil {
			log.Printf("[WARN] run time panic:\n%v", x)
			panic(x)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	signals(cancel) // handle SIGQUIT and SIGTERM

	if err := run(ctx); err != nil {
		log.Printf("[ERROR] %v", err)
		cancel()
		os.Exit(1)
	}
	cancel()
}

// run prepares the database (connect, migrate, seed) and serves the api until ctx is canceled
func run(ctx context.Context) error {
	dev := isDev()
	if !dev && opts.Secret == defaultSecret {
		log.Printf("[WARN] default secret key in production mode, set SECRET_KEY")
	}

	st, err := connectStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	if err = st.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err = seedStore(ctx, st); err != nil {
		return err
	}

	srv, err := web.New(web.Config{
		Store:       st,
		FrontendURL: opts.Frontend,
		Version:     revision,
		Dev:         dev,
		RateLimit:   opts.RateLimit,
		MaxBodySize: opts.MaxBody,
	})
	if err != nil {
		return fmt.Errorf("failed to create web server: %w", err)
	}
	return srv.Run(ctx, net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)))
}

// connectStore opens the database, retrying with backoff as a database server may still be starting
func connectStore(ctx context.Context) (*store.Store, error) {
	rptr := repeater.New(&strategy.Backoff{Repeats: opts.DBConnect.Attempts, Duration: opts.DBConnect.Delay, Factor: 2})

	var st *store.Store
	err := rptr.Do(ctx, func() error {
		var openErr error
		if st, openErr = store.Open(ctx, opts.DB); openErr != nil {
			log.Printf("[WARN] can't connect to database, %v", openErr)
		}
		return openErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return st, nil
}

// seedStore adds sample jobs to an empty database, from seed file if set or built-in ones
func seedStore(ctx context.Context, st *store.Store) error {
	if opts.NoSeed {
		return nil
	}

	seeds, err := loadSeeds()
	if err != nil {
		return err
	}
	if _, err = st.Seed(ctx, seeds); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}
	return nil
}

func loadSeeds() ([]store.SeedJob, error) {
	if opts.SeedFile != "" {
		return store.LoadSeedFile(opts.SeedFile)
	}
	return store.DefaultSeeds()
}

func isDev() bool {
	return opts.Env != "production"
}

// setupLogs configures lgr, returns the writer used for log output
func setupLogs() io.Writer {
	var out io.Writer = os.Stdout
	if opts.Log.Enabled {
		out = &lumberjack.Logger{
			Filename:   opts.Log.Filename,
			MaxSize:    opts.Log.MaxSize,
			MaxBackups: opts.Log.MaxBackups,
			MaxAge:     opts.Log.MaxAge,
			Compress:   opts.Log.EnabledCompress,
		}
	}

	logOpts := []log.Option{log.Msec, log.LevelBraces, log.Out(out)}
	if opts.Dbg || isDev() {
		logOpts = append(logOpts, log.Debug, log.CallerFunc, log.CallerPkg, log.CallerFile)
	}
	log.Setup(logOpts...)
	return out
}

func signals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	go func() {
		stacktrace := make([]byte, 8192)
		for sig := range sigChan {
			if sig == syscall.SIGQUIT { // catch SIGQUIT and print stack traces
				length := runtime.Stack(stacktrace, true)
				fmt.Println(string(stacktrace[:length]))
				continue
			}
			log.Printf("[INFO] %v received, shutting down", sig)
			cancel() // terminate on SIGTERM and SIGINT
		}
	}()
	signal.Notify(sigChan, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT)
}
