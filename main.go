package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/bleeding182/localizator/config"
	"github.com/bleeding182/localizator/logging"
	"github.com/bleeding182/localizator/source"
	"github.com/bleeding182/localizator/writer"
	"github.com/bleeding182/localizator/writer/android"
	"github.com/bleeding182/localizator/writer/ios"
	"github.com/bleeding182/localizator/writer/web"
)

// go build -ldflags "-X main.version={version}"
var version string

const appDescription = `
A CLI-Tool to export localized strings from your Google Sheets.

key             en              fr
main_greeting   Hello, world!   Bonjour, le monde !

Columns:
    The first column holds the keys, every following column the values of one language.
    Pass the languages in the same order as the columns with --languages.

Platforms:
    ios       Localizable.strings in Base.lproj and <language>.lproj folders.
    android   strings.xml in values and values-<language> folders. Keys must be lowercase snake_case.
    web       <language>.ts modules exporting one object per language.

Configuration:
    Flags can also be set in localizator.yaml, in the environment or in a .env file.
`

type cli struct {
	app *kingpin.Application

	configPath  *string
	platform    *string
	path        *string
	languages   *string
	base        *string
	fileID      *string
	gid         *string
	csv         *string
	keepCSV     *bool
	credentials *string
	token       *string
	headers     *[]string
	swiftUtil   *bool
	logLevel    *string
	logFormat   *string
}

func newCLI() *cli {
	app := kingpin.New("localizator", appDescription).Version(version)
	return &cli{
		app:         app,
		configPath:  app.Flag("config", "YAML configuration file.").Default(config.DefaultPath).Envar("LOCALIZATOR_CONFIG").String(),
		platform:    app.Flag("platform", "Export target: ios, android or web.").Short('p').Envar("LOCALIZATOR_PLATFORM").String(),
		path:        app.Flag("path", "Output directory, e.g. the folder holding the *.lproj or values-* folders.").Envar("LOCALIZATOR_PATH").String(),
		languages:   app.Flag("languages", "Comma separated languages in spreadsheet column order.").Short('l').Envar("LOCALIZATOR_LANGUAGES").String(),
		base:        app.Flag("base", "Language exported to the unqualified Android values folder. Defaults to the first language.").Envar("LOCALIZATOR_BASE").String(),
		fileID:      app.Flag("id", "Drive file id, skips the selection prompt.").Envar("LOCALIZATOR_FILE_ID").String(),
		gid:         app.Flag("gid", "Sheet id of the tab to export, from the end of the spreadsheet URL.").Envar("LOCALIZATOR_GID").String(),
		csv:         app.Flag("csv", "Read a local CSV export instead of downloading from Drive.").Envar("LOCALIZATOR_CSV").String(),
		keepCSV:     app.Flag("keep-csv", "Keep the downloaded CSV file on the disk.").Envar("LOCALIZATOR_KEEP_CSV").Bool(),
		credentials: app.Flag("credentials", "OAuth client secret file.").Envar("LOCALIZATOR_CREDENTIALS").String(),
		token:       app.Flag("token", "File caching the OAuth token.").Envar("LOCALIZATOR_TOKEN").String(),
		headers:     app.Flag("header", "Comment line added to the top of every generated file. Repeatable.").Strings(),
		swiftUtil:   app.Flag("swift-util", "Also generate Strings.swift accessors for iOS.").Envar("LOCALIZATOR_SWIFT_UTIL").Bool(),
		logLevel:    app.Flag("log-level", "debug, info, warn or error.").Envar("LOCALIZATOR_LOG_LEVEL").String(),
		logFormat:   app.Flag("log-format", "console or json.").Envar("LOCALIZATOR_LOG_FORMAT").String(),
	}
}

// apply overrides cfg with every flag that was set.
func (c *cli) apply(cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Platform, *c.platform)
	set(&cfg.Path, *c.path)
	set(&cfg.Base, *c.base)
	set(&cfg.Source.FileID, *c.fileID)
	set(&cfg.Source.GID, *c.gid)
	set(&cfg.Source.CSV, *c.csv)
	set(&cfg.Auth.Credentials, *c.credentials)
	set(&cfg.Auth.Token, *c.token)
	set(&cfg.Log.Level, *c.logLevel)
	set(&cfg.Log.Format, *c.logFormat)

	if *c.languages != "" {
		cfg.Languages = config.SplitLanguages(*c.languages)
	}
	if len(*c.headers) > 0 {
		cfg.Headers = *c.headers
	}
	if *c.keepCSV {
		cfg.Source.KeepCSV = true
	}
	if *c.swiftUtil {
		cfg.SwiftUtil = true
	}
}

func main() {
	log.Logger = logging.New(os.Stderr, "info", logging.FormatConsole)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		stop()
		log.Fatal().Err(err).Msg("Localization failed")
	}
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("Unable to load .env file")
	}

	c := newCLI()
	if _, err := c.app.Parse(args); err != nil {
		return err
	}

	cfg, found, err := config.Load(*c.configPath)
	if err != nil {
		return err
	}
	c.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log.Logger = logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if found {
		log.Debug().Str("path", *c.configPath).Msg("Loaded configuration")
	}

	opts := writer.Options{
		Logger:       log.Logger,
		Headers:      cfg.Headers,
		BaseLanguage: cfg.Base,
		SwiftUtil:    cfg.SwiftUtil,
	}
	registry := writer.NewRegistry(ios.New(opts), android.New(opts), web.New(opts))

	// Fail on a bad platform before anything is downloaded.
	if _, err := registry.Lookup(cfg.Platform); err != nil {
		return err
	}

	data, cleanup, err := fetch(ctx, &cfg, in, out)
	if err != nil {
		return err
	}

	log.Info().Msgf("Languages: %s (in Google Spreadsheet columns order)", strings.Join(cfg.Languages, ","))
	if err := registry.Run(cfg.Platform, bytes.NewReader(data), cfg.Languages, cfg.Path); err != nil {
		return err
	}
	cleanup()

	log.Info().
		Str("platform", cfg.Platform).
		Str("path", cfg.Path).
		Msg("Success! Localization files have been generated")
	return nil
}

// fetch reads the local CSV or downloads the spreadsheet into the temp
// file. cleanup removes the temp file unless KeepCSV is set.
func fetch(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) (data []byte, cleanup func(), err error) {
	cleanup = func() {}
	if cfg.Source.CSV != "" {
		data, err = source.File{Path: cfg.Source.CSV}.Fetch(ctx)
		return data, cleanup, err
	}

	provider := &source.Drive{
		Auth: &source.Auth{
			CredentialsFile: cfg.Auth.Credentials,
			TokenFile:       cfg.Auth.Token,
			Out:             out,
			Logger:          log.Logger,
		},
		FileID: cfg.Source.FileID,
		GID:    cfg.Source.GID,
		In:     in,
		Out:    out,
		Logger: log.Logger,
	}
	if data, err = provider.Fetch(ctx); err != nil {
		return nil, cleanup, err
	}

	tempFile := cfg.Source.TempFile
	if err := os.WriteFile(tempFile, data, 0o600); err != nil {
		return nil, cleanup, fmt.Errorf("write %s: %w", tempFile, err)
	}
	if cfg.Source.KeepCSV {
		log.Info().Str("path", tempFile).Msg("Keeping CSV file")
		return data, cleanup, nil
	}
	return data, func() {
		if err := os.Remove(tempFile); err != nil {
			log.Warn().Err(err).Str("path", tempFile).Msg("Unable to remove CSV file")
		}
	}, nil
}
