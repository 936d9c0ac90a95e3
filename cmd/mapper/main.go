// cmd/mapper/main.go
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/tamzrod/modbus-mapper/internal/codec"
	"github.com/tamzrod/modbus-mapper/internal/config"
	"github.com/tamzrod/modbus-mapper/internal/logging"
	"github.com/tamzrod/modbus-mapper/internal/schema"
)

const usage = `usage:
  mapper schema <config>
  mapper read   [-coils] <config> [field...]
  mapper write  [-coils] <config> name=value...
  mapper watch  <config>`

func main() {
	logging.ConfigureRuntime()

	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "schema":
		err = runSchema(args)
	case "read":
		err = runRead(args)
	case "write":
		err = runWrite(args)
	case "watch":
		err = runWatch(args)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		log.Fatal().Err(err).Str("cmd", os.Args[1]).Msg("mapper failed")
	}
}

// app is the loaded config plus the schema and codec derived from it.
type app struct {
	cfg    *config.Config
	schema *schema.Schema
	codec  *codec.Codec
}

func load(path string) (*app, error) {
	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)

	// --------------------
	// Derive schema + codec
	// --------------------

	s, err := cfg.Schema.Build()
	if err != nil {
		return nil, err
	}
	c, err := codec.New(s)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, schema: s, codec: c}, nil
}
