// Package cli is the client entry point: it selects the diagnostic locale,
// extracts client directives, hands the residual command line to the
// connection controller, and mirrors the server's result.
package cli

import (
	"errors"
	"os"

	"github.com/tern-lang/ternc/internal/buildlog"
	"github.com/tern-lang/ternc/internal/catalog"
	"github.com/tern-lang/ternc/internal/client"
	"github.com/tern-lang/ternc/internal/config"
	"github.com/tern-lang/ternc/internal/protocol"
	"github.com/tern-lang/ternc/internal/spawn"
)

// Test hooks.
var (
	serverPathFn = spawn.ServerPath
	getwdFn      = os.Getwd
	runFn        = (*client.Controller).Run
)

// Run relays one compilation for the given language. Returns the process
// exit code: the server's on a completed exchange, the client-error code
// on any fatal condition.
func Run(language protocol.Language, args []string) int {
	// The locale must be settled before any message can be resolved.
	if lang := ScanPreferredUILang(args); lang != "" {
		catalog.SetPreferred(lang)
	}

	cfg, err := config.Load()
	if err != nil {
		client.EmitFatal("ternc: " + err.Error())
		return protocol.ExitClientError
	}

	logger := buildlog.New(cfg.ResolvedLogFile())
	defer logger.Sync() //nolint:errcheck

	residual, directives, err := ExtractDirectives(args)
	if err != nil {
		return fatal(err)
	}

	workDir, err := getwdFn()
	if err != nil {
		return fatal(catalog.Fatalf(catalog.GetCurrentDirectoryFailed, err))
	}

	imagePath := cfg.ServerPath
	if imagePath == "" {
		imagePath, err = serverPathFn()
		if err != nil {
			return fatal(catalog.Fatalf(catalog.GetExpectedServerPathFailed, err))
		}
	}

	var libEnv *string
	if lib, ok := os.LookupEnv("LIB"); ok {
		libEnv = &lib
	}

	ctrl := &client.Controller{
		Language:               language,
		ImagePath:              imagePath,
		WorkDir:                workDir,
		Args:                   residual,
		LibEnv:                 libEnv,
		KeepAlive:              directives.KeepAlive,
		ExistingConnectTimeout: cfg.ExistingConnectTimeout(),
		SpawnConnectTimeout:    cfg.SpawnConnectTimeout(),
		Log:                    logger,
	}

	resp, err := runFn(ctrl)
	if err != nil {
		return fatal(err)
	}

	client.EmitResponse(resp)
	return resp.ExitCode
}

func fatal(err error) int {
	var fe *catalog.FatalError
	if errors.As(err, &fe) {
		client.EmitFatal(fe.Message)
	} else {
		client.EmitFatal(err.Error())
	}
	return protocol.ExitClientError
}
