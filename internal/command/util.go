package command

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"runtime"
	"runtime/debug"

	"golang.org/x/term"

	"github.com/stolasapp/inotebook/internal/config"
	"github.com/stolasapp/inotebook/internal/notebook"
	"github.com/stolasapp/inotebook/internal/sec"
	"github.com/stolasapp/inotebook/internal/storage"
)

type configKey struct{}

func prompt(prompt string, mask bool) ([]byte, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		if _, err := os.Stderr.WriteString(prompt); err != nil {
			return nil, err
		}
	}
	ret, err := readLine(os.Stdin, mask)
	if mask && term.IsTerminal(int(os.Stdin.Fd())) {
		_, _ = os.Stderr.WriteString("\n")
	}
	return ret, err
}

// cloned from term.readPasswordLine.
func readLine(stdin *os.File, mask bool) ([]byte, error) {
	if mask && term.IsTerminal(int(stdin.Fd())) {
		return term.ReadPassword(int(stdin.Fd()))
	}
	var buf [1]byte
	var ret []byte

	for {
		n, err := stdin.Read(buf[:])
		if n > 0 {
			switch buf[0] {
			case '\b':
				if len(ret) > 0 {
					ret = ret[:len(ret)-1]
				}
			case '\n':
				if runtime.GOOS != "windows" {
					return ret, nil
				}
				// otherwise ignore \n
			case '\r':
				if runtime.GOOS == "windows" {
					return ret, nil
				}
				// otherwise ignore \r
			default:
				ret = append(ret, buf[0]) //nolint:gosec // erroneous error
			}
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(ret) > 0 {
				return ret, nil
			}
			return ret, err
		}
	}
}

func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown-dev"
	}
	ver := "unknown"
	dirty := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			ver = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if dirty {
		ver += "-dev"
	}
	return ver
}

func loadConfig(ctx context.Context) (*config.Config, *slog.Logger, *storage.DB, error) {
	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok {
		return nil, nil, nil, errors.New("config file resolution failed")
	}
	logger := slog.Default()
	store, err := storage.NewDB(ctx, cfg.Database, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, logger, store, nil
}

// newService wires the credential hasher and token service into a
// [notebook.Service] backed by store.
func newService(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	store storage.Store,
) (*notebook.Service, *sec.Tokens, error) {
	hasher, err := sec.NewHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return nil, nil, err
	}
	tokens := sec.NewTokens([]byte(cfg.Auth.SigningKey), cfg.Auth.TokenValidity)
	if tokens.Insecure() {
		logger.WarnContext(ctx, "no signing key configured, using the insecure development key")
	}
	return notebook.New(store, hasher, tokens), tokens, nil
}
