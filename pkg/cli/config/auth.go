package config

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/docket-hq/docket/pkg/domain/interfaces"
	"github.com/docket-hq/docket/pkg/domain/model/auth"
	"github.com/docket-hq/docket/pkg/usecase"
	"github.com/docket-hq/docket/pkg/utils/logging"
)

// Auth holds CLI flags for authentication configuration
type Auth struct {
	usersPath string
	signKey   string
	noAuthUID string
}

// usersFile is the TOML shape of the provisioned account list.
type usersFile struct {
	Users []*auth.User `toml:"user"`
}

// Flags returns CLI flags for authentication configuration
func (a *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "users-file",
			Category:    "Authentication",
			Usage:       "Path to TOML file with provisioned accounts",
			Sources:     cli.EnvVars("DOCKET_USERS_FILE"),
			Destination: &a.usersPath,
		},
		&cli.StringFlag{
			Name:        "auth-sign-key",
			Category:    "Authentication",
			Usage:       "Secret key for signing password-reset tokens",
			Sources:     cli.EnvVars("DOCKET_AUTH_SIGN_KEY"),
			Destination: &a.signKey,
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Category:    "Authentication",
			Usage:       "Skip authentication and run as the given user ID (development only)",
			Sources:     cli.EnvVars("DOCKET_NO_AUTH"),
			Destination: &a.noAuthUID,
		},
	}
}

// IsNoAuthMode reports whether authentication is disabled.
func (a *Auth) IsNoAuthMode() bool {
	return a.noAuthUID != ""
}

// SetNoAuthUID overrides the no-auth user ID.
func (a *Auth) SetNoAuthUID(uid string) {
	a.noAuthUID = uid
}

func (a *Auth) loadUsers() ([]*auth.User, error) {
	data, err := os.ReadFile(a.usersPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, "users file not found", goerr.V(ConfigPathKey, a.usersPath))
		}
		return nil, goerr.Wrap(err, "failed to read users file", goerr.V(ConfigPathKey, a.usersPath))
	}

	var file usersFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse users file",
			goerr.V(ConfigPathKey, a.usersPath),
			goerr.V("parse_error", err.Error()))
	}

	seen := make(map[string]bool, len(file.Users))
	for _, u := range file.Users {
		if err := u.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid user in users file", goerr.V(ConfigPathKey, a.usersPath))
		}
		if seen[u.Email] {
			return nil, goerr.Wrap(ErrInvalidConfig, "duplicate user email",
				goerr.V(ConfigPathKey, a.usersPath),
				goerr.V("email", u.Email))
		}
		seen[u.Email] = true
	}

	return file.Users, nil
}

// Configure builds the authentication use case. With --no-auth it returns
// the fixed-user variant; otherwise it loads the provisioned accounts and
// requires a signing key.
func (a *Auth) Configure(ctx context.Context, repo interfaces.Repository) (usecase.AuthUseCaseInterface, error) {
	if a.noAuthUID != "" {
		logging.Default().Warn("Running in no-auth mode (development only)", "user_id", a.noAuthUID)
		return usecase.NewNoAuthnUseCase(a.noAuthUID, "", a.noAuthUID), nil
	}

	if a.usersPath == "" {
		return nil, goerr.New("users-file is required unless --no-auth is set")
	}
	if a.signKey == "" {
		return nil, goerr.New("auth-sign-key is required unless --no-auth is set")
	}

	users, err := a.loadUsers()
	if err != nil {
		return nil, err
	}

	authUC, err := usecase.NewAuthUseCase(repo, users, []byte(a.signKey))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure authentication")
	}

	logging.Default().Info("Authentication enabled", "users", len(users))
	return authUC, nil
}
