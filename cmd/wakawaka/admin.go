package main

import (
	"database/sql"
	"strings"

	"github.com/rs/zerolog"

	"wakawaka/internal/auth"
	"wakawaka/internal/wiki"
)

var knownPermissions = map[string]bool{
	wiki.PermAddPage:        true,
	wiki.PermAddRevision:    true,
	wiki.PermChangePage:     true,
	wiki.PermChangeRevision: true,
	wiki.PermDeletePage:     true,
	wiki.PermDeleteRevision: true,
}

// handleAdminCommands runs the offline admin tooling:
//
//	wakawaka admin adduser <username> <display name> <password> [--superuser]
//	wakawaka admin grant <username> <permission>...
func handleAdminCommands(db *sql.DB, args []string, log zerolog.Logger) {
	service := auth.NewService(auth.NewRepository(db))

	if len(args) == 0 {
		log.Fatal().Msg("usage: wakawaka admin <adduser|grant> ...")
	}

	switch args[0] {
	case "adduser":
		if len(args) < 4 {
			log.Fatal().Msg("usage: wakawaka admin adduser <username> <display name> <password> [--superuser]")
		}
		superuser := len(args) > 4 && args[4] == "--superuser"
		user, err := service.RegisterUser(args[1], args[2], args[3], superuser)
		if err != nil {
			log.Fatal().Err(err).Msg("error creating user")
		}
		log.Info().Str("username", user.Username).Bool("superuser", superuser).Msg("user created")

	case "grant":
		if len(args) < 3 {
			log.Fatal().Msg("usage: wakawaka admin grant <username> <permission>...")
		}
		user, err := service.Repo.FindUserByUsername(args[1])
		if err != nil {
			log.Fatal().Err(err).Str("username", args[1]).Msg("no such user")
		}
		for _, perm := range args[2:] {
			if !knownPermissions[perm] {
				log.Fatal().Str("permission", perm).
					Str("known", strings.Join(permissionNames(), ", ")).
					Msg("unknown permission")
			}
			if err := service.Repo.GrantPermission(user.ID, perm); err != nil {
				log.Fatal().Err(err).Msg("error granting permission")
			}
		}
		log.Info().Str("username", user.Username).Strs("permissions", args[2:]).Msg("permissions granted")

	default:
		log.Fatal().Str("command", args[0]).Msg("unknown admin command")
	}
}

func permissionNames() []string {
	names := make([]string, 0, len(knownPermissions))
	for name := range knownPermissions {
		names = append(names, name)
	}
	return names
}
