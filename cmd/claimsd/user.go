package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tbourn/claims-backend/internal/domain"
	httpapi "github.com/tbourn/claims-backend/internal/http"
	"github.com/tbourn/claims-backend/internal/repo"
	"github.com/tbourn/claims-backend/internal/services"
)

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	cmd.AddCommand(userCreateCmd())
	return cmd
}

// userCreateCmd bootstraps accounts, in particular the first admin, which
// the API cannot create without an existing admin token.
func userCreateCmd() *cobra.Command {
	var (
		username, password, role string
		perms                    []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Example: `  claimsd user create --username root --password 'change-me-now' --role admin
  claimsd user create --username jane --password 's3cret-pass' --permission claims:purge`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := services.Registration{Username: username, Password: password, Role: domain.Role(role)}
			for _, p := range perms {
				reg.Permissions = append(reg.Permissions, domain.Permission(p))
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			db, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer repo.Close(db)

			svcs, _, _ := httpapi.Services(db, cfg)
			u, err := svcs.Users.Register(ctx, reg)
			if err != nil {
				return fmt.Errorf("create user: %s", services.PublicMessage(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %q (id %d, role %s)\n", u.Username, u.ID, u.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "password (min 8 characters)")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleStaff), "admin, staff or viewer")
	cmd.Flags().StringSliceVar(&perms, "permission", nil, "extra permission, repeatable (resource:action)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
