package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/turnoshq/queue-service/internal/domain"
	"github.com/turnoshq/queue-service/internal/ports"
)

type seedUser struct {
	Username    string
	Password    string
	Role        domain.Role
	DisplayName string
}

var defaultUsers = []seedUser{
	{Username: "admin", Password: "Admin1234!", Role: domain.RoleAdmin, DisplayName: "Administrator"},
	{Username: "advisor", Password: "Advisor1234!", Role: domain.RoleAdvisor, DisplayName: "Advisor"},
	{Username: "clerk1", Password: "Clerk1234!", Role: domain.RoleProcedureClerk, DisplayName: "Procedure Clerk 1"},
	{Username: "clerk2", Password: "Clerk1234!", Role: domain.RoleProcedureClerk, DisplayName: "Procedure Clerk 2"},
}

// EnsureDefaultUsers creates the default staff accounts when missing and a
// FREE agent state for every agent-eligible one. Idempotent: existing
// usernames are left untouched.
func EnsureDefaultUsers(ctx context.Context, repos ports.RepositorySet, hasher ports.PasswordHasher) error {
	for _, def := range defaultUsers {
		user, err := repos.Users.GetByUsername(ctx, def.Username)
		if errors.Is(err, domain.ErrNotFound) {
			hash, hashErr := hasher.Hash(def.Password)
			if hashErr != nil {
				return fmt.Errorf("hash seed password for %s: %w", def.Username, hashErr)
			}
			now := time.Now().UTC()
			user, err = repos.Users.Create(ctx, domain.User{
				Username:     def.Username,
				PasswordHash: hash,
				Role:         def.Role,
				DisplayName:  def.DisplayName,
				CreatedAt:    now,
				UpdatedAt:    now,
			})
			if err != nil {
				return fmt.Errorf("seed user %s: %w", def.Username, err)
			}
			slog.Default().InfoContext(ctx, "seed user created",
				"module", "postgres",
				"layer", "adapter",
				"operation", "seed_users",
				"outcome", "success",
				"username", def.Username,
				"role", string(def.Role),
			)
		} else if err != nil {
			return fmt.Errorf("lookup seed user %s: %w", def.Username, err)
		}

		if !def.Role.AgentEligible() {
			continue
		}
		if _, err := repos.Agents.GetByUser(ctx, user.UserID); errors.Is(err, domain.ErrNotFound) {
			state := domain.AgentState{
				UserID:    user.UserID,
				Status:    domain.AgentStatusFree,
				UpdatedAt: time.Now().UTC(),
			}
			if err := repos.Agents.Save(ctx, state); err != nil {
				return fmt.Errorf("seed agent state for %s: %w", def.Username, err)
			}
		} else if err != nil {
			return fmt.Errorf("lookup agent state for %s: %w", def.Username, err)
		}
	}
	return nil
}
