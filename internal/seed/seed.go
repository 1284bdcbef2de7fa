// Package seed loads a demo account with a small sample board, for local
// development against a fresh database.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"taskit/internal/domain"
	categoryrepo "taskit/internal/repository/category"
	taskrepo "taskit/internal/repository/task"
	userrepo "taskit/internal/repository/user"
	"taskit/internal/validate"
)

const (
	demoEmail    = "demo@taskit.local"
	demoPassword = "demo-password"
)

type seedCategory struct {
	name  string
	tasks []string
}

var sampleBoard = []seedCategory{
	{name: "Work", tasks: []string{"Review open pull requests", "Prepare sprint notes", "Reply to support queue"}},
	{name: "Home", tasks: []string{"Water the plants", "Book dentist appointment"}},
	{name: "Reading", tasks: []string{"Finish chapter 4"}},
}

// Apply inserts the demo user and sample board. Running it against a
// database that already has the demo user is a no-op.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	users := userrepo.NewPostgres(pool)
	categories := categoryrepo.NewPostgres(pool)
	tasks := taskrepo.NewPostgres(pool)

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}
	u, err := users.Create(ctx, domain.User{
		DisplayName:  "Demo User",
		Email:        demoEmail,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil
		}
		return fmt.Errorf("create demo user: %w", err)
	}

	for _, sc := range sampleBoard {
		value, normalized, err := validate.CategoryName(sc.name)
		if err != nil {
			return fmt.Errorf("seed category %q: %w", sc.name, err)
		}
		categoryID, err := categories.Create(ctx, domain.Category{
			UserID:         u.ID,
			Name:           value,
			NormalizedName: normalized,
		})
		if err != nil {
			return fmt.Errorf("create category %q: %w", sc.name, err)
		}
		for _, text := range sc.tasks {
			if _, err := tasks.Create(ctx, domain.Task{
				UserID:     u.ID,
				CategoryID: categoryID,
				Text:       text,
			}); err != nil {
				return fmt.Errorf("create task under %q: %w", sc.name, err)
			}
		}
	}
	return nil
}
