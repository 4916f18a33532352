package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/qforge/qbank-backend/internal/config"
	"github.com/qforge/qbank-backend/internal/database"
	"github.com/qforge/qbank-backend/internal/logger"
	"github.com/qforge/qbank-backend/internal/model"
	"github.com/qforge/qbank-backend/internal/repository"
)

// Seeds the stock data a fresh install needs: the admin and user
// accounts, a default subject, a few shared tags, and the default quest
// templates. Safe to run repeatedly; existing rows are left alone.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	subjectRepo := repository.NewSubjectRepository(pool)
	tagRepo := repository.NewTagRepository(pool)
	questTemplateRepo := repository.NewQuestTemplateRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	fmt.Println("=== Seeding stock data ===")

	seedUsers := []struct {
		username    string
		displayName string
		roles       []string
	}{
		{"admin", "Admin", []string{model.RoleAdmin, model.RoleUser}},
		{"user", "User", []string{model.RoleUser}},
	}
	for _, su := range seedUsers {
		if _, err := userRepo.GetByUsernameOrEmail(ctx, su.username); err == nil {
			fmt.Printf("User %q already present, skipping\n", su.username)
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			log.Fatal().Err(err).Msg("Failed to look up seed user")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword(su.username)), cfg.BcryptCost)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to hash seed password")
		}
		u := &model.User{
			Username:     su.username,
			Email:        su.username + "@localhost",
			DisplayName:  su.displayName,
			Roles:        su.roles,
			PasswordHash: string(hash),
		}
		if err := userRepo.Create(ctx, u); err != nil {
			log.Fatal().Err(err).Msg("Failed to create seed user")
		}
		fmt.Printf("Created user %q\n", su.username)
	}

	defaultSubject := "General"
	if _, err := subjectRepo.GetByName(ctx, defaultSubject); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Fatal().Err(err).Msg("Failed to look up default subject")
		}
		subject := &model.Subject{Name: defaultSubject, Code: "GEN", IsDefault: true}
		if err := subjectRepo.Create(ctx, subject); err != nil {
			log.Fatal().Err(err).Msg("Failed to create default subject")
		}
		fmt.Printf("Created subject %q (%s)\n", subject.Name, subject.ID)
	} else {
		fmt.Printf("Subject %q already present, skipping\n", defaultSubject)
	}

	sharedTags := []string{"basic", "intermediate", "advanced"}
	existing, err := tagRepo.List(ctx, model.TagFilter{Shared: true})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list shared tags")
	}
	present := make(map[string]bool, len(existing))
	for _, t := range existing {
		present[t.Name] = true
	}
	for _, name := range sharedTags {
		if present[name] {
			continue
		}
		tag := &model.Tag{Name: name}
		if err := tagRepo.Create(ctx, tag); err != nil {
			log.Fatal().Err(err).Msg("Failed to create shared tag")
		}
		fmt.Printf("Created shared tag %q\n", name)
	}

	questTemplates := []model.QuestTemplate{
		{IsDefault: true, Subject: defaultSubject, Type: "exam", Title: "Standard Exam", Description: "Balanced mix of question kinds", QuestionNumber: 30},
		{IsDefault: true, Subject: defaultSubject, Type: "quiz", Title: "Quick Quiz", Description: "Short single-choice quiz", QuestionNumber: 10},
		{IsDefault: true, Subject: defaultSubject, Type: "practice", Title: "Practice Set", Description: "Mixed practice with analysis", QuestionNumber: 20},
	}
	for i := range questTemplates {
		qt := &questTemplates[i]
		if _, err := questTemplateRepo.GetByTitle(ctx, qt.Title); err == nil {
			fmt.Printf("Quest template %q already present, skipping\n", qt.Title)
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			log.Fatal().Err(err).Msg("Failed to look up quest template")
		}
		if err := questTemplateRepo.Create(ctx, qt); err != nil {
			log.Fatal().Err(err).Msg("Failed to create quest template")
		}
		fmt.Printf("Created quest template %q\n", qt.Title)
	}

	fmt.Println("Seeding complete")
}

// seedPassword reads SEED_<USERNAME>_PASSWORD from the environment and
// falls back to the username itself so a dev setup works out of the box.
func seedPassword(username string) string {
	if v := os.Getenv("SEED_" + strings.ToUpper(username) + "_PASSWORD"); v != "" {
		return v
	}
	return username
}
