package catalog

import (
	"context"
	"log"
)

// DefaultSkills is the stock skill catalog installed by cmd/seed.
var DefaultSkills = []string{
	"Java",
	"JavaScript",
	"TypeScript",
	"HTML",
	"CSS",
	"PHP",
	"Ruby",
	"Swift",
	"Kotlin",
	"Go",
	"Rust",
	"C",
	"C++",
	"C#",
	"Python",
	"React",
	"Node.js",
	"MongoDB",
	"PostgreSQL",
	"MySQL",
	"Docker",
	"Kubernetes",
	"Git",
	"Express Js",
	"Angular",
	"Vue.js",
	"Next.js",
	"Flask",
	"Django",
	"FastAPI",
	"Flutter",
}

// DefaultCategories is the stock category catalog installed by cmd/seed.
var DefaultCategories = []string{
	"Web Development",
	"Mobile Development",
	"Game Development",
	"Machine Learning",
	"Data Engineering",
	"DevOps",
	"Embedded Systems",
	"Desktop Applications",
	"Open Source Tooling",
	"Design",
}

// Seed installs both catalogs and drops any cached copies.
func Seed(ctx context.Context, repo *Repository, cache *Cache) error {
	if err := repo.SeedCategories(ctx, DefaultCategories); err != nil {
		return err
	}
	if err := repo.SeedSkills(ctx, DefaultSkills); err != nil {
		return err
	}
	if cache != nil {
		if err := cache.Invalidate(ctx); err != nil {
			log.Printf("Warning: failed to invalidate catalog cache: %v", err)
		}
	}
	return nil
}
