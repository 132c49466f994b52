package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"gouq/adapters/excel"
	"gouq/adapters/jsonfile"
	"gouq/adapters/postgres"
	"gouq/adapters/subprocess"
	"gouq/app"
	"gouq/internal/config"
	"gouq/internal/report"
	"gouq/ports"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: study <config.json> [monte_carlo|latin_hypercube]")
	}

	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}
	env := config.LoadEnv()

	cfg, err := config.LoadStudy(os.Args[1])
	if err != nil {
		log.Fatalf("Invalid study configuration: %v", err)
	}

	method := app.MethodMonteCarlo
	if len(os.Args) > 2 {
		method = app.SamplingMethod(strings.ToLower(os.Args[2]))
	}

	if env.EvaluatorCmd == "" {
		log.Fatal("GOUQ_EVALUATOR must name the external model command")
	}
	parts := strings.Fields(env.EvaluatorCmd)
	evaluator := subprocess.NewEvaluator(parts[0], parts[1:]...)

	ctx := context.Background()

	var studies ports.StudyRepository
	if env.DatabaseURL != "" {
		db, err := sqlx.Connect("postgres", env.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		repo := postgres.NewStudyRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			log.Fatalf("Failed to migrate schema: %v", err)
		}
		studies = repo
	}

	service := app.NewStudyService(evaluator, jsonfile.NewBaselineLoader(), studies, env.Workers)

	summary, err := service.RunStudy(ctx, app.StudyRequest{Config: cfg, Method: method})
	if err != nil {
		if summary != nil && summary.Failures > 0 {
			for _, f := range summary.Failed {
				log.Printf("  sample %d failed: %s", f.Index, f.Reason)
			}
		}
		log.Fatalf("Study failed: %v", err)
	}

	fmt.Print(report.Markdown(summary))

	if env.ExcelPath != "" {
		if err := excel.NewReportWriter().Write(summary, env.ExcelPath); err != nil {
			log.Fatalf("Failed to write workbook: %v", err)
		}
		log.Printf("Wrote workbook to %s", env.ExcelPath)
	}
}
