package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/ogurasousui/codex-grpc-hiring-assistant/internal/adapters/repository/memory"
	"github.com/ogurasousui/codex-grpc-hiring-assistant/internal/core/employee"
	"github.com/ogurasousui/codex-grpc-hiring-assistant/internal/platform/config"
	"github.com/ogurasousui/codex-grpc-hiring-assistant/internal/platform/logger"
)

type round struct {
	date     string
	panel    string
	marks    int
	feedback string
}

var defaultRounds = []round{
	{date: "2025-04-01", panel: "HR", marks: 85, feedback: "Good communication."},
	{date: "2025-04-05", panel: "Tech Lead", marks: 90, feedback: "Strong technical background."},
	{date: "2025-04-10", panel: "Director", marks: 88, feedback: "Leadership potential."},
}

func main() {
	var (
		configPath = flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
		startDate  = flag.String("start", "2025-05-01", "start date used when the candidate is promoted")
		rounds     = flag.Int("rounds", len(defaultRounds), "number of interview rounds to run (0-3)")
	)
	flag.Parse()

	cfg, err := config.Load(effectiveConfigPath(*configPath))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	n := *rounds
	if n < 0 || n > len(defaultRounds) {
		log.Fatalf("rounds must be between 0 and %d", len(defaultRounds))
	}

	svc := employee.NewService(memory.NewEmployeeRepository(), nil, nil, employee.Options{
		PassingMarks:     &cfg.Lifecycle.PassingMarks,
		StrictScheduling: cfg.Lifecycle.StrictScheduling,
	})

	emp, err := run(context.Background(), svc, zl, defaultRounds[:n], *startDate)
	if err != nil {
		log.Fatalf("walkthrough failed: %v", err)
	}

	b, err := emp.JSON()
	if err != nil {
		log.Fatalf("failed to render employee: %v", err)
	}
	fmt.Fprintln(os.Stdout, string(b))
}

func run(ctx context.Context, svc *employee.Service, zl *zap.Logger, rounds []round, startDate string) (*employee.Employee, error) {
	emp, err := svc.AddApplicant(ctx, employee.AddApplicantInput{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john.doe@example.com",
		Phone:     "123-456-7890",
		Position:  "Customer Service Agent",
		Address:   employee.Address{Street: "123 Elm St", City: "Cityville", State: "CA", Zip: "98765"},
	})
	if err != nil {
		return nil, fmt.Errorf("add applicant: %w", err)
	}
	zl.Info("applicant added", zap.String("employee_id", emp.ID))

	for i, r := range rounds {
		if _, err := svc.ScheduleInterview(ctx, employee.ScheduleInterviewInput{
			EmployeeID: emp.ID,
			Date:       r.date,
			Panel:      []string{r.panel},
		}); err != nil {
			return nil, fmt.Errorf("schedule round %d: %w", i, err)
		}

		feedback := r.feedback
		if _, err := svc.EvaluateInterview(ctx, employee.EvaluateInterviewInput{
			EmployeeID:     emp.ID,
			InterviewIndex: i,
			Result:         employee.ResultPassed,
			Marks:          r.marks,
			Feedback:       &feedback,
		}); err != nil {
			return nil, fmt.Errorf("evaluate round %d: %w", i, err)
		}
		zl.Info("interview evaluated", zap.Int("round", i), zap.String("panel", r.panel), zap.Int("marks", r.marks))
	}

	res, err := svc.EvaluateCandidate(ctx, employee.EvaluateCandidateInput{EmployeeID: emp.ID, StartDate: startDate})
	if err != nil {
		return nil, fmt.Errorf("evaluate candidate: %w", err)
	}
	if res.Promoted {
		zl.Info("candidate promoted to agent", zap.String("first_name", res.Employee.FirstName))
	} else {
		zl.Warn("candidate has not passed all required interview rounds yet",
			zap.Int("passed", res.PassedCount),
			zap.Int("required", employee.RequiredPassedInterviews),
		)
	}

	final, err := svc.AskHRQuestion(ctx, employee.AskHRQuestionInput{
		EmployeeID: emp.ID,
		Question:   "What is the company's remote work policy?",
	})
	if err != nil {
		return nil, fmt.Errorf("ask hr question: %w", err)
	}
	return final, nil
}

func effectiveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return "assets/local.yaml"
}
