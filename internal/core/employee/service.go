package employee

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const applicationDateLayout = "2006-01-02"

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// IDGenerator は社員 ID と求人 ID を採番します。
type IDGenerator interface {
	NewEmployeeID() string
	NewJobID() string
}

type uuidGenerator struct{}

func (uuidGenerator) NewEmployeeID() string {
	return "E" + shortHex(6)
}

func (uuidGenerator) NewJobID() string {
	return "J" + shortHex(4)
}

func shortHex(n int) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(hex[:n])
}

// Options はライフサイクルのポリシー設定です。
type Options struct {
	// PassingMarks は EvaluateCandidate で入力が省略された場合の合格点です。
	// nil の場合は DefaultPassingMarks を使い、0 はそのまま合格点 0 として扱います。
	PassingMarks *int
	// StrictScheduling が true の場合、採用済み以降の社員への面接設定を拒否します。
	StrictScheduling bool
}

// Service は社員ライフサイクルのユースケースをまとめます。
type Service struct {
	repo         Repository
	clock        Clock
	ids          IDGenerator
	opts         Options
	passingMarks int
}

// UseCase は社員ライフサイクルの公開インターフェースです。
type UseCase interface {
	AddApplicant(ctx context.Context, in AddApplicantInput) (*Employee, error)
	GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error)
	ScheduleInterview(ctx context.Context, in ScheduleInterviewInput) (*Employee, error)
	EvaluateInterview(ctx context.Context, in EvaluateInterviewInput) (*Employee, error)
	EvaluateCandidate(ctx context.Context, in EvaluateCandidateInput) (*EvaluateCandidateResult, error)
	OnboardEmployee(ctx context.Context, in OnboardEmployeeInput) (*Employee, error)
	AskHRQuestion(ctx context.Context, in AskHRQuestionInput) (*Employee, error)
	AnswerHRQuestion(ctx context.Context, in AnswerHRQuestionInput) (*Employee, error)
	UpdateEmployeeStatus(ctx context.Context, in UpdateEmployeeStatusInput) (*Employee, error)
	UpdateEmployeeInfo(ctx context.Context, in UpdateEmployeeInfoInput) (*Employee, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, ids IDGenerator, opts Options) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if ids == nil {
		ids = uuidGenerator{}
	}
	passingMarks := DefaultPassingMarks
	if opts.PassingMarks != nil {
		passingMarks = *opts.PassingMarks
	}
	return &Service{repo: repo, clock: clock, ids: ids, opts: opts, passingMarks: passingMarks}
}

// AddApplicantInput は応募者登録時の入力です。
type AddApplicantInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Position  string
	Resume    string
	Address   Address
}

// GetEmployeeInput は社員取得時の入力です。
type GetEmployeeInput struct {
	ID string
}

// ScheduleInterviewInput は面接設定時の入力です。
type ScheduleInterviewInput struct {
	EmployeeID string
	Date       string
	Panel      []string
}

// EvaluateInterviewInput は面接評価時の入力です。InterviewID が指定された場合はそちらを優先します。
type EvaluateInterviewInput struct {
	EmployeeID     string
	InterviewIndex int
	InterviewID    string
	Result         InterviewResult
	Marks          int
	Feedback       *string
}

// EvaluateCandidateInput は候補者評価時の入力です。
type EvaluateCandidateInput struct {
	EmployeeID   string
	StartDate    string
	PassingMarks *int
}

// EvaluateCandidateResult は候補者評価の結果です。
type EvaluateCandidateResult struct {
	Employee     *Employee
	Promoted     bool
	PassedCount  int
	PassingMarks int
}

// OnboardEmployeeInput はオンボーディング時の入力です。
type OnboardEmployeeInput struct {
	EmployeeID string
	StartDate  string
}

// AskHRQuestionInput は人事への質問の入力です。
type AskHRQuestionInput struct {
	EmployeeID string
	Question   string
}

// AnswerHRQuestionInput は質問への回答の入力です。
type AnswerHRQuestionInput struct {
	EmployeeID    string
	QuestionIndex int
	Response      string
}

// UpdateEmployeeStatusInput はステータス上書きの入力です。
type UpdateEmployeeStatusInput struct {
	EmployeeID string
	Status     Status
}

// UpdateEmployeeInfoInput はプロフィール更新の入力です。nil のフィールドは変更しません。
type UpdateEmployeeInfoInput struct {
	EmployeeID string
	FirstName  *string
	LastName   *string
	Email      *string
	Phone      *string
	Street     *string
}

// AddApplicant は新しい応募者を登録します。
func (s *Service) AddApplicant(ctx context.Context, in AddApplicantInput) (*Employee, error) {
	firstName := strings.TrimSpace(in.FirstName)
	if firstName == "" {
		return nil, ErrInvalidFirstName
	}
	lastName := strings.TrimSpace(in.LastName)
	if lastName == "" {
		return nil, ErrInvalidLastName
	}
	email := strings.TrimSpace(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}

	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		phone = "000-000-0000"
	}

	application := JobApplication{
		JobID:           s.ids.NewJobID(),
		Position:        strings.TrimSpace(in.Position),
		ApplicationDate: s.clock.Now().Format(applicationDateLayout),
		Status:          ApplicationSubmitted,
		Resume:          strings.TrimSpace(in.Resume),
	}

	emp := NewApplicant(s.ids.NewEmployeeID(), firstName, lastName, email, phone, in.Address, application)
	return s.repo.Create(ctx, emp)
}

// GetEmployee は社員を取得します。
func (s *Service) GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error) {
	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// ScheduleInterview は面接を設定します。
func (s *Service) ScheduleInterview(ctx context.Context, in ScheduleInterviewInput) (*Employee, error) {
	date := strings.TrimSpace(in.Date)
	if date == "" {
		return nil, ErrInvalidInterviewDate
	}
	panel := normalizePanel(in.Panel)
	if len(panel) == 0 {
		return nil, ErrInvalidPanel
	}

	return s.mutate(ctx, in.EmployeeID, func(emp *Employee) error {
		if s.opts.StrictScheduling && !canSchedule(emp.Status) {
			return fmt.Errorf("schedule interview from %q: %w", emp.Status, ErrInvalidStateTransition)
		}
		emp.ScheduleInterview(date, panel)
		return nil
	})
}

// EvaluateInterview は面接結果を記録します。
func (s *Service) EvaluateInterview(ctx context.Context, in EvaluateInterviewInput) (*Employee, error) {
	return s.mutate(ctx, in.EmployeeID, func(emp *Employee) error {
		if id := strings.TrimSpace(in.InterviewID); id != "" {
			return emp.EvaluateInterviewByID(id, in.Result, in.Marks, in.Feedback)
		}
		return emp.EvaluateInterview(in.InterviewIndex, in.Result, in.Marks, in.Feedback)
	})
}

// EvaluateCandidate は合格面接数から昇格可否を判定します。
func (s *Service) EvaluateCandidate(ctx context.Context, in EvaluateCandidateInput) (*EvaluateCandidateResult, error) {
	passingMarks := s.passingMarks
	if in.PassingMarks != nil {
		passingMarks = *in.PassingMarks
	}

	result := &EvaluateCandidateResult{PassingMarks: passingMarks}
	updated, err := s.mutate(ctx, in.EmployeeID, func(emp *Employee) error {
		result.PassedCount = emp.PassedInterviewCount(passingMarks)
		result.Promoted = emp.EvaluateCandidate(strings.TrimSpace(in.StartDate), passingMarks)
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Employee = updated
	return result, nil
}

// OnboardEmployee は採用済みの社員をオンボーディングします。
func (s *Service) OnboardEmployee(ctx context.Context, in OnboardEmployeeInput) (*Employee, error) {
	return s.mutate(ctx, in.EmployeeID, func(emp *Employee) error {
		return emp.Onboard(strings.TrimSpace(in.StartDate))
	})
}

// AskHRQuestion は人事への質問を記録します。
func (s *Service) AskHRQuestion(ctx context.Context, in AskHRQuestionInput) (*Employee, error) {
	question := strings.TrimSpace(in.Question)
	if question == "" {
		return nil, ErrInvalidQuestion
	}
	return s.mutate(ctx, in.EmployeeID, func(emp *Employee) error {
		emp.AskHRQuestion(question)
		return nil
	})
}

// AnswerHRQuestion は質問に回答します。
func (s *Service) AnswerHRQuestion(ctx context.Context, in AnswerHRQuestionInput) (*Employee, error) {
	return s.mutate(ctx, in.EmployeeID, func(emp *Employee) error {
		return emp.AnswerHRQuestion(in.QuestionIndex, in.Response)
	})
}

// UpdateEmployeeStatus はステータスを検証なしで上書きします。
func (s *Service) UpdateEmployeeStatus(ctx context.Context, in UpdateEmployeeStatusInput) (*Employee, error) {
	return s.mutate(ctx, in.EmployeeID, func(emp *Employee) error {
		emp.UpdateStatus(in.Status)
		return nil
	})
}

// UpdateEmployeeInfo はプロフィールを更新します。空文字のフィールドは無視します。
func (s *Service) UpdateEmployeeInfo(ctx context.Context, in UpdateEmployeeInfoInput) (*Employee, error) {
	return s.mutate(ctx, in.EmployeeID, func(emp *Employee) error {
		if v, ok := nonEmpty(in.FirstName); ok {
			emp.FirstName = v
		}
		if v, ok := nonEmpty(in.LastName); ok {
			emp.LastName = v
		}
		if v, ok := nonEmpty(in.Email); ok {
			if !strings.Contains(v, "@") {
				return ErrInvalidEmail
			}
			emp.Email = v
		}
		if v, ok := nonEmpty(in.Phone); ok {
			emp.PhoneNumber = v
		}
		if v, ok := nonEmpty(in.Street); ok {
			emp.Address.Street = v
		}
		return nil
	})
}

// mutate は社員を読み込み fn を適用して保存します。fn が失敗した場合は保存しません。
func (s *Service) mutate(ctx context.Context, rawID string, fn func(*Employee) error) (*Employee, error) {
	id, err := normalizeID(rawID)
	if err != nil {
		return nil, err
	}

	emp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(emp); err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, emp)
}

func normalizeID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("id: %w", ErrInvalidID)
	}
	return trimmed, nil
}

func normalizePanel(raw []string) []string {
	panel := make([]string, 0, len(raw))
	for _, member := range raw {
		if trimmed := strings.TrimSpace(member); trimmed != "" {
			panel = append(panel, trimmed)
		}
	}
	return panel
}

func nonEmpty(v *string) (string, bool) {
	if v == nil {
		return "", false
	}
	trimmed := strings.TrimSpace(*v)
	return trimmed, trimmed != ""
}

func canSchedule(status Status) bool {
	switch status {
	case StatusApplicant, StatusInterviewScheduled, StatusInterviewed:
		return true
	default:
		return false
	}
}
