package employee

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

const (
	// DefaultPassingMarks は合格とみなす面接点数の既定値です。
	DefaultPassingMarks = 60
	// RequiredPassedInterviews は Agent へ昇格するために必要な合格面接数です。
	RequiredPassedInterviews = 3
)

// NewApplicant は Applicant 状態の社員を生成します。
func NewApplicant(id, firstName, lastName, email, phone string, address Address, applications ...JobApplication) *Employee {
	return &Employee{
		ID:              id,
		FirstName:       firstName,
		LastName:        lastName,
		Email:           email,
		PhoneNumber:     phone,
		Address:         address,
		JobApplications: append([]JobApplication{}, applications...),
		Interviews:      []Interview{},
		HRQuestions:     []HRQuestion{},
		Status:          StatusApplicant,
	}
}

// ScheduleInterview は面接を追加し、ステータスを Interview Scheduled にします。
// 現在のステータスは確認しません。
func (e *Employee) ScheduleInterview(date string, panel []string) *Interview {
	e.Interviews = append(e.Interviews, Interview{
		ID:    uuid.NewString(),
		Date:  date,
		Panel: append([]string{}, panel...),
	})
	e.Status = StatusInterviewScheduled
	return &e.Interviews[len(e.Interviews)-1]
}

// EvaluateInterview は index 番目の面接に結果を記録します。ステータスは変更しません。
func (e *Employee) EvaluateInterview(index int, result InterviewResult, marks int, feedback *string) error {
	if index < 0 || index >= len(e.Interviews) {
		return fmt.Errorf("interview %d of %d: %w", index, len(e.Interviews), ErrInvalidIndex)
	}
	recordEvaluation(&e.Interviews[index], result, marks, feedback)
	return nil
}

// EvaluateInterviewByID は面接 ID を指定して結果を記録します。
func (e *Employee) EvaluateInterviewByID(id string, result InterviewResult, marks int, feedback *string) error {
	for i := range e.Interviews {
		if e.Interviews[i].ID == id {
			recordEvaluation(&e.Interviews[i], result, marks, feedback)
			return nil
		}
	}
	return fmt.Errorf("interview %s: %w", id, ErrInterviewNotFound)
}

// 空の結果は未設定として nil のまま記録します。
func recordEvaluation(iv *Interview, result InterviewResult, marks int, feedback *string) {
	iv.Result = nil
	if result != "" {
		r := result
		iv.Result = &r
	}
	m := marks
	iv.Marks = &m
	iv.Feedback = cloneString(feedback)
}

// Passed は面接が passingMarks 以上で合格しているかを返します。点数未設定は 0 点扱いです。
func (iv Interview) Passed(passingMarks int) bool {
	if iv.Result == nil || *iv.Result != ResultPassed {
		return false
	}
	marks := 0
	if iv.Marks != nil {
		marks = *iv.Marks
	}
	return marks >= passingMarks
}

// PassedInterviewCount は全面接のうち合格した数を返します。
func (e *Employee) PassedInterviewCount(passingMarks int) int {
	count := 0
	for _, iv := range e.Interviews {
		if iv.Passed(passingMarks) {
			count++
		}
	}
	return count
}

// EvaluateCandidate は合格面接数を評価し、昇格した場合に true を返します。
// RequiredPassedInterviews 件以上であればオンボーディングを作成して Agent にし、
// それ以外は Interviewed にします。
func (e *Employee) EvaluateCandidate(startDate string, passingMarks int) bool {
	if e.PassedInterviewCount(passingMarks) >= RequiredPassedInterviews {
		e.Onboarding = completedOnboarding(startDate)
		e.Status = StatusAgent
		return true
	}
	e.Status = StatusInterviewed
	return false
}

// Onboard は Hired の社員をオンボーディングし Onboarded にします。
func (e *Employee) Onboard(startDate string) error {
	if e.Status != StatusHired {
		return fmt.Errorf("onboard from %q: %w", e.Status, ErrInvalidStateTransition)
	}
	e.Onboarding = completedOnboarding(startDate)
	e.Status = StatusOnboarded
	return nil
}

func completedOnboarding(startDate string) *Onboarding {
	return &Onboarding{
		StartDate:            startDate,
		OrientationScheduled: true,
		BenefitsPackage:      true,
		SystemAccessGranted:  true,
	}
}

// AskHRQuestion は未回答の質問を追加します。
func (e *Employee) AskHRQuestion(question string) {
	e.HRQuestions = append(e.HRQuestions, HRQuestion{Question: question})
}

// AnswerHRQuestion は index 番目の質問に回答を記録します。
func (e *Employee) AnswerHRQuestion(index int, response string) error {
	if index < 0 || index >= len(e.HRQuestions) {
		return fmt.Errorf("hr question %d of %d: %w", index, len(e.HRQuestions), ErrInvalidIndex)
	}
	e.HRQuestions[index].Answered = true
	e.HRQuestions[index].Response = &response
	return nil
}

// UpdateStatus はステータスを無条件に上書きします。
// 遷移ルールも既知の値かどうかも確認しない逃げ道です。
func (e *Employee) UpdateStatus(status Status) {
	e.Status = status
}

// JSON は集約をインデント付き JSON に変換します。
func (e *Employee) JSON() ([]byte, error) {
	out := e.Clone()
	if out.JobApplications == nil {
		out.JobApplications = []JobApplication{}
	}
	if out.Interviews == nil {
		out.Interviews = []Interview{}
	}
	if out.HRQuestions == nil {
		out.HRQuestions = []HRQuestion{}
	}
	b, err := json.MarshalIndent(out, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("employee: marshal %s: %w", e.ID, err)
	}
	return b, nil
}
