package handler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ogurasousui/codex-grpc-hiring-assistant/internal/adapters/grpc/toolsvc"
	"github.com/ogurasousui/codex-grpc-hiring-assistant/internal/core/employee"
)

type stubEmployeeUseCase struct {
	addInput       employee.AddApplicantInput
	getInput       employee.GetEmployeeInput
	scheduleInput  employee.ScheduleInterviewInput
	evaluateInput  employee.EvaluateInterviewInput
	candidateInput employee.EvaluateCandidateInput
	onboardInput   employee.OnboardEmployeeInput
	askInput       employee.AskHRQuestionInput
	answerInput    employee.AnswerHRQuestionInput
	statusInput    employee.UpdateEmployeeStatusInput
	infoInput      employee.UpdateEmployeeInfoInput

	out          *employee.Employee
	candidateOut *employee.EvaluateCandidateResult
	err          error
}

func (s *stubEmployeeUseCase) AddApplicant(_ context.Context, in employee.AddApplicantInput) (*employee.Employee, error) {
	s.addInput = in
	return s.out, s.err
}

func (s *stubEmployeeUseCase) GetEmployee(_ context.Context, in employee.GetEmployeeInput) (*employee.Employee, error) {
	s.getInput = in
	return s.out, s.err
}

func (s *stubEmployeeUseCase) ScheduleInterview(_ context.Context, in employee.ScheduleInterviewInput) (*employee.Employee, error) {
	s.scheduleInput = in
	return s.out, s.err
}

func (s *stubEmployeeUseCase) EvaluateInterview(_ context.Context, in employee.EvaluateInterviewInput) (*employee.Employee, error) {
	s.evaluateInput = in
	return s.out, s.err
}

func (s *stubEmployeeUseCase) EvaluateCandidate(_ context.Context, in employee.EvaluateCandidateInput) (*employee.EvaluateCandidateResult, error) {
	s.candidateInput = in
	return s.candidateOut, s.err
}

func (s *stubEmployeeUseCase) OnboardEmployee(_ context.Context, in employee.OnboardEmployeeInput) (*employee.Employee, error) {
	s.onboardInput = in
	return s.out, s.err
}

func (s *stubEmployeeUseCase) AskHRQuestion(_ context.Context, in employee.AskHRQuestionInput) (*employee.Employee, error) {
	s.askInput = in
	return s.out, s.err
}

func (s *stubEmployeeUseCase) AnswerHRQuestion(_ context.Context, in employee.AnswerHRQuestionInput) (*employee.Employee, error) {
	s.answerInput = in
	return s.out, s.err
}

func (s *stubEmployeeUseCase) UpdateEmployeeStatus(_ context.Context, in employee.UpdateEmployeeStatusInput) (*employee.Employee, error) {
	s.statusInput = in
	return s.out, s.err
}

func (s *stubEmployeeUseCase) UpdateEmployeeInfo(_ context.Context, in employee.UpdateEmployeeInfoInput) (*employee.Employee, error) {
	s.infoInput = in
	return s.out, s.err
}

func sampleEmployee() *employee.Employee {
	emp := employee.NewApplicant("E001", "John", "Doe", "john.doe@example.com", "123-456-7890", employee.Address{City: "Cityville"})
	emp.ScheduleInterview("2025-04-01", []string{"HR"})
	return emp
}

func invoke(t *testing.T, h *ToolGrpcHandler, tool string, args map[string]any) (*structpb.Struct, error) {
	t.Helper()
	req, err := toolsvc.NewInvokeRequest(tool, args)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	return h.Invoke(context.Background(), req)
}

func TestToolGrpcHandler_ScheduleInterview_Success(t *testing.T) {
	t.Parallel()

	stub := &stubEmployeeUseCase{out: sampleEmployee()}
	h := NewToolGrpcHandler(stub)

	resp, err := invoke(t, h, "schedule_interview", map[string]any{
		"employee_id": "E001",
		"date":        "2025-04-01",
		"panel":       "HR, Tech Lead",
	})
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}

	if stub.scheduleInput.EmployeeID != "E001" || stub.scheduleInput.Date != "2025-04-01" {
		t.Errorf("unexpected input: %+v", stub.scheduleInput)
	}
	if len(stub.scheduleInput.Panel) != 2 {
		t.Errorf("expected comma separated panel to split, got %v", stub.scheduleInput.Panel)
	}

	fields := resp.GetFields()
	if fields["tool"].GetStringValue() != "schedule_interview" {
		t.Errorf("expected tool name echoed, got %v", fields["tool"])
	}
	if fields["interview_index"].GetNumberValue() != 0 {
		t.Errorf("expected interview index 0, got %v", fields["interview_index"])
	}
	if fields["interview_id"].GetStringValue() == "" {
		t.Errorf("expected interview id in response")
	}
	emp := fields["employee"].GetStructValue().GetFields()
	if emp["status"].GetStringValue() != string(employee.StatusInterviewScheduled) {
		t.Errorf("unexpected status: %v", emp["status"])
	}
}

func TestToolGrpcHandler_ScheduleInterview_PanelList(t *testing.T) {
	t.Parallel()

	stub := &stubEmployeeUseCase{out: sampleEmployee()}
	h := NewToolGrpcHandler(stub)

	if _, err := invoke(t, h, "schedule_interview", map[string]any{
		"employee_id": "E001",
		"date":        "2025-04-01",
		"panel":       []any{"HR", "Director"},
	}); err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	if got := stub.scheduleInput.Panel; len(got) != 2 || got[1] != "Director" {
		t.Errorf("unexpected panel: %v", got)
	}
}

func TestToolGrpcHandler_EvaluateInterview_ParsesArgs(t *testing.T) {
	t.Parallel()

	stub := &stubEmployeeUseCase{out: sampleEmployee()}
	h := NewToolGrpcHandler(stub)

	if _, err := invoke(t, h, "evaluate_interview", map[string]any{
		"employee_id":     "E001",
		"interview_index": 2,
		"result":          "passed",
		"marks":           "85",
		"feedback":        "Good communication.",
	}); err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}

	in := stub.evaluateInput
	if in.InterviewIndex != 2 || in.Marks != 85 || in.Result != employee.ResultPassed {
		t.Errorf("unexpected input: %+v", in)
	}
	if in.Feedback == nil || *in.Feedback != "Good communication." {
		t.Errorf("unexpected feedback: %+v", in.Feedback)
	}
}

func TestToolGrpcHandler_EvaluateInterview_MissingMarks(t *testing.T) {
	t.Parallel()

	h := NewToolGrpcHandler(&stubEmployeeUseCase{out: sampleEmployee()})

	_, err := invoke(t, h, "evaluate_interview", map[string]any{"employee_id": "E001", "result": "Passed"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}

	_, err = invoke(t, h, "evaluate_interview", map[string]any{"employee_id": "E001", "marks": "many"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for non-numeric marks, got %v", err)
	}
}

func TestToolGrpcHandler_EvaluateInterview_RequiresTarget(t *testing.T) {
	t.Parallel()

	stub := &stubEmployeeUseCase{out: sampleEmployee()}
	h := NewToolGrpcHandler(stub)

	_, err := invoke(t, h, "evaluate_interview", map[string]any{"employee_id": "E001", "result": "Failed", "marks": 10})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument without interview_index or interview_id, got %v", err)
	}
	if stub.evaluateInput.EmployeeID != "" {
		t.Fatalf("expected use case not to be called, got %+v", stub.evaluateInput)
	}

	if _, err := invoke(t, h, "evaluate_interview", map[string]any{
		"employee_id":  "E001",
		"interview_id": "iv-1",
		"result":       "Failed",
		"marks":        10,
	}); err != nil {
		t.Fatalf("Invoke with interview_id returned error: %v", err)
	}
	if stub.evaluateInput.InterviewID != "iv-1" {
		t.Errorf("expected interview_id passed through, got %+v", stub.evaluateInput)
	}

	if _, err := invoke(t, h, "evaluate_interview", map[string]any{
		"employee_id":     "E001",
		"interview_index": 0,
		"result":          "Failed",
		"marks":           10,
	}); err != nil {
		t.Fatalf("Invoke with explicit index 0 returned error: %v", err)
	}
}

func TestToolGrpcHandler_EvaluateInterview_RejectsNonIntegerNumbers(t *testing.T) {
	t.Parallel()

	cases := map[string]map[string]any{
		"fractional index": {"employee_id": "E001", "interview_index": 1.9, "result": "Passed", "marks": 10},
		"fractional marks": {"employee_id": "E001", "interview_index": 0, "result": "Passed", "marks": 59.9},
		"nan marks":        {"employee_id": "E001", "interview_index": 0, "result": "Passed", "marks": math.NaN()},
		"infinite index":   {"employee_id": "E001", "interview_index": math.Inf(1), "result": "Passed", "marks": 10},
		"huge index":       {"employee_id": "E001", "interview_index": 1e20, "result": "Passed", "marks": 10},
	}

	for name, args := range cases {
		stub := &stubEmployeeUseCase{out: sampleEmployee()}
		h := NewToolGrpcHandler(stub)
		if _, err := invoke(t, h, "evaluate_interview", args); status.Code(err) != codes.InvalidArgument {
			t.Errorf("%s: expected InvalidArgument, got %v", name, err)
		}
		if stub.evaluateInput.EmployeeID != "" {
			t.Errorf("%s: expected use case not to be called, got %+v", name, stub.evaluateInput)
		}
	}
}

func TestToolGrpcHandler_EvaluateCandidate(t *testing.T) {
	t.Parallel()

	emp := sampleEmployee()
	emp.UpdateStatus(employee.StatusAgent)
	stub := &stubEmployeeUseCase{candidateOut: &employee.EvaluateCandidateResult{
		Employee:     emp,
		Promoted:     true,
		PassedCount:  3,
		PassingMarks: 70,
	}}
	h := NewToolGrpcHandler(stub)

	resp, err := invoke(t, h, "evaluate_candidate", map[string]any{
		"employee_id":   "E001",
		"start_date":    "2025-05-01",
		"passing_marks": 70,
	})
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}

	if stub.candidateInput.PassingMarks == nil || *stub.candidateInput.PassingMarks != 70 {
		t.Errorf("expected passing marks override, got %+v", stub.candidateInput.PassingMarks)
	}
	fields := resp.GetFields()
	if !fields["promoted"].GetBoolValue() || fields["passed_interviews"].GetNumberValue() != 3 {
		t.Errorf("unexpected response: %v", fields)
	}

	if _, err := invoke(t, h, "evaluate_candidate", map[string]any{"employee_id": "E001", "start_date": "2025-05-01"}); err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	if stub.candidateInput.PassingMarks != nil {
		t.Errorf("expected nil passing marks when omitted, got %v", *stub.candidateInput.PassingMarks)
	}
}

func TestToolGrpcHandler_AddApplicant_SplitsName(t *testing.T) {
	t.Parallel()

	stub := &stubEmployeeUseCase{out: sampleEmployee()}
	h := NewToolGrpcHandler(stub)

	resp, err := invoke(t, h, "add_applicant", map[string]any{
		"name":  "Mary Ann Smith",
		"email": "mary@example.com",
		"role":  "Support Agent",
	})
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	if stub.addInput.FirstName != "Mary" || stub.addInput.LastName != "Ann Smith" {
		t.Errorf("unexpected name split: %q %q", stub.addInput.FirstName, stub.addInput.LastName)
	}
	if stub.addInput.Position != "Support Agent" {
		t.Errorf("expected role to map to position, got %q", stub.addInput.Position)
	}
	if resp.GetFields()["next_step"].GetStringValue() == "" {
		t.Errorf("expected next_step prompt")
	}
}

func TestToolGrpcHandler_AskHRQuestion(t *testing.T) {
	t.Parallel()

	emp := sampleEmployee()
	emp.AskHRQuestion("What is the remote work policy?")
	stub := &stubEmployeeUseCase{out: emp}
	h := NewToolGrpcHandler(stub)

	resp, err := invoke(t, h, "ask_hr_question", map[string]any{"employee_id": "E001", "question": "What is the remote work policy?"})
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	if resp.GetFields()["response"].GetStringValue() != hrAcknowledgement {
		t.Errorf("expected acknowledgement, got %v", resp.GetFields()["response"])
	}
	questions := resp.GetFields()["employee"].GetStructValue().GetFields()["hr_questions"].GetListValue().GetValues()
	if len(questions) != 1 || questions[0].GetStructValue().GetFields()["answered"].GetBoolValue() {
		t.Errorf("unexpected questions: %v", questions)
	}
}

func TestToolGrpcHandler_UpdateEmployeeStatus_PassesThrough(t *testing.T) {
	t.Parallel()

	emp := sampleEmployee()
	emp.UpdateStatus("On Leave")
	stub := &stubEmployeeUseCase{out: emp}
	h := NewToolGrpcHandler(stub)

	resp, err := invoke(t, h, "update_employee_status", map[string]any{"employee_id": "E001", "status": "On Leave"})
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	if stub.statusInput.Status != "On Leave" {
		t.Errorf("expected status passed through, got %q", stub.statusInput.Status)
	}
	if resp.GetFields()["known_status"].GetBoolValue() {
		t.Errorf("expected known_status false")
	}
}

func TestToolGrpcHandler_UpdateEmployeeInfo(t *testing.T) {
	t.Parallel()

	stub := &stubEmployeeUseCase{out: sampleEmployee()}
	h := NewToolGrpcHandler(stub)

	if _, err := invoke(t, h, "update_employee_info", map[string]any{"employee_id": "E001", "address": "9 Oak Ave"}); err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	if stub.infoInput.Street == nil || *stub.infoInput.Street != "9 Oak Ave" {
		t.Errorf("expected street update, got %+v", stub.infoInput.Street)
	}
	if stub.infoInput.Email != nil {
		t.Errorf("expected email untouched, got %v", *stub.infoInput.Email)
	}
}

func TestToolGrpcHandler_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want codes.Code
	}{
		{err: fmt.Errorf("onboard: %w", employee.ErrInvalidStateTransition), want: codes.FailedPrecondition},
		{err: employee.ErrInvalidIndex, want: codes.InvalidArgument},
		{err: employee.ErrInvalidPanel, want: codes.InvalidArgument},
		{err: employee.ErrEmployeeNotFound, want: codes.NotFound},
		{err: employee.ErrInterviewNotFound, want: codes.NotFound},
		{err: context.DeadlineExceeded, want: codes.DeadlineExceeded},
		{err: errors.New("boom"), want: codes.Internal},
	}

	for _, tc := range tests {
		h := NewToolGrpcHandler(&stubEmployeeUseCase{err: tc.err})
		_, err := invoke(t, h, "onboard_employee", map[string]any{"employee_id": "E001", "start_date": "2025-06-01"})
		if status.Code(err) != tc.want {
			t.Errorf("%v: expected %s, got %v", tc.err, tc.want, err)
		}
	}
}

func TestToolGrpcHandler_UnknownAndMissingTool(t *testing.T) {
	t.Parallel()

	h := NewToolGrpcHandler(&stubEmployeeUseCase{})

	if _, err := invoke(t, h, "promote_to_ceo", nil); status.Code(err) != codes.Unimplemented {
		t.Fatalf("expected Unimplemented, got %v", err)
	}
	if _, err := invoke(t, h, "", nil); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
	if _, err := h.Invoke(context.Background(), nil); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for nil request, got %v", err)
	}
}

func TestToolGrpcHandler_ListTools(t *testing.T) {
	t.Parallel()

	h := NewToolGrpcHandler(&stubEmployeeUseCase{})
	resp, err := h.ListTools(context.Background(), &emptypb.Empty{})
	if err != nil {
		t.Fatalf("ListTools returned error: %v", err)
	}

	values := resp.GetFields()["tools"].GetListValue().GetValues()
	if len(values) != 10 {
		t.Fatalf("expected 10 tools, got %d", len(values))
	}
	if values[0].GetStringValue() != "add_applicant" {
		t.Errorf("expected sorted tool names, got %s first", values[0].GetStringValue())
	}
}
