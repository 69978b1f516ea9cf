package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ogurasousui/codex-grpc-hiring-assistant/internal/adapters/grpc/toolsvc"
	"github.com/ogurasousui/codex-grpc-hiring-assistant/internal/core/employee"
)

// hrAcknowledgement は質問受付時にエージェントへ返す定型文です。
const hrAcknowledgement = "Thank you for your question. Our HR team will get back to you shortly."

type toolFunc func(ctx context.Context, args *structpb.Struct) (map[string]any, error)

// ToolGrpcHandler は ToolService の gRPC 実装です。
// エージェントが指定したツール名を社員ユースケースの呼び出しへ振り分けます。
type ToolGrpcHandler struct {
	svc   employee.UseCase
	tools map[string]toolFunc
}

var _ toolsvc.ToolServiceServer = (*ToolGrpcHandler)(nil)

// NewToolGrpcHandler は ToolGrpcHandler を生成します。
func NewToolGrpcHandler(svc employee.UseCase) *ToolGrpcHandler {
	h := &ToolGrpcHandler{svc: svc}
	h.tools = map[string]toolFunc{
		"add_applicant":          h.addApplicant,
		"get_employee":           h.getEmployee,
		"schedule_interview":     h.scheduleInterview,
		"evaluate_interview":     h.evaluateInterview,
		"evaluate_candidate":     h.evaluateCandidate,
		"onboard_employee":       h.onboardEmployee,
		"ask_hr_question":        h.askHRQuestion,
		"answer_hr_question":     h.answerHRQuestion,
		"update_employee_status": h.updateEmployeeStatus,
		"update_employee_info":   h.updateEmployeeInfo,
	}
	return h
}

// ToolNames は登録済みのツール名を昇順で返します。
func (h *ToolGrpcHandler) ToolNames() []string {
	names := make([]string, 0, len(h.tools))
	for name := range h.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke は {tool, args} 形式のリクエストを実行します。
func (h *ToolGrpcHandler) Invoke(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	name := strings.TrimSpace(req.GetFields()["tool"].GetStringValue())
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "tool is required")
	}

	fn, ok := h.tools[name]
	if !ok {
		return nil, status.Errorf(codes.Unimplemented, "unknown tool %q", name)
	}

	args := req.GetFields()["args"].GetStructValue()
	if args == nil {
		args = &structpb.Struct{}
	}

	out, err := fn(ctx, args)
	if err != nil {
		return nil, toStatusError(err)
	}
	out["tool"] = name

	resp, err := structpb.NewStruct(out)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	return resp, nil
}

// ListTools は利用可能なツール名を返します。
func (h *ToolGrpcHandler) ListTools(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	names := h.ToolNames()
	list := make([]any, len(names))
	for i, n := range names {
		list[i] = n
	}
	return structpb.NewStruct(map[string]any{"tools": list})
}

func (h *ToolGrpcHandler) addApplicant(ctx context.Context, args *structpb.Struct) (map[string]any, error) {
	firstName, lastName := stringArg(args, "first_name"), stringArg(args, "last_name")
	if firstName == "" && lastName == "" {
		// エージェントは氏名を 1 つの文字列で渡すことがあります。
		firstName, lastName = splitName(stringArg(args, "name"))
	}

	emp, err := h.svc.AddApplicant(ctx, employee.AddApplicantInput{
		FirstName: firstName,
		LastName:  lastName,
		Email:     stringArg(args, "email"),
		Phone:     stringArg(args, "phone"),
		Position:  firstNonEmpty(stringArg(args, "position"), stringArg(args, "role")),
		Resume:    stringArg(args, "resume"),
		Address: employee.Address{
			Street: stringArg(args, "street"),
			City:   stringArg(args, "city"),
			State:  stringArg(args, "state"),
			Zip:    stringArg(args, "zip"),
		},
	})
	if err != nil {
		return nil, err
	}
	return withEmployee(emp, map[string]any{
		"next_step": "Would you like to schedule an interview for this applicant?",
	})
}

func (h *ToolGrpcHandler) getEmployee(ctx context.Context, args *structpb.Struct) (map[string]any, error) {
	emp, err := h.svc.GetEmployee(ctx, employee.GetEmployeeInput{ID: stringArg(args, "employee_id")})
	if err != nil {
		return nil, err
	}
	return withEmployee(emp, nil)
}

func (h *ToolGrpcHandler) scheduleInterview(ctx context.Context, args *structpb.Struct) (map[string]any, error) {
	emp, err := h.svc.ScheduleInterview(ctx, employee.ScheduleInterviewInput{
		EmployeeID: stringArg(args, "employee_id"),
		Date:       stringArg(args, "date"),
		Panel:      stringListArg(args, "panel"),
	})
	if err != nil {
		return nil, err
	}
	scheduled := emp.Interviews[len(emp.Interviews)-1]
	return withEmployee(emp, map[string]any{
		"interview_id":    scheduled.ID,
		"interview_index": len(emp.Interviews) - 1,
	})
}

func (h *ToolGrpcHandler) evaluateInterview(ctx context.Context, args *structpb.Struct) (map[string]any, error) {
	marks, ok, err := intArg(args, "marks")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "marks is required")
	}

	index, hasIndex, err := intArg(args, "interview_index")
	if err != nil {
		return nil, err
	}
	interviewID := stringArg(args, "interview_id")
	if !hasIndex && interviewID == "" {
		return nil, status.Error(codes.InvalidArgument, "interview_index or interview_id is required")
	}

	emp, err := h.svc.EvaluateInterview(ctx, employee.EvaluateInterviewInput{
		EmployeeID:     stringArg(args, "employee_id"),
		InterviewIndex: index,
		InterviewID:    interviewID,
		Result:         normalizeResult(stringArg(args, "result")),
		Marks:          marks,
		Feedback:       optionalStringArg(args, "feedback"),
	})
	if err != nil {
		return nil, err
	}
	return withEmployee(emp, nil)
}

func (h *ToolGrpcHandler) evaluateCandidate(ctx context.Context, args *structpb.Struct) (map[string]any, error) {
	passing, ok, err := intArg(args, "passing_marks")
	if err != nil {
		return nil, err
	}
	var passingPtr *int
	if ok {
		passingPtr = &passing
	}

	res, err := h.svc.EvaluateCandidate(ctx, employee.EvaluateCandidateInput{
		EmployeeID:   stringArg(args, "employee_id"),
		StartDate:    stringArg(args, "start_date"),
		PassingMarks: passingPtr,
	})
	if err != nil {
		return nil, err
	}
	return withEmployee(res.Employee, map[string]any{
		"promoted":          res.Promoted,
		"passed_interviews": res.PassedCount,
		"passing_marks":     res.PassingMarks,
		"required_passes":   employee.RequiredPassedInterviews,
	})
}

func (h *ToolGrpcHandler) onboardEmployee(ctx context.Context, args *structpb.Struct) (map[string]any, error) {
	emp, err := h.svc.OnboardEmployee(ctx, employee.OnboardEmployeeInput{
		EmployeeID: stringArg(args, "employee_id"),
		StartDate:  stringArg(args, "start_date"),
	})
	if err != nil {
		return nil, err
	}
	return withEmployee(emp, nil)
}

func (h *ToolGrpcHandler) askHRQuestion(ctx context.Context, args *structpb.Struct) (map[string]any, error) {
	emp, err := h.svc.AskHRQuestion(ctx, employee.AskHRQuestionInput{
		EmployeeID: stringArg(args, "employee_id"),
		Question:   stringArg(args, "question"),
	})
	if err != nil {
		return nil, err
	}
	return withEmployee(emp, map[string]any{
		"question_index": len(emp.HRQuestions) - 1,
		"response":       hrAcknowledgement,
	})
}

func (h *ToolGrpcHandler) answerHRQuestion(ctx context.Context, args *structpb.Struct) (map[string]any, error) {
	index, ok, err := intArg(args, "question_index")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "question_index is required")
	}

	emp, err := h.svc.AnswerHRQuestion(ctx, employee.AnswerHRQuestionInput{
		EmployeeID:    stringArg(args, "employee_id"),
		QuestionIndex: index,
		Response:      stringArg(args, "response"),
	})
	if err != nil {
		return nil, err
	}
	return withEmployee(emp, nil)
}

func (h *ToolGrpcHandler) updateEmployeeStatus(ctx context.Context, args *structpb.Struct) (map[string]any, error) {
	emp, err := h.svc.UpdateEmployeeStatus(ctx, employee.UpdateEmployeeStatusInput{
		EmployeeID: stringArg(args, "employee_id"),
		Status:     employee.Status(stringArg(args, "status")),
	})
	if err != nil {
		return nil, err
	}
	return withEmployee(emp, map[string]any{"known_status": emp.Status.IsKnown()})
}

func (h *ToolGrpcHandler) updateEmployeeInfo(ctx context.Context, args *structpb.Struct) (map[string]any, error) {
	emp, err := h.svc.UpdateEmployeeInfo(ctx, employee.UpdateEmployeeInfoInput{
		EmployeeID: stringArg(args, "employee_id"),
		FirstName:  optionalStringArg(args, "first_name"),
		LastName:   optionalStringArg(args, "last_name"),
		Email:      optionalStringArg(args, "email"),
		Phone:      optionalStringArg(args, "phone"),
		Street:     optionalStringArg(args, "address"),
	})
	if err != nil {
		return nil, err
	}
	return withEmployee(emp, nil)
}

func withEmployee(emp *employee.Employee, extra map[string]any) (map[string]any, error) {
	b, err := emp.JSON()
	if err != nil {
		return nil, err
	}
	var record map[string]any
	if err := json.Unmarshal(b, &record); err != nil {
		return nil, fmt.Errorf("decode employee %s: %w", emp.ID, err)
	}

	out := map[string]any{"employee": record}
	for k, v := range extra {
		out[k] = v
	}
	return out, nil
}

func stringArg(args *structpb.Struct, key string) string {
	return strings.TrimSpace(args.GetFields()[key].GetStringValue())
}

func optionalStringArg(args *structpb.Struct, key string) *string {
	v, ok := args.GetFields()[key]
	if !ok {
		return nil
	}
	if _, isString := v.GetKind().(*structpb.Value_StringValue); !isString {
		return nil
	}
	s := v.GetStringValue()
	return &s
}

// intArg は数値または数値文字列の引数を読み取ります。2 番目の戻り値は引数の有無です。
// 小数や int に収まらない値は切り捨てずに拒否します。
func intArg(args *structpb.Struct, key string) (int, bool, error) {
	v, ok := args.GetFields()[key]
	if !ok {
		return 0, false, nil
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) || n < math.MinInt || n >= math.MaxInt {
			return 0, false, status.Errorf(codes.InvalidArgument, "%s must be an integer", key)
		}
		return int(n), true, nil
	case *structpb.Value_StringValue:
		n, err := strconv.Atoi(strings.TrimSpace(kind.StringValue))
		if err != nil {
			return 0, false, status.Errorf(codes.InvalidArgument, "%s must be an integer", key)
		}
		return n, true, nil
	case *structpb.Value_NullValue:
		return 0, false, nil
	default:
		return 0, false, status.Errorf(codes.InvalidArgument, "%s must be an integer", key)
	}
}

// stringListArg は文字列のリスト、またはカンマ区切りの文字列を読み取ります。
func stringListArg(args *structpb.Struct, key string) []string {
	v, ok := args.GetFields()[key]
	if !ok {
		return nil
	}
	if list := v.GetListValue(); list != nil {
		out := make([]string, 0, len(list.GetValues()))
		for _, item := range list.GetValues() {
			out = append(out, item.GetStringValue())
		}
		return out
	}
	return strings.Split(v.GetStringValue(), ",")
}

func normalizeResult(raw string) employee.InterviewResult {
	switch {
	case strings.EqualFold(raw, string(employee.ResultPassed)):
		return employee.ResultPassed
	case strings.EqualFold(raw, string(employee.ResultFailed)):
		return employee.ResultFailed
	default:
		return employee.InterviewResult(raw)
	}
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
