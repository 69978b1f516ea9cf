package employee

// Status は社員のライフサイクル上の段階を表します。
type Status string

const (
	StatusApplicant          Status = "Applicant"
	StatusInterviewScheduled Status = "Interview Scheduled"
	StatusInterviewed        Status = "Interviewed"
	StatusHired              Status = "Hired"
	StatusAgent              Status = "Agent"
	StatusOnboarded          Status = "Onboarded"
	StatusTerminated         Status = "Terminated"
)

// IsKnown は既知のステータスかどうかを返します。
// UpdateStatus はこの判定を行わずに任意の値を受け付けます。
func (s Status) IsKnown() bool {
	switch s {
	case StatusApplicant, StatusInterviewScheduled, StatusInterviewed,
		StatusHired, StatusAgent, StatusOnboarded, StatusTerminated:
		return true
	default:
		return false
	}
}

// ApplicationStatus は応募の状態です。値の集合は閉じていません。
type ApplicationStatus string

const (
	ApplicationSubmitted   ApplicationStatus = "Submitted"
	ApplicationPending     ApplicationStatus = "Pending"
	ApplicationInterviewed ApplicationStatus = "Interviewed"
	ApplicationHired       ApplicationStatus = "Hired"
	ApplicationRejected    ApplicationStatus = "Rejected"
)

// InterviewResult は面接結果です。
type InterviewResult string

const (
	ResultPassed InterviewResult = "Passed"
	ResultFailed InterviewResult = "Failed"
)

// Address は社員の住所です。値の検証は行いません。
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// JobApplication は応募情報です。
type JobApplication struct {
	JobID           string            `json:"job_id"`
	Position        string            `json:"position"`
	ApplicationDate string            `json:"application_date"`
	Status          ApplicationStatus `json:"status"`
	Resume          string            `json:"resume"`
}

// Interview は 1 回分の面接です。
// ID は作成時に割り当てられる安定した識別子で、インデックス指定と併用できます。
type Interview struct {
	ID       string           `json:"interview_id"`
	Date     string           `json:"interview_date"`
	Panel    []string         `json:"interview_panel"`
	Feedback *string          `json:"feedback"`
	Result   *InterviewResult `json:"result"`
	Marks    *int             `json:"marks"`
}

// Onboarding はオンボーディング完了を示す記録です。
type Onboarding struct {
	StartDate            string `json:"start_date"`
	OrientationScheduled bool   `json:"orientation_scheduled"`
	BenefitsPackage      bool   `json:"benefits_package"`
	SystemAccessGranted  bool   `json:"system_access_granted"`
}

// HRQuestion は社員から人事への質問です。
type HRQuestion struct {
	Question string  `json:"question"`
	Answered bool    `json:"answered"`
	Response *string `json:"response"`
}

// Employee は応募からオンボーディングまでを追跡する集約ルートです。
type Employee struct {
	ID              string           `json:"employee_id"`
	FirstName       string           `json:"first_name"`
	LastName        string           `json:"last_name"`
	Email           string           `json:"email"`
	PhoneNumber     string           `json:"phone_number"`
	Address         Address          `json:"address"`
	JobApplications []JobApplication `json:"job_applications"`
	Interviews      []Interview      `json:"interviews"`
	Onboarding      *Onboarding      `json:"onboarding"`
	HRQuestions     []HRQuestion     `json:"hr_questions"`
	Status          Status           `json:"status"`
}

// Clone は集約全体のディープコピーを返します。
func (e *Employee) Clone() *Employee {
	if e == nil {
		return nil
	}
	out := *e

	if e.JobApplications != nil {
		out.JobApplications = append([]JobApplication{}, e.JobApplications...)
	}

	if e.Interviews != nil {
		out.Interviews = make([]Interview, len(e.Interviews))
		for i, iv := range e.Interviews {
			out.Interviews[i] = iv.clone()
		}
	}

	if e.Onboarding != nil {
		ob := *e.Onboarding
		out.Onboarding = &ob
	}

	if e.HRQuestions != nil {
		out.HRQuestions = make([]HRQuestion, len(e.HRQuestions))
		for i, q := range e.HRQuestions {
			q.Response = cloneString(q.Response)
			out.HRQuestions[i] = q
		}
	}

	return &out
}

func (iv Interview) clone() Interview {
	out := iv
	if iv.Panel != nil {
		out.Panel = append([]string{}, iv.Panel...)
	}
	out.Feedback = cloneString(iv.Feedback)
	if iv.Result != nil {
		r := *iv.Result
		out.Result = &r
	}
	if iv.Marks != nil {
		m := *iv.Marks
		out.Marks = &m
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
