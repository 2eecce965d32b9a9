package payload

import "coursehub_backend/internal/model"

// Payload 章节 blockPayload 的类型化表示，每种章节类型对应一个实现
type Payload interface {
	Type() model.SectionType
}

const DefaultPassThreshold = 70

// CaseStudy case_study
type CaseStudy struct {
	Background        string         `json:"background" validate:"required"`
	Analysis          string         `json:"analysis"`
	Decision          string         `json:"decision"`
	Outcome           string         `json:"outcome"`
	KeyDataPoints     []string       `json:"key_data_points" validate:"omitempty,dive,required"`
	Timeline          []TimelineStep `json:"timeline" validate:"omitempty,dive"`
	LearningPoints    []string       `json:"learning_points" validate:"omitempty,dive,required"`
	RegulatoryContext string         `json:"regulatory_context"`
	DecisionNodes     []DecisionNode `json:"decision_nodes" validate:"omitempty,dive"`
}

type TimelineStep struct {
	Period      string `json:"period" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type DecisionNode struct {
	ID      string           `json:"id" validate:"required"`
	Prompt  string           `json:"prompt" validate:"required"`
	Options []DecisionOption `json:"options" validate:"required,min=2,dive"`
}

type DecisionOption struct {
	Text        string `json:"text" validate:"required"`
	IsCorrect   bool   `json:"is_correct"`
	Consequence string `json:"consequence"`
}

func (*CaseStudy) Type() model.SectionType { return model.SectionCaseStudy }

// Example example
type Example struct {
	Scenario         string            `json:"scenario" validate:"required"`
	Personas         []Persona         `json:"personas" validate:"omitempty,dive"`
	QA               []QAPair          `json:"qa" validate:"omitempty,dive"`
	FinancialContext *FinancialContext `json:"financial_context,omitempty"`
}

type Persona struct {
	Name        string `json:"name" validate:"required"`
	Role        string `json:"role"`
	Description string `json:"description"`
}

type QAPair struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

type FinancialContext struct {
	Currency  string  `json:"currency" validate:"omitempty,len=3,uppercase"`
	Amount    float64 `json:"amount" validate:"gte=0"`
	Timeframe string  `json:"timeframe"`
	Notes     string  `json:"notes"`
}

func (*Example) Type() model.SectionType { return model.SectionExample }

// Quiz quiz；PassThreshold 缺省为 70
type Quiz struct {
	Kind          string     `json:"kind" validate:"oneof=knowledge_check assessment practice"`
	PassThreshold *int       `json:"pass_threshold" validate:"omitempty,min=0,max=100"`
	Items         []QuizItem `json:"items" validate:"required,min=1,dive"`
}

type QuizItem struct {
	Question   string       `json:"question" validate:"required"`
	Choices    []QuizChoice `json:"choices" validate:"required,min=2,dive"`
	Rationale  string       `json:"rationale"`
	Difficulty string       `json:"difficulty" validate:"oneof=easy medium hard"`
	AnchorRefs []string     `json:"anchor_refs" validate:"omitempty,dive,required"`
}

type QuizChoice struct {
	Text        string `json:"text" validate:"required"`
	Correct     bool   `json:"correct"`
	Explanation string `json:"explanation"`
}

func (*Quiz) Type() model.SectionType { return model.SectionQuiz }

// Threshold 及格线（百分比）
func (q *Quiz) Threshold() int {
	if q.PassThreshold == nil {
		return DefaultPassThreshold
	}
	return *q.PassThreshold
}

// Reflection reflection；MinChars 为 0 时使用服务端默认值
type Reflection struct {
	Kind            string   `json:"kind" validate:"oneof=journal self_assessment application"`
	Prompt          string   `json:"prompt" validate:"required"`
	Guidance        string   `json:"guidance"`
	MinChars        int      `json:"min_chars" validate:"min=1,max=5000"`
	SampleResponses []string `json:"sample_responses" validate:"omitempty,dive,required"`
}

func (*Reflection) Type() model.SectionType { return model.SectionReflection }

// Interactive interactive：要么是 Content（原始标记），要么是 Code + Metadata
type Interactive struct {
	Content  string               `json:"content,omitempty"`
	Code     string               `json:"code,omitempty"`
	Metadata *InteractiveMetadata `json:"metadata,omitempty"`
}

type InteractiveMetadata struct {
	ArtifactKind     string                 `json:"artifact_kind" validate:"required,oneof=markup component"`
	AllowedLibraries []string               `json:"allowed_libraries" validate:"omitempty,dive,required"`
	ScopeConfig      map[string]interface{} `json:"scope_config,omitempty"`
}

func (*Interactive) Type() model.SectionType { return model.SectionInteractive }

// Callout callout
type Callout struct {
	Style       string `json:"style" validate:"oneof=warning info compliance tip regulatory"`
	Title       string `json:"title"`
	Body        string `json:"body" validate:"required"`
	Dismissible bool   `json:"dismissible"`
}

func (*Callout) Type() model.SectionType { return model.SectionCallout }

// New 按章节类型返回对应的空载荷；concept 及未知类型返回 nil
func New(t model.SectionType) Payload {
	switch t {
	case model.SectionCaseStudy:
		return &CaseStudy{}
	case model.SectionExample:
		return &Example{}
	case model.SectionQuiz:
		return &Quiz{}
	case model.SectionReflection:
		return &Reflection{}
	case model.SectionInteractive:
		return &Interactive{}
	case model.SectionCallout:
		return &Callout{}
	default:
		return nil
	}
}
