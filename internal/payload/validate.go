package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"

	"github.com/go-playground/validator/v10"
)

// Validator 校验并规范化章节载荷。
// 反思最少字数的默认值可在配置热更新时调整。
type Validator struct {
	validate        *validator.Validate
	defaultMinChars atomic.Int64
}

func NewValidator(defaultMinChars int) *Validator {
	v := validator.New()
	// 问题路径使用 JSON 字段名
	v.RegisterTagNameFunc(util.JSONFieldName)
	pv := &Validator{validate: v}
	pv.SetDefaultMinChars(defaultMinChars)
	return pv
}

func (v *Validator) SetDefaultMinChars(n int) {
	if n <= 0 {
		n = 20
	}
	v.defaultMinChars.Store(int64(n))
}

func (v *Validator) DefaultMinChars() int {
	return int(v.defaultMinChars.Load())
}

type normalizer interface {
	normalize(defaultMinChars int)
}

type checker interface {
	check(ve *util.ValidationError)
}

// Validate 按声明的类型解码载荷，拒绝未知字段，填充默认值并校验规则。
// 任何失败都返回 *util.ValidationError。
func (v *Validator) Validate(t model.SectionType, raw []byte) (Payload, error) {
	if !t.Valid() {
		return nil, util.Invalid("type", "unknown section type %q", t)
	}
	p := New(t)
	if p == nil {
		return nil, util.Invalid("type", "section type %q has no block payload", t)
	}
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, util.Invalid("payload", "payload is required")
	}
	if err := decodeStrict(raw, p); err != nil {
		return nil, err
	}

	p.(normalizer).normalize(v.DefaultMinChars())

	ve := &util.ValidationError{}
	if err := v.validate.Struct(p); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, err
		}
		for _, fe := range fieldErrs {
			ve.Add(util.FieldPath(fe.Namespace()), util.FieldMessage(fe))
		}
	}
	p.(checker).check(ve)
	if err := ve.OrNil(); err != nil {
		return nil, err
	}
	return p, nil
}

// Decode 解码已存储的载荷（入库前已校验），只补默认值
func Decode(t model.SectionType, raw []byte) (Payload, error) {
	p := New(t)
	if p == nil {
		return nil, fmt.Errorf("section type %q has no block payload", t)
	}
	if len(raw) == 0 {
		return nil, errors.New("empty payload")
	}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, err
	}
	p.(normalizer).normalize(0)
	return p, nil
}

// DecodeQuiz 解码 quiz 载荷
func DecodeQuiz(raw []byte) (*Quiz, error) {
	p, err := Decode(model.SectionQuiz, raw)
	if err != nil {
		return nil, err
	}
	return p.(*Quiz), nil
}

// DecodeReflection 解码 reflection 载荷
func DecodeReflection(raw []byte) (*Reflection, error) {
	p, err := Decode(model.SectionReflection, raw)
	if err != nil {
		return nil, err
	}
	return p.(*Reflection), nil
}

// Encode 序列化规范化后的载荷用于入库
func Encode(p Payload) (model.RawJSON, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return model.RawJSON(b), nil
}

func decodeStrict(raw []byte, p Payload) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(p); err != nil {
		return decodeIssue(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return util.Invalid("payload", "unexpected data after payload object")
	}
	return nil
}

func decodeIssue(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "payload"
		}
		return util.Invalid(field, "must be of type %s", typeErr.Type.String())
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return util.Invalid("payload", "malformed JSON at offset %d", syntaxErr.Offset)
	}
	msg := err.Error()
	if strings.HasPrefix(msg, "json: unknown field ") {
		field := strings.Trim(strings.TrimPrefix(msg, "json: unknown field "), `"`)
		return util.Invalid(field, "unknown field")
	}
	return util.Invalid("payload", "%s", strings.TrimPrefix(msg, "json: "))
}
