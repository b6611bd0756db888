package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zhtranslations "github.com/go-playground/validator/v10/translations/zh"

	"github.com/KedarDamale/MarksMania/internal/dto"
	"github.com/KedarDamale/MarksMania/internal/grading"
	"github.com/KedarDamale/MarksMania/internal/model"
)

// 自定义校验标签
const (
	examTypeTag   = "exam_type"
	scoreRangeTag = "score_range"
)

// translator 由 Setup 初始化，未初始化时 Translate 退回原始错误信息
var translator ut.Translator

// Setup 在 gin 的校验引擎上注册自定义规则与中文错误信息
func Setup() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin 校验引擎不是 validator/v10")
	}
	trans, err := Register(v)
	if err != nil {
		return err
	}
	translator = trans
	return nil
}

// Register 向给定校验器注册规则与翻译，返回中文翻译器
func Register(v *validator.Validate) (ut.Translator, error) {
	zhLocale := zh.New()
	uni := ut.New(zhLocale, zhLocale)
	trans, _ := uni.GetTranslator("zh")
	if err := zhtranslations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, fmt.Errorf("注册中文校验信息失败: %w", err)
	}

	// 错误信息使用 JSON/表单字段名
	v.RegisterTagNameFunc(fieldName)

	if err := v.RegisterValidation(examTypeTag, examTypeValidation); err != nil {
		return nil, err
	}
	v.RegisterStructValidation(scoreInputStructValidation, dto.ScoreInput{})
	v.RegisterStructValidation(batchMarksStructValidation, dto.BatchMarksRequest{})

	for _, tag := range []string{examTypeTag, scoreRangeTag} {
		if err := v.RegisterTranslation(tag, trans, func(ut.Translator) error { return nil }, translateCustom); err != nil {
			return nil, err
		}
	}
	return trans, nil
}

// Translate 将绑定错误转换为可读信息，多个字段以 "; " 连接
func Translate(err error) string {
	return TranslateWith(translator, err)
}

// TranslateWith 使用指定翻译器转换绑定错误
func TranslateWith(trans ut.Translator, err error) string {
	var verrs validator.ValidationErrors
	if trans == nil || !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(trans))
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}

func fieldName(fld reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case examTypeTag:
		return fmt.Sprintf("%s必须是 %s 之一", fe.Field(), strings.Join(model.ExamTypes, "/"))
	case scoreRangeTag:
		return fmt.Sprintf("%s超出 %s 的允许范围（%s）", fe.Field(), fe.Param(), scoreRangeText(fe.Param()))
	default:
		return fe.Error()
	}
}

func scoreRangeText(examType string) string {
	max, ok := grading.MaxScore(examType)
	if !ok {
		return "未知考试类型"
	}
	return fmt.Sprintf("%d-%d", grading.MinScore, max)
}

// ── 自定义校验 ──

func examTypeValidation(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	return ok && grading.IsValidExamType(s)
}

// scoreInputStructValidation 分数范围依赖同一结构体中的考试类型
func scoreInputStructValidation(sl validator.StructLevel) {
	in, ok := sl.Current().Interface().(dto.ScoreInput)
	if !ok || in.Score == nil || !grading.IsValidExamType(in.ExamType) {
		return
	}
	if !grading.IsValidScore(in.ExamType, *in.Score) {
		sl.ReportError(*in.Score, "score", "Score", scoreRangeTag, in.ExamType)
	}
}

func batchMarksStructValidation(sl validator.StructLevel) {
	req, ok := sl.Current().Interface().(dto.BatchMarksRequest)
	if !ok || !grading.IsValidExamType(req.ExamType) {
		return
	}
	for _, sc := range req.Scores {
		if sc.Score != nil && !grading.IsValidScore(req.ExamType, *sc.Score) {
			sl.ReportError(req.Scores, "scores", "Scores", scoreRangeTag, req.ExamType)
			return
		}
	}
}
