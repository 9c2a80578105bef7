package analysis

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"vegaedge/internal/types"
)

// ErrInvalidRequest is wrapped by every *RequestError.
var ErrInvalidRequest = errors.New("invalid analysis request")

const (
	msgTickerEmpty   = "Ticker Symbol cannot be empty."
	msgTickerInvalid = "Ticker Symbol must be 1-10 letters, digits, '.' or '-'."
	msgDTERange      = "DTEs must be non-negative and Min DTE <= Max DTE."
	msgSide          = "Strategy side must be Bullish or Bearish."
)

// FieldError names one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RequestError carries the message shown to the user plus per-field details.
type RequestError struct {
	Message string
	Fields  []FieldError
}

func (e *RequestError) Error() string { return e.Message }

func (e *RequestError) Unwrap() error { return ErrInvalidRequest }

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("ticker", isValidTicker)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func isValidTicker(fl validator.FieldLevel) bool {
	ticker := fl.Field().String()
	if len(ticker) < 1 || len(ticker) > 10 {
		return false
	}
	for _, ch := range ticker {
		if !((ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '.' || ch == '-') {
			return false
		}
	}
	return true
}

// Normalize trims and upper-cases the ticker and canonicalises the side.
func Normalize(req types.AnalysisRequest) types.AnalysisRequest {
	req.Ticker = strings.ToUpper(strings.TrimSpace(req.Ticker))
	if side, ok := types.ParseStrategySide(string(req.Side)); ok {
		req.Side = side
	}
	return req
}

func (s *Service) validate(req types.AnalysisRequest) error {
	err := s.validator.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	rerr := &RequestError{}
	for _, fe := range verrs {
		msg := fieldMessage(fe)
		if rerr.Message == "" {
			rerr.Message = msg
		}
		rerr.Fields = append(rerr.Fields, FieldError{Field: fe.Field(), Message: msg})
	}
	return rerr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "ticker":
		if fe.Tag() == "required" {
			return msgTickerEmpty
		}
		return msgTickerInvalid
	case "min_dte", "max_dte":
		return msgDTERange
	case "side":
		return msgSide
	default:
		return fe.Error()
	}
}
