package apiconnect

import (
	"errors"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrorDetail is the structured part of a failed call. Kind tells a client
// whether to fix its input ("validation"), give up ("state", "immutable",
// "not_found", "permission") or retry later ("" for infrastructure errors).
type ErrorDetail struct {
	Kind    string
	Code    string
	Message string
}

// NewError builds a Connect error carrying detail.
func NewError(code connect.Code, cause error, detail ErrorDetail) *connect.Error {
	connectErr := connect.NewError(code, cause)
	s, err := structpb.NewStruct(map[string]any{
		"kind":    detail.Kind,
		"code":    detail.Code,
		"message": detail.Message,
	})
	if err != nil {
		return connectErr
	}
	if d, err := connect.NewErrorDetail(s); err == nil {
		connectErr.AddDetail(d)
	}
	return connectErr
}

// ErrorInfo extracts the detail attached by NewError.
func ErrorInfo(err error) (*ErrorDetail, bool) {
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		return nil, false
	}
	for _, d := range connectErr.Details() {
		msg, err := d.Value()
		if err != nil {
			continue
		}
		s, ok := msg.(*structpb.Struct)
		if !ok {
			continue
		}
		fields := s.GetFields()
		return &ErrorDetail{
			Kind:    fields["kind"].GetStringValue(),
			Code:    fields["code"].GetStringValue(),
			Message: fields["message"].GetStringValue(),
		}, true
	}
	return nil, false
}
