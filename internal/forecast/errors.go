package forecast

import (
	"errors"
	"fmt"
)

// Kind classifies why a forecast could not be produced.
type Kind int

const (
	KindStructure Kind = iota
	KindTransport
	KindTimeout
	KindUpstream
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindTimeout:
		return "timeout"
	case KindUpstream:
		return "upstream"
	case KindNotFound:
		return "not_found"
	default:
		return "structure"
	}
}

// Error is the typed failure of a forecast lookup. Message is text supplied
// by the upstream API and may be shown to users; Err is diagnostic detail
// for the log only.
type Error struct {
	Kind    Kind
	Region  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Region != "" {
		msg += " " + e.Region
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a forecast error. Errors that are not a
// forecast error count as structural.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindStructure
}

const (
	MsgTimeout   = "❌ 查詢逾時，請稍後再試"
	MsgTransport = "❌ 連線失敗，請稍後再試"
	MsgStructure = "❌ 資料解析錯誤，請稍後再試"
	msgUnknown   = "未知錯誤"
)

// Message returns the user facing reply for a failed lookup.
func Message(err error) string {
	var fe *Error
	if !errors.As(err, &fe) {
		return MsgStructure
	}

	switch fe.Kind {
	case KindTimeout:
		return MsgTimeout
	case KindTransport:
		return MsgTransport
	case KindUpstream:
		msg := fe.Message
		if msg == "" {
			msg = msgUnknown
		}
		return fmt.Sprintf("❌ API 查詢失敗：%s", msg)
	case KindNotFound:
		return fmt.Sprintf("❌ 找不到 %s 的天氣資料", fe.Region)
	default:
		return MsgStructure
	}
}
