package forecast

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", &Error{Kind: KindTimeout, Err: context.DeadlineExceeded}, MsgTimeout},
		{"transport", &Error{Kind: KindTransport}, MsgTransport},
		{"upstream with message", &Error{Kind: KindUpstream, Message: "Invalid API key"}, "❌ API 查詢失敗：Invalid API key"},
		{"upstream without message", &Error{Kind: KindUpstream}, "❌ API 查詢失敗：未知錯誤"},
		{"not found", &Error{Kind: KindNotFound, Region: "台北"}, "❌ 找不到 台北 的天氣資料"},
		{"structure hides detail", &Error{Kind: KindStructure, Err: errors.New("index out of range")}, MsgStructure},
		{"wrapped", fmt.Errorf("fetch: %w", &Error{Kind: KindTimeout}), MsgTimeout},
		{"foreign error", errors.New("boom"), MsgStructure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err))
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	err := &Error{Kind: KindTimeout, Region: "臺北市", Err: context.DeadlineExceeded}
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "timeout 臺北市: context deadline exceeded", err.Error())
}

func TestHorizonByName(t *testing.T) {
	h, err := HorizonByName("week")
	assert.NoError(t, err)
	assert.Equal(t, "F-D0047-091", h.Dataset)
	assert.Equal(t, "Wx,PoP12h,MinT,MaxT", h.ElementQuery())

	h, err = HorizonByName(" Short ")
	assert.NoError(t, err)
	assert.Equal(t, "Wx,PoP,MinT,MaxT,CI", h.ElementQuery())
	assert.Equal(t, 1, h.Slots)

	_, err = HorizonByName("month")
	assert.Error(t, err)
}
