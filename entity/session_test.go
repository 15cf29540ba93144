package entity_test

import (
	"testing"

	"github.com/habiliai/memoryruntime/entity"
	"github.com/stretchr/testify/assert"
)

func TestEvent_Text(t *testing.T) {
	tests := []struct {
		name  string
		parts []entity.Part
		want  string
	}{
		{
			name:  "single text part",
			parts: []entity.Part{{Text: "hello"}},
			want:  "hello",
		},
		{
			name:  "multiple text parts joined",
			parts: []entity.Part{{Text: "hello"}, {Text: "world"}},
			want:  "hello world",
		},
		{
			name:  "function call parts contribute nothing",
			parts: []entity.Part{{FunctionCall: "get_weather"}, {Text: "sunny"}},
			want:  "sunny",
		},
		{
			name:  "function call only",
			parts: []entity.Part{{FunctionCall: "get_weather"}},
			want:  "",
		},
		{
			name: "no parts",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := entity.Event{Parts: tt.parts}
			assert.Equal(t, tt.want, e.Text())
		})
	}
}
