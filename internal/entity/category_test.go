package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryUnmarshalShapes(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Category
	}{
		{"object", `{"id":"c1","name":"Văn học"}`, Category{ID: "c1", Name: "Văn học"}},
		{"legacy string", `"Văn học"`, Category{ID: "Văn học", Name: "Văn học"}},
		{"mongo id", `{"_id":"c9","name":"Thiếu nhi"}`, Category{ID: "c9", Name: "Thiếu nhi"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got Category
			require.NoError(t, json.Unmarshal([]byte(tc.in), &got))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCategoryUnmarshalInsideList(t *testing.T) {
	var got []Category
	require.NoError(t, json.Unmarshal([]byte(`["A",{"id":"c2","name":"B"}]`), &got))
	assert.Equal(t, []Category{{ID: "A", Name: "A"}, {ID: "c2", Name: "B"}}, got)
}
