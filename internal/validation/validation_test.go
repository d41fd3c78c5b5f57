package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidCardLast4(t *testing.T) {
	tests := []struct {
		name  string
		last4 string
		want  bool
	}{
		{"four digits", "4242", true},
		{"leading zeros", "0007", true},
		{"too short", "424", false},
		{"too long", "42424", false},
		{"letters", "42a2", false},
		{"empty", "", false},
		{"spaces", "42 2", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidCardLast4(tt.last4))
		})
	}
}

type itemRequest struct {
	MealID   string   `json:"mealId" validate:"required,uuid"`
	Price    *float64 `json:"price" validate:"required,gte=0"`
	Quantity int      `json:"quantity" validate:"omitempty,min=1"`
}

type listRequest struct {
	Items []itemRequest `json:"items" validate:"required,min=1,dive"`
}

type profileRequest struct {
	Method    string `json:"method" validate:"required,oneof=card prepaid cash"`
	CardLast4 string `json:"cardLast4" validate:"required_unless=Method cash,last4"`
}

func ptr(f float64) *float64 { return &f }

func TestStruct(t *testing.T) {
	const mealID = "4b1f5b7e-7c1e-4d0e-9a3c-1d2e3f405060"

	tests := []struct {
		name       string
		req        any
		wantFields []string
		wantRules  []string
	}{
		{
			name: "valid",
			req:  listRequest{Items: []itemRequest{{MealID: mealID, Price: ptr(5)}}},
		},
		{
			name:       "missing items",
			req:        listRequest{},
			wantFields: []string{"items"},
			wantRules:  []string{"required"},
		},
		{
			name:       "empty items",
			req:        listRequest{Items: []itemRequest{}},
			wantFields: []string{"items"},
			wantRules:  []string{"min"},
		},
		{
			name:       "nested errors use json paths",
			req:        listRequest{Items: []itemRequest{{MealID: "nope", Price: ptr(-1)}}},
			wantFields: []string{"items[0].mealId", "items[0].price"},
			wantRules:  []string{"uuid", "gte"},
		},
		{
			name:       "missing price",
			req:        listRequest{Items: []itemRequest{{MealID: mealID}}},
			wantFields: []string{"items[0].price"},
			wantRules:  []string{"required"},
		},
		{
			name: "cash needs no card",
			req:  profileRequest{Method: "cash"},
		},
		{
			name:       "card needs last4",
			req:        profileRequest{Method: "card"},
			wantFields: []string{"cardLast4"},
			wantRules:  []string{"required_unless"},
		},
		{
			name:       "card last4 must be digits",
			req:        profileRequest{Method: "card", CardLast4: "12ab"},
			wantFields: []string{"cardLast4"},
			wantRules:  []string{"last4"},
		},
		{
			name:       "unknown method",
			req:        profileRequest{Method: "crypto", CardLast4: "1234"},
			wantFields: []string{"method"},
			wantRules:  []string{"oneof"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.req)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var verrs Errors
			require.ErrorAs(t, err, &verrs)

			var fields, rules []string
			for _, fe := range verrs {
				fields = append(fields, fe.Field)
				rules = append(rules, fe.Rule)
				assert.NotEmpty(t, fe.Message)
			}
			assert.Equal(t, tt.wantFields, fields)
			assert.Equal(t, tt.wantRules, rules)
		})
	}
}

func TestErrors_Error(t *testing.T) {
	errs := Errors{
		{Field: "items", Rule: "required", Message: "is required"},
		{Field: "fulfillment", Rule: "oneof", Message: "must be one of: pickup, delivery"},
	}
	assert.Equal(t, "items is required; fulfillment must be one of: pickup, delivery", errs.Error())
}
