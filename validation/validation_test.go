package validation

import "testing"

func TestBasicValidators(t *testing.T) {
	v := make(Violations)
	Required("name", "  ", v)
	PositiveFloat("price", 0, v)
	NonNegativeFloat("discount", -1, v)
	RangeFloat("rate", 120, 0, 100, v)
	OneOf("status", "unknown", []string{"a", "b"}, v)
	OneOf("mode", "", []string{"a"}, v)

	want := map[string]string{
		"name":     "required",
		"price":    "must_be_positive",
		"discount": "must_not_be_negative",
		"rate":     "out_of_range",
		"status":   "invalid_choice",
	}
	if len(v) != len(want) {
		t.Fatalf("expected %d violations, got %v", len(want), v)
	}
	for k, code := range want {
		if v[k] != code {
			t.Errorf("%s: got %q want %q", k, v[k], code)
		}
	}
}

func TestAddKeepsFirst(t *testing.T) {
	v := make(Violations)
	v.Add("date_fin", "required")
	v.Add("date_fin", "out_of_range")
	if v["date_fin"] != "required" {
		t.Fatalf("expected first code kept, got %q", v["date_fin"])
	}
}

func TestStruct(t *testing.T) {
	type payload struct {
		Name     string  `json:"name" validate:"required"`
		Email    string  `json:"email" validate:"omitempty,email"`
		Price    float64 `json:"price" validate:"gt=0"`
		Priority string  `json:"priority" validate:"omitempty,oneof=normal urgent"`
	}

	v := Struct(payload{Email: "nope", Priority: "later"})
	if v["name"] != "required" {
		t.Errorf("name: %q", v["name"])
	}
	if v["email"] != "invalid_email" {
		t.Errorf("email: %q", v["email"])
	}
	if v["price"] != "must_be_positive" {
		t.Errorf("price: %q", v["price"])
	}
	if v["priority"] != "invalid_choice" {
		t.Errorf("priority: %q", v["priority"])
	}

	if ok := Struct(payload{Name: "Room service", Price: 12.5}); !ok.Empty() {
		t.Fatalf("expected no violations, got %v", ok)
	}
}
