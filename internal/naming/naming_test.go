package naming

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/multierr"

	"ucdsl/internal/model"
)

// ---------------------------------------------------------------------------
// Identifier rules
// ---------------------------------------------------------------------------

func TestUpper(t *testing.T) {
	tests := []struct {
		name string
		want []error
	}{
		{"", nil},
		{"Alice", nil},
		{"Auth_2'", nil},
		{"alice", []error{ErrUpperLead}},
		{"UC_Thing", []error{ErrUCPrefix}},
		{"Two__Parts", []error{ErrDoubleUnderscore}},
		{"Trailing_", []error{ErrTrailingUnderscore}},
		{"Has Space", []error{ErrBadCharacter}},
		{"Pr", []error{ErrReserved}},
		{"_x-", []error{ErrUpperLead, ErrBadCharacter}},
	}
	for _, tt := range tests {
		err := Upper(tt.name)
		if got := len(multierr.Errors(err)); got != len(tt.want) {
			t.Errorf("Upper(%q) = %v, want %d problems", tt.name, err, len(tt.want))
			continue
		}
		for _, w := range tt.want {
			if !errors.Is(err, w) {
				t.Errorf("Upper(%q) = %v, missing %v", tt.name, err, w)
			}
		}
	}
}

func TestLower(t *testing.T) {
	tests := []struct {
		name string
		want error
	}{
		{"x", nil},
		{"value'", nil},
		{"Value", ErrLowerLead},
		{"uc_port", ErrUCPrefix},
		{"send", ErrReserved},
		{"a__b", ErrDoubleUnderscore},
	}
	for _, tt := range tests {
		err := Lower(tt.name)
		if tt.want == nil {
			if err != nil {
				t.Errorf("Lower(%q) = %v, want nil", tt.name, err)
			}
			continue
		}
		if !errors.Is(err, tt.want) {
			t.Errorf("Lower(%q) = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestReservedWords(t *testing.T) {
	for _, w := range []string{"functionality", "uc_requires", "zeta", "Top", "why3"} {
		if !IsReserved(w) {
			t.Errorf("%q should be reserved", w)
		}
	}
	if IsReserved("Functionality") {
		t.Error("reserved words are case-sensitive")
	}
}

func TestComment(t *testing.T) {
	if err := Comment("a plain note ( * spaced * )"); err != nil {
		t.Errorf("spaced delimiters should pass: %v", err)
	}
	for _, bad := range []string{"open (* here", "close *) here"} {
		if !errors.Is(Comment(bad), ErrCommentDelimiter) {
			t.Errorf("Comment(%q) should fail", bad)
		}
	}
}

// ---------------------------------------------------------------------------
// CheckModel
// ---------------------------------------------------------------------------

func TestCheckModelClean(t *testing.T) {
	m := &model.Model{}
	m.Interfaces.BasicInters = []model.BasicInterface{{Name: "Dir"}}
	m.Interfaces.Messages = []model.Message{{Name: "Req", Port: "pt", Parameters: []model.Param{{Name: "x"}}}}
	m.IdealFunctionality.Name = "F"
	m.StateMachines.States = []model.State{{Name: "Init"}}
	if err := CheckModel(m); err != nil {
		t.Fatalf("CheckModel = %v", err)
	}
}

func TestCheckModelCollectsProblems(t *testing.T) {
	m := &model.Model{}
	m.Interfaces.Messages = []model.Message{{Name: "req", Port: "Pt", Comment: "bad *) comment"}}
	m.Parties.Parties = []model.Party{{Name: "party"}}
	m.StateMachines.States = []model.State{{Name: "S", Parameters: []model.Param{{Name: "N_"}}}}

	err := CheckModel(m)
	problems := multierr.Errors(err)
	// message name, port, comment, party lead + reserved, parameter lead + trailing _
	if len(problems) != 7 {
		t.Fatalf("got %d problems: %v", len(problems), err)
	}
	var p *Problem
	if !errors.As(problems[0], &p) || p.Entity != "message" || p.Field != "name" {
		t.Errorf("first problem = %v", problems[0])
	}
	if !strings.Contains(err.Error(), `party name "party"`) {
		t.Errorf("error text lacks party: %v", err)
	}
	if !errors.Is(err, ErrReserved) {
		t.Error("reserved party name not reported")
	}
}
