package dslgen

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"ucdsl/internal/model"
)

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

// relayModel is one party relaying Req as Resp through CompDir.Inst, with an
// adversarial interface A and a simulator bound to it.
func relayModel() *model.Model {
	m := &model.Model{ID: "m", Name: "Relay"}
	m.Interfaces = model.Interfaces{
		BasicInters: []model.BasicInterface{
			{ID: "b1", Name: "D", Type: model.Direct, Messages: []string{"m1", "m2"}},
			{ID: "b2", Name: "A", Type: model.Adversarial, Messages: []string{"m3", "m4"}},
		},
		CompInters: []model.CompositeInterface{
			{ID: "c1", Name: "CompDir", Type: model.Direct, BasicInterfaces: []model.BasicInstance{
				{IDOfBasic: "b1", IDOfInstance: "i1", Name: "Inst"},
			}},
		},
		Messages: []model.Message{
			{ID: "m1", Name: "Req", Type: model.In, Parameters: []model.Param{{Name: "x", Type: "int"}}},
			{ID: "m2", Name: "Resp", Type: model.Out, Parameters: []model.Param{{Name: "y", Type: "int"}}},
			{ID: "m3", Name: "Corrupt", Type: model.In},
			{ID: "m4", Name: "Leak", Type: model.Out},
		},
	}
	m.IdealFunctionality = model.IdealFunctionality{Name: "F", CompositeDirectInterface: "c1", BasicAdversarialInterface: "b2"}
	m.RealFunctionality = model.RealFunctionality{Name: "RF", CompositeDirectInterface: "c1", Parties: []string{"p1"}}
	m.Parties.Parties = []model.Party{{ID: "p1", Name: "P", BasicDirectInterface: "i1", StateMachine: "sm1"}}
	m.StateMachines = model.StateMachines{
		StateMachines: []model.StateMachine{
			{ID: "sm1", InitState: "s0", States: []string{"s0", "s1"}, Transitions: []string{"t1"}},
			{ID: "sm2", InitState: "s2", States: []string{"s2"}, Transitions: []string{"t2"}},
		},
		States: []model.State{
			{ID: "s0", Name: "S0"},
			{ID: "s1", Name: "S1"},
			{ID: "s2", Name: "Watch"},
		},
		Transitions: []model.Transition{
			{ID: "t1", FromState: "s0", ToState: "s1", InMessage: "m1", OutMessage: "m2",
				OutMessageArguments: []model.Arg{{ArgValue: "x"}}},
			{ID: "t2", FromState: "s2", ToState: "s2", InMessage: "m3", OutMessage: "m2",
				OutMessageArguments: []model.Arg{{ArgValue: "0"}}},
		},
	}
	m.Simulator = model.Simulator{Name: "S", BasicAdversarialInterface: "b2", RealFunctionality: "rf", StateMachine: "sm2"}
	return m
}

// withExternals adds a sub-functionality and a parameter interface to m and
// returns a snapshot carrying their messages.
func withExternals(m *model.Model) *model.Snapshot {
	m.Subfunctionalities.Subfunctionalities = []model.SubFunctionality{
		{ID: "sf1", Name: "Sub", IdealFuncModel: "Auth", IdealFunctionalityName: "FAuth"},
	}
	m.RealFunctionality.ParameterInterfaces = []model.ParameterInterface{
		{ID: "pi1", Name: "Net", ModelName: "Channel", CompInterName: "ChanDir"},
	}
	m.StateMachines.StateMachines[0].Transitions = append(m.StateMachines.StateMachines[0].Transitions, "t3")
	m.StateMachines.StateMachines[1].Transitions = append(m.StateMachines.StateMachines[1].Transitions, "t4")
	m.StateMachines.Transitions = append(m.StateMachines.Transitions,
		model.Transition{ID: "t3", FromState: "s1", ToState: "s1", InMessage: "x1", OutMessage: "y1",
			OutMessageArguments: []model.Arg{{ArgValue: "a"}}},
		model.Transition{ID: "t4", FromState: "s2", ToState: "s2", InMessage: "x1", OutMessage: "y1",
			OutMessageArguments: []model.Arg{{ArgValue: "a"}}},
	)
	return &model.Snapshot{
		Model: m,
		SubFuncMessages: []model.ExternalMessage{{
			Message: model.Message{ID: "x1", Name: "Go", Type: model.In},
			Owner:   "sf1",
			Composite: &model.CompositeInterface{Name: "AuthDir", BasicInterfaces: []model.BasicInstance{
				{IDOfBasic: "ab1", IDOfInstance: "ai1", Name: "AI"},
			}},
			Basic: model.BasicInterface{ID: "ab1", Name: "AuthBasic", Type: model.Direct},
		}},
		ParamInterMessages: []model.ExternalMessage{{
			Message: model.Message{ID: "y1", Name: "Ping", Type: model.Out, Parameters: []model.Param{{Name: "a", Type: "int"}}},
			Owner:   "pi1",
			Composite: &model.CompositeInterface{Name: "ChanDir", BasicInterfaces: []model.BasicInstance{
				{IDOfBasic: "pb1", IDOfInstance: "pi-1", Name: "PI"},
			}},
			Basic: model.BasicInterface{ID: "pb1", Name: "PBasic", Type: model.Direct},
		}},
		IdealFunctionalities: []model.IdealFunctionalityRef{{ModelName: "Channel", Name: "FChan"}},
	}
}

// section returns the part of out starting at the first line that begins
// with prefix, up to the next top-level block banner.
func section(t *testing.T, out, prefix string) string {
	t.Helper()
	i := strings.Index(out, prefix)
	if i < 0 {
		t.Fatalf("no %q in output:\n%s", prefix, out)
	}
	rest := out[i+len(prefix):]
	if j := strings.Index(rest, "\n(* "); j >= 0 {
		rest = rest[:j]
	}
	return prefix + rest
}

// ---------------------------------------------------------------------------
// Argument formatter
// ---------------------------------------------------------------------------

func TestFormatArgs(t *testing.T) {
	tests := []struct {
		name   string
		params []model.Param
		want   string
	}{
		{"none", nil, ""},
		{"one", []model.Param{{Name: "p"}}, "(p)"},
		{"three", []model.Param{{Name: "p1"}, {Name: "p2"}, {Name: "p3"}}, "(p1, p2, p3)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatArgs(tt.params, paramName); got != tt.want {
				t.Errorf("formatArgs = %q, want %q", got, tt.want)
			}
		})
	}
	if got := formatArgs([]model.Param{{Name: "a", Type: "int"}, {Name: "b", Type: "bool"}}, paramDecl); got != "(a : int, b : bool)" {
		t.Errorf("paramDecl list = %q", got)
	}
	if got := formatArgs([]model.Arg{{ArgValue: "x + 1"}}, argValue); got != "(x + 1)" {
		t.Errorf("argValue list = %q", got)
	}
}

// ---------------------------------------------------------------------------
// Comment formatter
// ---------------------------------------------------------------------------

func TestCommentShort(t *testing.T) {
	if got := stateComment.render("hello"); got != "  (* hello *)\n" {
		t.Errorf("short state comment = %q", got)
	}
	if got := interfaceComment.render(""); got != "" {
		t.Errorf("empty comment rendered %q", got)
	}
}

func TestCommentThresholds(t *testing.T) {
	tests := []struct {
		name  string
		style commentStyle
		n     int
		wraps bool
	}{
		{"interface below", interfaceComment, 79, false},
		{"interface at width", interfaceComment, 80, true},
		{"message below", messageComment, 64, false},
		{"message at width", messageComment, 65, true},
		{"state at width", stateComment, 70, false},
		{"state above", stateComment, 71, true},
		{"party at width", partyComment, 75, false},
		{"party above", partyComment, 76, true},
		{"party state above", partyStateComment, 71, true},
	}
	for _, tt := range tests {
		text := strings.Repeat("a", tt.n)
		if got := tt.style.wraps(text); got != tt.wraps {
			t.Errorf("%s: wraps(%d) = %v, want %v", tt.name, tt.n, got, tt.wraps)
		}
		single := strings.Count(tt.style.render(text), "\n") == 1
		if single == tt.wraps {
			t.Errorf("%s: rendered on one line = %v", tt.name, single)
		}
	}
}

func TestCommentThresholdCountsRunes(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		wraps bool
	}{
		{"two-byte letters below", strings.Repeat("é", 79), false},
		{"two-byte letters at width", strings.Repeat("é", 80), true},
		// Each of these is two UTF-16 units but one rune.
		{"astral letters", strings.Repeat("𝔽", 79), false},
	}
	for _, tt := range tests {
		if got := interfaceComment.wraps(tt.text); got != tt.wraps {
			t.Errorf("%s: wraps = %v, want %v", tt.name, got, tt.wraps)
		}
	}
}

func TestCommentWrapWidth(t *testing.T) {
	text := strings.Repeat("lorem ipsum dolor sit amet ", 10)
	for _, style := range []commentStyle{interfaceComment, messageComment, stateComment, partyComment, partyStateComment} {
		for _, line := range wrapWords(text, style.width) {
			if n := utf8.RuneCountInString(line); n > style.width {
				t.Errorf("width %d: line of %d runes: %q", style.width, n, line)
			}
		}
	}
}

func TestCommentLayout(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("word ", 20))
	got := messageComment.render(text)
	want := "   (* word word word word word word word word word word word word word\n" +
		"    * word word word word word word word\n" +
		"    *)\n"
	if got != want {
		t.Errorf("message comment =\n%q\nwant\n%q", got, want)
	}
}

func TestCommentLongWordPassesThrough(t *testing.T) {
	long := strings.Repeat("x", 90)
	lines := wrapWords("short "+long+" tail", 80)
	if len(lines) != 3 || lines[1] != long {
		t.Fatalf("wrapWords = %q", lines)
	}
	lines = wrapWords(long, 80)
	if len(lines) != 1 || lines[0] != long {
		t.Fatalf("a single overlong word should be one line: %q", lines)
	}
}

// ---------------------------------------------------------------------------
// Transition block emitter
// ---------------------------------------------------------------------------

func TestPlainClauseHasNoGuardTokens(t *testing.T) {
	out := Generate(model.NewSnapshot(relayModel()))
	party := section(t, out, "  party P")
	for _, tok := range []string{"if ()", "elif", "else"} {
		if strings.Contains(party, tok) {
			t.Errorf("plain clause contains %q:\n%s", tok, party)
		}
	}
}

func TestPartyScenario(t *testing.T) {
	out := Generate(model.NewSnapshot(relayModel()))
	want := `  party P serves CompDir.Inst {
    initial state S0 {
      match message with
      | undefined@CompDir.Inst.Req(x) => {
          send CompDir.Inst.Resp(x)@undefined
          and transition S1.
      }

      | * => { fail. }
      end
    }
`
	if !strings.Contains(out, want) {
		t.Errorf("party block missing, got:\n%s", out)
	}
}

func TestSingleGuard(t *testing.T) {
	m := relayModel()
	m.StateMachines.Transitions[0].Guard = "x is even"
	party := section(t, Generate(model.NewSnapshot(m)), "  party P")

	if n := strings.Count(party, "if () {"); n != 1 {
		t.Errorf("if count = %d, want 1", n)
	}
	if !strings.Contains(party, "if () { (* x is even *)") {
		t.Errorf("guard comment missing:\n%s", party)
	}
	if n := strings.Count(party, "} else { fail. }"); n != 1 {
		t.Errorf("else count = %d, want 1", n)
	}
	if strings.Contains(party, "elif") {
		t.Errorf("single guard emitted elif:\n%s", party)
	}
}

func TestMultiGuard(t *testing.T) {
	for _, n := range []int{2, 3, 5} {
		m := relayModel()
		base := m.StateMachines.Transitions[0]
		m.StateMachines.Transitions[0].Guard = "g1"
		for i := 2; i <= n; i++ {
			tr := base
			tr.ID = "extra" + string(rune('0'+i))
			tr.Guard = "g" + string(rune('0'+i))
			m.StateMachines.Transitions = append(m.StateMachines.Transitions, tr)
			m.StateMachines.StateMachines[0].Transitions = append(m.StateMachines.StateMachines[0].Transitions, tr.ID)
		}
		party := section(t, Generate(model.NewSnapshot(m)), "  party P")

		if got := strings.Count(party, "        if () {"); got != 1 {
			t.Errorf("n=%d: if count = %d", n, got)
		}
		if got := strings.Count(party, "} elif () {"); got != n-1 {
			t.Errorf("n=%d: elif count = %d, want %d", n, got, n-1)
		}
		if got := strings.Count(party, "} else { fail. }"); got != 1 {
			t.Errorf("n=%d: else count = %d", n, got)
		}
		g1 := strings.Index(party, "(* g1 *)")
		g2 := strings.Index(party, "(* g2 *)")
		if g1 < 0 || g2 < 0 || g1 > g2 {
			t.Errorf("n=%d: guards out of authored order:\n%s", n, party)
		}
	}
}

func TestMultiGuardEmptyGuardDescription(t *testing.T) {
	m := relayModel()
	tr := m.StateMachines.Transitions[0]
	tr.ID = "t1b"
	m.StateMachines.Transitions = append(m.StateMachines.Transitions, tr)
	m.StateMachines.StateMachines[0].Transitions = append(m.StateMachines.StateMachines[0].Transitions, "t1b")

	party := section(t, Generate(model.NewSnapshot(m)), "  party P")
	if got := strings.Count(party, "(* Guard Description *)"); got != 2 {
		t.Errorf("Guard Description count = %d, want 2:\n%s", got, party)
	}
	if !strings.Contains(party, "identical 'from' states and 'in' messages *)") {
		t.Errorf("multi-guard banner missing:\n%s", party)
	}
}

func TestStateBlockTerminator(t *testing.T) {
	out := Generate(model.NewSnapshot(relayModel()))
	ideal := section(t, out, "(* Ideal functionality *)")
	// F has no state machine yet.
	if strings.Contains(ideal, "state") {
		t.Errorf("ideal functionality without machine emitted states:\n%s", ideal)
	}

	m := relayModel()
	m.IdealFunctionality.StateMachine = "sm1"
	ideal = section(t, Generate(model.NewSnapshot(m)), "(* Ideal functionality *)")
	if got := strings.Count(ideal, "| * => { fail. }\n    end\n  }"); got != 2 {
		t.Errorf("terminated state blocks = %d, want 2:\n%s", got, ideal)
	}
	if !strings.HasPrefix(strings.SplitN(ideal, "\n", 4)[3], "  initial state S0 {") {
		t.Errorf("initial state should come first:\n%s", ideal)
	}
}

func TestTransitionNameAndStateArgs(t *testing.T) {
	m := relayModel()
	m.StateMachines.Transitions[0].Name = "Forward"
	m.StateMachines.Transitions[0].ToStateArguments = []model.Arg{{ArgValue: "x"}, {ArgValue: "1"}}
	party := section(t, Generate(model.NewSnapshot(m)), "  party P")
	if !strings.Contains(party, "          (* Transition Name: Forward *)\n          send ") {
		t.Errorf("transition name comment missing:\n%s", party)
	}
	if !strings.Contains(party, "and transition S1(x, 1).") {
		t.Errorf("state arguments missing:\n%s", party)
	}
}

func TestUnresolvedReferencesDegrade(t *testing.T) {
	m := relayModel()
	m.StateMachines.Transitions[0].InMessage = "gone"
	m.StateMachines.Transitions[0].OutMessage = ""
	m.StateMachines.Transitions[0].ToState = "nowhere"
	party := section(t, Generate(model.NewSnapshot(m)), "  party P")
	for _, want := range []string{
		"| undefined@undefined => {",
		"send undefined@undefined",
		"and transition undefined.",
	} {
		if !strings.Contains(party, want) {
			t.Errorf("missing %q in:\n%s", want, party)
		}
	}
}

// ---------------------------------------------------------------------------
// Routing
// ---------------------------------------------------------------------------

func TestRoutingPolicies(t *testing.T) {
	direct := Ref{Namespace: Plain, Name: "M", Basic: "B", Composite: "C", Instance: "I"}
	ported := direct
	ported.Port = "p"
	adv := Ref{Namespace: Plain, Name: "L", Basic: "A", Adversarial: true}
	sub := Ref{Namespace: SubFunc, Name: "G", Owner: "Sub", Basic: "SB", Instance: "SI"}

	ideal := functionalityRouting
	sim := routing{realFunc: "RF", externalByBasic: true}
	plainT := model.Transition{}
	targeted := model.Transition{TargetPort: "tp"}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"ideal receive direct", ideal.receive(direct), "undefined@C.I.M"},
		{"ideal receive ported", ideal.receive(ported), "p@C.I.M"},
		{"ideal receive adversarial", ideal.receive(adv), "A.L"},
		{"ideal receive sub", ideal.receive(sub), "Sub.SI.G"},
		{"ideal send direct", ideal.send(direct, plainT), "C.I.M@undefined"},
		{"ideal send targeted", ideal.send(direct, targeted), "C.I.M@tp"},
		{"ideal send adversarial", ideal.send(adv, plainT), "A.L"},
		{"ideal send sub", ideal.send(sub, plainT), "Sub.SI.G"},
		{"ideal send sub targeted", ideal.send(sub, targeted), "Sub.SI.G@tp"},
		{"sim receive direct", sim.receive(direct), "RF.C.I.M"},
		{"sim receive ported", sim.receive(ported), "p@RF.C.I.M"},
		{"sim receive adversarial", sim.receive(adv), "A.L"},
		{"sim receive sub", sim.receive(sub), "Sub.SB.G"},
		{"sim send direct", sim.send(direct, plainT), "RF.C.I.M"},
		{"sim send targeted", sim.send(direct, targeted), "RF.C.I.M@tp"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestResolvePriority(t *testing.T) {
	m := relayModel()
	s := withExternals(m)
	// A plain message that shares an id with a sub-functionality message
	// loses to the sub-functionality namespace.
	m.Interfaces.Messages = append(m.Interfaces.Messages, model.Message{ID: "x1", Name: "Shadow"})
	ix := model.NewIndex(s)

	if ref := resolve(ix, "x1"); ref.Namespace != SubFunc || ref.Name != "Go" || ref.Owner != "Sub" {
		t.Errorf("resolve(x1) = %+v", ref)
	}
	if ref := resolve(ix, "y1"); ref.Namespace != ParamInterface || ref.Owner != "Net" || ref.Instance != "PI" {
		t.Errorf("resolve(y1) = %+v", ref)
	}
	if ref := resolve(ix, "m3"); ref.Namespace != Plain || !ref.Adversarial || ref.Composite != "" {
		t.Errorf("resolve(m3) = %+v", ref)
	}
	if ref := resolve(ix, "nope"); ref.Namespace != Unresolved || ref.Name != placeholder {
		t.Errorf("resolve(nope) = %+v", ref)
	}
}

// ---------------------------------------------------------------------------
// Entity blocks
// ---------------------------------------------------------------------------

func TestExternalMessagesInParty(t *testing.T) {
	party := section(t, Generate(withExternals(relayModel())), "  party P")
	for _, want := range []string{
		"      | Sub.AI.Go => {\n          send Net.PI.Ping(a)\n",
	} {
		if !strings.Contains(party, want) {
			t.Errorf("missing %q in:\n%s", want, party)
		}
	}
}

func TestRealFunctionalityHeader(t *testing.T) {
	out := Generate(withExternals(relayModel()))
	for _, want := range []string{
		"functionality RF(Net : Channel.ChanDir) implements CompDir {\n",
		"\n  (* Subfunctionalities *)\n  subfun Sub = Auth.FAuth\n",
		"\n  (* Party *)\n  party P serves CompDir.Inst {\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestPartyServesAdversarialInstance(t *testing.T) {
	m := relayModel()
	m.Interfaces.CompInters = append(m.Interfaces.CompInters, model.CompositeInterface{
		ID: "c2", Name: "CompAdv", Type: model.Adversarial,
		BasicInterfaces: []model.BasicInstance{{IDOfBasic: "b2", IDOfInstance: "i2", Name: "AdvInst"}},
	})
	m.RealFunctionality.CompositeAdversarialInterface = "c2"
	m.Parties.Parties[0].BasicAdversarialInterface = "i2"
	m.Parties.Parties[0].Comment = "relays requests"
	out := Generate(model.NewSnapshot(m))
	for _, want := range []string{
		"implements CompDir CompAdv {\n",
		"  (* relays requests *)\n  party P serves CompDir.Inst CompAdv.AdvInst {\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	m.Parties.Parties[0].BasicDirectInterface = ""
	if out := Generate(model.NewSnapshot(m)); !strings.Contains(out, "party P serves CompAdv.AdvInst {") {
		t.Errorf("adversarial-only party header wrong:\n%s", out)
	}
}

func TestSimulatorBlock(t *testing.T) {
	sim := section(t, Generate(withExternals(relayModel())), "(* Simulator *)")
	for _, want := range []string{
		"simulator S uses A simulates RF(Channel.FChan) {\n\n",
		"  initial state Watch {\n",
		"    | A.Corrupt => {\n        send RF.CompDir.Inst.Resp(0)\n        and transition Watch.\n    }\n",
		"    | Sub.AuthBasic.Go => {\n        send Net.PBasic.Ping(a)\n",
	} {
		if !strings.Contains(sim, want) {
			t.Errorf("missing %q in:\n%s", want, sim)
		}
	}
	if strings.Contains(sim, "undefined") {
		t.Errorf("simulator should not emit placeholders here:\n%s", sim)
	}
}

func TestSimulatorUnboundParameters(t *testing.T) {
	s := withExternals(relayModel())
	s.IdealFunctionalities = nil
	s.Model.Simulator.RealFunctionality = ""
	s.Model.RealFunctionality.ParameterInterfaces = append(s.Model.RealFunctionality.ParameterInterfaces,
		model.ParameterInterface{ID: "pi2", Name: "Other"})
	out := Generate(s)
	if !strings.Contains(out, "simulates undefined(Channel.undefined, undefined.undefined) {") {
		t.Errorf("unbound simulator header wrong:\n%s", section(t, out, "(* Simulator *)"))
	}
}

func TestInterfacesBlock(t *testing.T) {
	m := relayModel()
	m.Interfaces.BasicInters[0].Comment = "the direct side"
	m.Interfaces.Messages[0].Port = "in1"
	m.Interfaces.Messages[1].Comment = "answer"
	out := interfacesBlock(model.NewIndex(model.NewSnapshot(m)))
	want := "(* Basic direct interface *)\n" +
		"(* the direct side *)\n" +
		"direct D {\n" +
		"   in in1@Req(x : int)\n" +
		"   (* answer *)\n" +
		"   out Resp(y : int)@undefined\n" +
		"}\n\n" +
		"(* Basic adversarial interface *)\n" +
		"adversarial A {\n" +
		"   in Corrupt\n" +
		"   out Leak\n" +
		"}\n\n" +
		"(* Composite direct interface *)\n" +
		"direct CompDir {\n" +
		"   Inst : D\n" +
		"}\n\n"
	if out != want {
		t.Errorf("interfaces block =\n%s\nwant\n%s", out, want)
	}
}

// ---------------------------------------------------------------------------
// Top-level compiler
// ---------------------------------------------------------------------------

func TestPresenceRules(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*model.Model)
		realFunc  bool
		simulator bool
	}{
		{"party and adversarial", func(*model.Model) {}, true, true},
		{"no adversarial interface", func(m *model.Model) { m.Simulator.BasicAdversarialInterface = "" }, true, false},
		{"no parties", func(m *model.Model) { m.Parties.Parties = nil }, false, false},
		{"subfunctionality only", func(m *model.Model) {
			m.Parties.Parties = nil
			m.Subfunctionalities.Subfunctionalities = []model.SubFunctionality{{ID: "sf", Name: "Sub"}}
		}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := relayModel()
			tt.mutate(m)
			out := Generate(model.NewSnapshot(m))
			if got := strings.Contains(out, "(* Real Functionality *)"); got != tt.realFunc {
				t.Errorf("real functionality present = %v, want %v", got, tt.realFunc)
			}
			if got := strings.Contains(out, "(* Simulator *)"); got != tt.simulator {
				t.Errorf("simulator present = %v, want %v", got, tt.simulator)
			}
			if !strings.Contains(out, "(* Ideal functionality *)") {
				t.Error("ideal functionality is always emitted")
			}
		})
	}
}

func TestBlockOrder(t *testing.T) {
	out := Generate(withExternals(relayModel()))
	order := []string{
		"uc_requires",
		"(* Basic direct interface *)",
		"(* Composite direct interface *)",
		"(* Real Functionality *)",
		"(* Ideal functionality *)",
		"(* Simulator *)",
	}
	last := -1
	for _, marker := range order {
		i := strings.Index(out, marker)
		if i <= last {
			t.Fatalf("%q out of order (at %d, previous %d)", marker, i, last)
		}
		last = i
	}
}

func TestRequiresPrologue(t *testing.T) {
	m := relayModel()
	if got := requiresBlock(m); got != "" {
		t.Errorf("requires without imports = %q", got)
	}
	m.Subfunctionalities.Subfunctionalities = []model.SubFunctionality{{Name: "A", IdealFuncModel: "Auth"}, {Name: "B"}}
	m.RealFunctionality.ParameterInterfaces = []model.ParameterInterface{{Name: "N", ModelName: "Channel"}}
	want := "(* You have made use of other models in this model. You must include the following:\n" +
		" * uc_requires Auth FILENAME Channel.\n" +
		" *)\n\n"
	if got := requiresBlock(m); got != want {
		t.Errorf("requires =\n%q\nwant\n%q", got, want)
	}
}

func TestGenerateIdempotent(t *testing.T) {
	s := withExternals(relayModel())
	first := Generate(s)
	for i := 0; i < 5; i++ {
		if again := GenerateContext(context.Background(), s); again != first {
			t.Fatalf("run %d differs from first run", i)
		}
	}
}

func TestGenerateContextCancelled(t *testing.T) {
	s := withExternals(relayModel())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := GenerateContext(ctx, s); got != Generate(s) {
		t.Errorf("cancelled context changed the output:\n%s", got)
	}
}

func TestGenerateEmptySnapshot(t *testing.T) {
	out := Generate(nil)
	want := "(* Ideal functionality *)\nfunctionality  implements {\n\n}\n\n"
	if out != want {
		t.Errorf("empty snapshot = %q, want %q", out, want)
	}
}
