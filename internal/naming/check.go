package naming

import (
	"go.uber.org/multierr"

	"ucdsl/internal/model"
)

// checker accumulates problems found while walking a model.
type checker struct {
	err error
}

func (c *checker) add(entity, field, value string, err error) {
	for _, e := range multierr.Errors(err) {
		c.err = multierr.Append(c.err, &Problem{Entity: entity, Field: field, Value: value, Err: e})
	}
}

func (c *checker) upper(entity, name string) { c.add(entity, "name", name, Upper(name)) }

func (c *checker) comment(entity, text string) { c.add(entity, "comment", text, Comment(text)) }

func (c *checker) params(entity string, ps []model.Param) {
	for _, p := range ps {
		c.add(entity, "parameter", p.Name, Lower(p.Name))
	}
}

// CheckModel validates every name and comment in m. The result combines one
// *Problem per violated rule; use multierr.Errors to list them.
func CheckModel(m *model.Model) error {
	var c checker

	for _, b := range m.Interfaces.BasicInters {
		c.upper("basic interface", b.Name)
		c.comment("basic interface", b.Comment)
	}
	for _, ci := range m.Interfaces.CompInters {
		c.upper("composite interface", ci.Name)
		c.comment("composite interface", ci.Comment)
		for _, inst := range ci.BasicInterfaces {
			c.upper("interface instance", inst.Name)
		}
	}
	for _, msg := range m.Interfaces.Messages {
		c.upper("message", msg.Name)
		c.comment("message", msg.Comment)
		c.params("message "+msg.Name, msg.Parameters)
		c.add("message "+msg.Name, "port", msg.Port, Lower(msg.Port))
	}

	c.upper("ideal functionality", m.IdealFunctionality.Name)
	c.upper("real functionality", m.RealFunctionality.Name)
	c.upper("simulator", m.Simulator.Name)
	for _, pi := range m.RealFunctionality.ParameterInterfaces {
		c.upper("parameter interface", pi.Name)
	}
	for _, sf := range m.Subfunctionalities.Subfunctionalities {
		c.upper("subfunctionality", sf.Name)
	}
	for _, p := range m.Parties.Parties {
		c.upper("party", p.Name)
		c.comment("party", p.Comment)
	}
	for _, st := range m.StateMachines.States {
		c.upper("state", st.Name)
		c.comment("state", st.Comment)
		c.params("state "+st.Name, st.Parameters)
	}
	for _, t := range m.StateMachines.Transitions {
		if t.TargetPort != "" {
			c.add("transition "+t.ID, "port", t.TargetPort, Lower(t.TargetPort))
		}
	}
	return c.err
}
