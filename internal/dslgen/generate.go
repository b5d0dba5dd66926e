// Package dslgen renders a UC protocol model as UC-DSL source text.
//
// Generation is a pure function of a model.Snapshot: it never fails and never
// mutates its input. Missing references degrade to the token "undefined" so a
// half-built model still produces a readable preview.
//
// Output order is fixed:
//
//	requires prologue
//	interfaces
//	real functionality   (only when parties or sub-functionalities exist)
//	ideal functionality
//	simulator            (only with an adversarial interface and an active real functionality)
package dslgen

import (
	"context"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"ucdsl/internal/model"
)

var tracer = otel.Tracer("ucdsl/internal/dslgen")

// block is one section of the output.
type block struct {
	name   string
	render func(*model.Index) string
}

// Generate renders s as UC-DSL source.
func Generate(s *model.Snapshot) string {
	return GenerateContext(context.Background(), s)
}

// GenerateContext is Generate with tracing. The sections are rendered
// concurrently over a shared read-only index and joined in fixed order.
func GenerateContext(ctx context.Context, s *model.Snapshot) string {
	ctx, span := tracer.Start(ctx, "dslgen.Generate")
	defer span.End()

	ix := model.NewIndex(s)
	m := ix.Model()
	span.SetAttributes(attribute.String("model.name", m.Name))

	blocks := []block{
		{"requires", func(ix *model.Index) string { return requiresBlock(ix.Model()) }},
		{"interfaces", interfacesBlock},
	}
	if realFunctionalityActive(m) {
		blocks = append(blocks, block{"real-functionality", realFunctionalityBlock})
	}
	blocks = append(blocks, block{"ideal-functionality", idealFunctionalityBlock})
	if simulatorActive(m) {
		blocks = append(blocks, block{"simulator", simulatorBlock})
	}

	out := make([]string, len(blocks))
	var wg sync.WaitGroup
	for i, blk := range blocks {
		wg.Go(func() {
			_, span := tracer.Start(ctx, "dslgen."+blk.name)
			defer span.End()
			out[i] = blk.render(ix)
		})
	}
	wg.Wait()

	return strings.Join(out, "")
}
