package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	gql "github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"
)

// Executor runs GraphQL documents against the resolver.
type Executor struct {
	schema   *ast.Schema
	resolver *Resolver
}

// NewExecutor loads the embedded schema and binds it to resolver.
func NewExecutor(resolver *Resolver) (*Executor, error) {
	schema, err := Schema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}
	return &Executor{schema: schema, resolver: resolver}, nil
}

// Exec parses, validates and executes one request. Quote failures are part
// of the data; only malformed documents and resolver faults yield errors.
func (e *Executor) Exec(ctx context.Context, params *gql.RawParams) *gql.Response {
	doc, errs := gqlparser.LoadQueryWithRules(e.schema, params.Query, nil)
	if len(errs) > 0 {
		return &gql.Response{Errors: errs}
	}

	op := doc.Operations.ForName(params.OperationName)
	if op == nil {
		if params.OperationName == "" {
			return errorResponse(gqlerror.Errorf("operation name is required when the document has several operations"))
		}
		return errorResponse(gqlerror.Errorf("operation %s not found", params.OperationName))
	}

	vars, err := validator.VariableValues(e.schema, op, params.Variables)
	if err != nil {
		return errorResponse(gqlerror.WrapIfUnwrapped(err))
	}

	data, errs := e.execute(ctx, op, vars)
	raw, err := json.Marshal(data)
	if err != nil {
		return errorResponse(gqlerror.Wrap(err))
	}
	return &gql.Response{Data: raw, Errors: errs}
}

func errorResponse(err *gqlerror.Error) *gql.Response {
	return &gql.Response{Errors: gqlerror.List{err}}
}

// execute resolves the root fields in document order. Every root field is
// non-null, so a failing one nulls the whole data object.
func (e *Executor) execute(ctx context.Context, op *ast.OperationDefinition, vars map[string]any) (any, gqlerror.List) {
	var errs gqlerror.List
	data := object{}

	for _, group := range collectFields(op.SelectionSet, vars) {
		f := group.fields[0]
		path := ast.Path{ast.PathName(group.key)}

		if f.Name == "__typename" {
			data = append(data, entry{group.key, f.ObjectDefinition.Name})
			continue
		}

		value, err := e.resolve(ctx, op.Operation, f, vars)
		if err != nil {
			errs = append(errs, gqlerror.WrapPath(path, err))
			continue
		}
		generic, err := toGeneric(value)
		if err != nil {
			errs = append(errs, gqlerror.WrapPath(path, err))
			continue
		}
		data = append(data, entry{group.key, project(generic, group.selections(), vars)})
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return data, nil
}

func (e *Executor) resolve(ctx context.Context, operation ast.Operation, f *ast.Field, vars map[string]any) (any, error) {
	args := f.ArgumentMap(vars)

	switch operation {
	case ast.Query:
		q := e.resolver.Query()
		switch f.Name {
		case "health":
			return q.Health(ctx)
		case "services":
			return q.Services(ctx)
		}
	case ast.Mutation:
		m := e.resolver.Mutation()
		switch f.Name {
		case "quote", "quoteInternational", "quoteDomestic":
			var input ShipmentInput
			if err := decodeArg(args["input"], &input); err != nil {
				return nil, err
			}
			switch f.Name {
			case "quoteInternational":
				return m.QuoteInternational(ctx, input)
			case "quoteDomestic":
				return m.QuoteDomestic(ctx, input)
			default:
				return m.Quote(ctx, input)
			}
		case "quoteBatch":
			var inputs []*ShipmentInput
			if err := decodeArg(args["inputs"], &inputs); err != nil {
				return nil, err
			}
			return m.QuoteBatch(ctx, inputs)
		}
	}
	return nil, fmt.Errorf("field %s is not supported on %s", f.Name, operation)
}

// decodeArg converts a coerced argument value into its model type.
func decodeArg(value any, target any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding argument: %w", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decoding argument: %w", err)
	}
	return nil
}

func toGeneric(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// project keeps the selected fields of value, in selection order, under
// their response keys.
func project(value any, set ast.SelectionSet, vars map[string]any) any {
	if len(set) == 0 {
		return value
	}
	switch v := value.(type) {
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = project(item, set, vars)
		}
		return out
	case map[string]any:
		out := object{}
		for _, group := range collectFields(set, vars) {
			f := group.fields[0]
			if f.Name == "__typename" {
				out = append(out, entry{group.key, f.ObjectDefinition.Name})
				continue
			}
			out = append(out, entry{group.key, project(v[f.Name], group.selections(), vars)})
		}
		return out
	default:
		return value
	}
}

type fieldGroup struct {
	key    string
	fields []*ast.Field
}

// selections merges the sub-selections of every field sharing the key.
func (g *fieldGroup) selections() ast.SelectionSet {
	if len(g.fields) == 1 {
		return g.fields[0].SelectionSet
	}
	var set ast.SelectionSet
	for _, f := range g.fields {
		set = append(set, f.SelectionSet...)
	}
	return set
}

// collectFields flattens fragments and groups fields by response key.
// The schema has no abstract types, so every fragment applies.
func collectFields(set ast.SelectionSet, vars map[string]any) []*fieldGroup {
	var groups []*fieldGroup
	index := map[string]*fieldGroup{}

	var walk func(ast.SelectionSet)
	walk = func(set ast.SelectionSet) {
		for _, sel := range set {
			switch s := sel.(type) {
			case *ast.Field:
				if skipped(s.Directives, vars) {
					continue
				}
				key := s.Alias
				if key == "" {
					key = s.Name
				}
				g, ok := index[key]
				if !ok {
					g = &fieldGroup{key: key}
					index[key] = g
					groups = append(groups, g)
				}
				g.fields = append(g.fields, s)
			case *ast.InlineFragment:
				if !skipped(s.Directives, vars) {
					walk(s.SelectionSet)
				}
			case *ast.FragmentSpread:
				if !skipped(s.Directives, vars) && s.Definition != nil {
					walk(s.Definition.SelectionSet)
				}
			}
		}
	}
	walk(set)
	return groups
}

func skipped(dirs ast.DirectiveList, vars map[string]any) bool {
	if d := dirs.ForName("skip"); d != nil {
		if skip, _ := d.ArgumentMap(vars)["if"].(bool); skip {
			return true
		}
	}
	if d := dirs.ForName("include"); d != nil {
		if include, ok := d.ArgumentMap(vars)["if"].(bool); ok && !include {
			return true
		}
	}
	return false
}

type entry struct {
	key   string
	value any
}

// object is a JSON object that keeps its key order.
type object []entry

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(e.value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
