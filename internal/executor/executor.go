package executor

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	language "github.com/hanpama/beacon/internal/language"
	schema "github.com/hanpama/beacon/internal/schema"
)

// Path addresses a value in the response by field names and list indexes.
type Path []PathElement

type PathElement any

type Executor struct {
	runtime Runtime
	schema  *schema.Schema
}

func NewExecutor(runtime Runtime, schema *schema.Schema) *Executor {
	return &Executor{runtime: runtime, schema: schema}
}

// execution is the state of a single request.
type execution struct {
	ctx     context.Context
	runtime Runtime
	schema  *schema.Schema
	doc     *language.QueryDocument
	vars    map[string]any
	pending []pendingField
	errors  []GraphQLError
	// nulled holds response paths already set to null by a Non-Null
	// violation; nothing below them is resolved or written.
	nulled map[string]struct{}
}

// pendingField is an async field waiting for the next batch.
type pendingField struct {
	task   AsyncResolveTask
	typ    *schema.TypeRef
	fields []*language.Field
}

// deferred marks the slot an async field will fill once its batch returns.
type deferred struct{}

// ExecuteRequest runs one operation of document. Root fields resolve
// against initialValue.
func (e *Executor) ExecuteRequest(
	ctx context.Context,
	document *language.QueryDocument,
	operationName string,
	variableValues map[string]any,
	initialValue any,
) *ExecutionResult {
	op, err := selectOperation(document, operationName)
	if err != nil {
		return failed(err)
	}
	vars, err := coerceVariableValues(e.schema, op, variableValues)
	if err != nil {
		return failed(err)
	}
	root, err := e.rootType(op.Operation)
	if err != nil {
		return failed(err)
	}

	ex := &execution{
		ctx:     ctx,
		runtime: e.runtime,
		schema:  e.schema,
		doc:     document,
		vars:    vars,
		errors:  []GraphQLError{},
		nulled:  make(map[string]struct{}),
	}
	data := ex.selectionSet(root, op.SelectionSet, initialValue, Path{})
	for len(ex.pending) > 0 {
		batch := ex.takeBatch()
		if len(batch) == 0 {
			continue
		}
		tasks := make([]AsyncResolveTask, len(batch))
		for i, p := range batch {
			tasks[i] = p.task
		}
		for i, res := range ex.runtime.BatchResolveAsync(ctx, tasks) {
			ex.settle(batch[i], res, data)
		}
	}
	return &ExecutionResult{Data: data, Errors: ex.errors}
}

func failed(err error) *ExecutionResult {
	return &ExecutionResult{Errors: []GraphQLError{{Message: err.Error()}}}
}

func (e *Executor) rootType(op language.Operation) (*schema.Type, error) {
	var t *schema.Type
	switch op {
	case language.Query:
		t = e.schema.GetQueryType()
	case language.Mutation:
		t = e.schema.GetMutationType()
	case language.Subscription:
		return nil, errors.New("subscriptions are not supported")
	default:
		return nil, fmt.Errorf("unsupported operation type: %s", op)
	}
	if t == nil {
		return nil, fmt.Errorf("root type not found for %s operation", op)
	}
	return t, nil
}

// selectOperation picks the operation to run. An empty name is allowed only
// when the document holds a single operation.
func selectOperation(document *language.QueryDocument, name string) (*language.OperationDefinition, error) {
	if name == "" {
		switch len(document.Operations) {
		case 0:
			return nil, errors.New("document contains no operations")
		case 1:
			return document.Operations[0], nil
		default:
			return nil, errors.New("must provide operation name if query contains multiple operations")
		}
	}
	if op := document.Operations.ForName(name); op != nil {
		return op, nil
	}
	return nil, fmt.Errorf("unknown operation named %q", name)
}

// selectionSet resolves the sync fields of set and queues the async ones. A
// null in a Non-Null field nulls the whole object, except at the root where
// only that field is nulled.
func (ex *execution) selectionSet(objectType *schema.Type, set language.SelectionSet, source any, path Path) map[string]any {
	out := make(map[string]any)
	for _, group := range ex.collectFields(objectType, set) {
		v := ex.field(objectType, source, group.fields, appendPath(path, group.name))
		name := group.fields[0].Name
		if name == "__typename" {
			out[group.name] = v
			continue
		}
		def := objectType.FieldByName(name)
		if def == nil {
			continue
		}
		if isNullish(v) {
			if schema.IsNonNull(def.Type) && len(path) > 0 {
				return nil
			}
			v = nil
		}
		out[group.name] = v
	}
	return out
}

func (ex *execution) field(objectType *schema.Type, source any, fields []*language.Field, path Path) any {
	name := fields[0].Name
	if name == "__typename" {
		return objectType.Name
	}
	def := objectType.FieldByName(name)
	if def == nil {
		ex.addError(fmt.Sprintf("Cannot query field '%s' on type '%s'", name, objectType.Name), path, fields)
		return nil
	}
	args, ok := ex.argumentValues(def, fields, path)
	if !ok {
		return nil
	}

	if def.Async {
		ex.pending = append(ex.pending, pendingField{
			task:   AsyncResolveTask{ObjectType: objectType.Name, Field: name, Source: source, Args: args, Path: path},
			typ:    def.Type,
			fields: fields,
		})
		return deferred{}
	}
	v, err := ex.runtime.ResolveSync(ex.ctx, objectType.Name, name, source, args)
	if err != nil {
		ex.errors = append(ex.errors, newFieldError(err, path, fields))
		v = nil
	}
	return ex.complete(def.Type, fields, v, path)
}

// takeBatch empties the queue and returns the fields still worth resolving.
func (ex *execution) takeBatch() []pendingField {
	batch := make([]pendingField, 0, len(ex.pending))
	for _, p := range ex.pending {
		if !ex.isNulled(p.task.Path) {
			batch = append(batch, p)
		}
	}
	ex.pending = nil
	return batch
}

// settle completes an async result and writes it into data. A null in a
// Non-Null position nulls the root field the value hangs from.
func (ex *execution) settle(p pendingField, res AsyncResolveResult, data map[string]any) {
	path := p.task.Path
	if ex.isNulled(path) {
		return
	}
	var v any
	if res.Error != nil {
		ex.errors = append(ex.errors, newFieldError(res.Error, path, p.fields))
	} else {
		v = ex.complete(p.typ, p.fields, res.Value, path)
	}
	if isNullish(v) {
		if schema.IsNonNull(p.typ) {
			top := rootFieldPath(path)
			setValueAtPath(data, top, nil)
			ex.markNulled(top)
			return
		}
		v = nil
	}
	setValueAtPath(data, path, v)
}

func (ex *execution) complete(typ *schema.TypeRef, fields []*language.Field, v any, path Path) any {
	if schema.IsNonNull(typ) {
		if isNullish(v) {
			if !ex.hasErrorAt(path) {
				ex.addError("Cannot return null for non-nullable field "+pathString(path), path, fields)
			}
			return nil
		}
		// a null inner value already reported its error
		return ex.complete(schema.Unwrap(typ), fields, v, path)
	}
	if isNullish(v) {
		return nil
	}
	if schema.IsList(typ) {
		return ex.completeList(typ, fields, v, path)
	}

	name := schema.GetNamedType(typ)
	t := ex.schema.Types[name]
	if t == nil {
		ex.addError("Unknown type: "+name, path, fields)
		return nil
	}
	switch t.Kind {
	case schema.TypeKindScalar, schema.TypeKindEnum:
		out, err := ex.runtime.SerializeLeafValue(ex.ctx, name, v)
		if err != nil {
			ex.errors = append(ex.errors, newFieldError(err, path, fields))
			return nil
		}
		return out
	case schema.TypeKindObject:
		return ex.selectionSet(t, subSelections(fields), v, path)
	case schema.TypeKindInterface, schema.TypeKindUnion:
		return ex.completeAbstract(name, fields, v, path)
	}
	ex.addError(fmt.Sprintf("Cannot complete value of unexpected type: %s", t.Kind), path, fields)
	return nil
}

func (ex *execution) completeList(typ *schema.TypeRef, fields []*language.Field, v any, path Path) any {
	items, ok := v.([]any)
	if !ok {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice {
			ex.addError(fmt.Sprintf("Expected list value, got %T", v), path, fields)
			return nil
		}
		items = make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
	}

	inner := schema.Unwrap(typ)
	out := make([]any, len(items))
	for i, item := range items {
		c := ex.complete(inner, fields, item, appendPath(path, i))
		if isNullish(c) && schema.IsNonNull(inner) {
			return nil
		}
		out[i] = c
	}
	return out
}

func (ex *execution) completeAbstract(abstract string, fields []*language.Field, v any, path Path) any {
	name, err := ex.runtime.ResolveType(ex.ctx, abstract, v)
	if err != nil {
		ex.errors = append(ex.errors, newFieldError(err, path, fields))
		return nil
	}
	t := ex.schema.Types[name]
	if t == nil || t.Kind != schema.TypeKindObject {
		ex.addError(fmt.Sprintf("Abstract type %s must resolve to an Object type at runtime. Got: %s", abstract, name), path, fields)
		return nil
	}
	if !ex.schema.IsPossibleType(abstract, name) {
		ex.addError(fmt.Sprintf("Runtime Object type %s is not a possible type for %s", name, abstract), path, fields)
		return nil
	}
	return ex.selectionSet(t, subSelections(fields), v, path)
}

// addError records a located error for the first of fields.
func (ex *execution) addError(message string, path Path, fields []*language.Field) {
	ex.errors = append(ex.errors, GraphQLError{Message: message, Path: path, Locations: fieldLocations(fields)})
}

func (ex *execution) hasErrorAt(path Path) bool {
	for _, err := range ex.errors {
		if reflect.DeepEqual(err.Path, path) {
			return true
		}
	}
	return false
}

func (ex *execution) markNulled(p Path) {
	if key := pathString(p); key != "" {
		ex.nulled[key] = struct{}{}
	}
}

func (ex *execution) isNulled(p Path) bool {
	if len(ex.nulled) == 0 {
		return false
	}
	for i := range p {
		if _, ok := ex.nulled[pathString(p[:i+1])]; ok {
			return true
		}
	}
	return false
}

// pathString joins a path with dots, writing indexes as [i].
func pathString(path Path) string {
	var b strings.Builder
	for i, elem := range path {
		if i > 0 {
			b.WriteByte('.')
		}
		switch v := elem.(type) {
		case string:
			b.WriteString(v)
		case int:
			b.WriteString("[" + strconv.Itoa(v) + "]")
		}
	}
	return b.String()
}

func appendPath(path Path, elem PathElement) Path {
	out := make(Path, len(path), len(path)+1)
	copy(out, path)
	return append(out, elem)
}

func rootFieldPath(p Path) Path {
	for _, elem := range p {
		if name, ok := elem.(string); ok {
			return Path{name}
		}
	}
	return Path{}
}

// setValueAtPath writes v into the response tree, creating intermediate
// objects on the way.
func setValueAtPath(root map[string]any, path Path, v any) {
	if len(path) == 0 {
		return
	}
	var cur any = root
	for _, elem := range path[:len(path)-1] {
		switch e := elem.(type) {
		case string:
			m, ok := cur.(map[string]any)
			if !ok {
				return
			}
			next, ok := m[e]
			if !ok {
				next = make(map[string]any)
				m[e] = next
			}
			cur = next
		case int:
			list, ok := cur.([]any)
			if !ok || e >= len(list) {
				return
			}
			if list[e] == nil {
				list[e] = make(map[string]any)
			}
			cur = list[e]
		}
	}
	switch last := path[len(path)-1].(type) {
	case string:
		if m, ok := cur.(map[string]any); ok {
			m[last] = v
		}
	case int:
		if list, ok := cur.([]any); ok && last < len(list) {
			list[last] = v
		}
	}
}

func subSelections(fields []*language.Field) language.SelectionSet {
	var out language.SelectionSet
	for _, f := range fields {
		out = append(out, f.SelectionSet...)
	}
	return out
}

// isNullish reports nil and typed nil values.
func isNullish(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Interface, reflect.Ptr, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
