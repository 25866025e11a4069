package dynamic

import (
	"errors"
	"testing"

	"github.com/funvibe/dynobj/internal/config"
	"github.com/funvibe/dynobj/internal/evaluator"
	"github.com/funvibe/dynobj/internal/typesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setCount is f(self, n: Int): stores n under "count" and returns n.
func setCount() *evaluator.NativeFunction {
	return evaluator.NewNativeFunction("set_count", typesystem.TFunc{
		Params:     []typesystem.Type{evaluator.DynamicObjectType, evaluator.IntType},
		ReturnType: evaluator.IntType,
	}, func(args []evaluator.Object) (evaluator.Object, error) {
		self := args[0].(*evaluator.DynamicObject)
		self.SetAttr("count", args[1])
		return args[1], nil
	})
}

// describe is f(self): works on any receiver.
func describe() *evaluator.NativeFunction {
	return evaluator.NewNativeFunction("describe", typesystem.TFunc{
		Params:     []typesystem.Type{typesystem.Any},
		ReturnType: evaluator.StringType,
	}, func(args []evaluator.Object) (evaluator.Object, error) {
		return &evaluator.String{Value: args[0].Inspect()}, nil
	})
}

func intArgs(self evaluator.Object, n int64) []evaluator.Object {
	return []evaluator.Object{self, &evaluator.Integer{Value: n}}
}

func TestGuard_Matches(t *testing.T) {
	counter := evaluator.NewDynamicObject("Counter")
	widget := evaluator.NewDynamicObject("Widget")
	hostType := evaluator.HostType(nil)

	tests := []struct {
		name  string
		guard Guard
		value evaluator.Object
		want  bool
	}{
		{"same tag", NewGuard("Counter", nil), counter, true},
		{"other tag", NewGuard("Counter", nil), widget, false},
		{"wildcard", NewGuard(config.DynamicObjectTypeName, nil), widget, true},
		{"wildcard empty tag", NewGuard(config.DynamicObjectTypeName, nil), evaluator.NewDynamicObject(""), true},
		{"plain value without type", NewGuard("Counter", nil), &evaluator.Integer{Value: 1}, false},
		{"plain value with type", NewGuard("Counter", evaluator.IntType), &evaluator.Integer{Value: 1}, true},
		{"plain value other type", NewGuard("Counter", evaluator.IntType), &evaluator.Float{Value: 1}, false},
		{"record ignores type", NewGuard("Counter", evaluator.DynamicObjectType), widget, false},
		{"host object by descriptor", NewGuard("Host", hostType), &evaluator.HostObject{}, true},
		{"nil value", NewGuard("Counter", nil), nil, false},
		{"zero guard", Guard{TypeName: "Counter"}, counter, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.guard.Matches(tt.value))
		})
	}
}

func TestGuard_MatchesArgs(t *testing.T) {
	g := NewGuard("Counter", nil)
	counter := evaluator.NewDynamicObject("Counter")

	assert.False(t, g.MatchesArgs(nil))
	assert.False(t, g.MatchesArgs([]evaluator.Object{}))
	assert.True(t, g.MatchesArgs([]evaluator.Object{counter, &evaluator.Integer{Value: 1}}))
	assert.False(t, g.MatchesArgs([]evaluator.Object{&evaluator.Integer{Value: 1}, counter}), "only the first argument counts")
}

func TestMethodFunction_TagLaw(t *testing.T) {
	tags := []string{"Counter", "Widget", "", "counter", config.DynamicObjectTypeName + "x"}
	for _, t1 := range tags {
		for _, t2 := range tags {
			m := NewMethodFunction(t2, setCount())
			r := evaluator.NewDynamicObject(t1)
			got := m.Accepts(intArgs(r, 1), nil)
			assert.Equal(t, t1 == t2, got, "record %q, guard %q", t1, t2)
		}
	}
}

func TestMethodFunction_Wildcard(t *testing.T) {
	m := NewMethodFunction(config.DynamicObjectTypeName, setCount())
	for _, tag := range []string{"Counter", "Widget", ""} {
		assert.True(t, m.Accepts(intArgs(evaluator.NewDynamicObject(tag), 1), nil), tag)
	}
}

func TestMethodFunction_RejectsNonRecord(t *testing.T) {
	m := NewMethodFunction("Counter", describe())
	assert.False(t, m.Accepts([]evaluator.Object{&evaluator.Integer{Value: 1}}, nil))
	assert.False(t, m.Accepts([]evaluator.Object{&evaluator.String{Value: "Counter"}}, nil))
	assert.False(t, m.Accepts(nil, nil))
}

func TestMethodFunction_CounterScenario(t *testing.T) {
	m := NewMethodFunction("Counter", setCount())
	widget := evaluator.NewDynamicObject("Widget")
	counter := evaluator.NewDynamicObject("Counter")

	assert.False(t, m.Accepts(intArgs(widget, 5), nil))
	assert.False(t, m.CompareFirstType(widget, nil))

	require.True(t, m.Accepts(intArgs(counter, 5), nil))
	assert.True(t, m.CompareFirstType(counter, nil))
	result, err := m.Call(intArgs(counter, 5), nil)
	require.NoError(t, err)
	assert.True(t, evaluator.ObjectsEqual(&evaluator.Integer{Value: 5}, result))
	assert.True(t, evaluator.ObjectsEqual(&evaluator.Integer{Value: 5}, counter.Attr("count")))

	_, ok := widget.TryAttr("count")
	assert.False(t, ok)
}

func TestMethodFunction_InnerAcceptance(t *testing.T) {
	m := NewMethodFunction("Counter", setCount())
	counter := evaluator.NewDynamicObject("Counter")

	assert.False(t, m.Accepts([]evaluator.Object{counter}, nil), "inner arity")
	assert.False(t, m.Accepts([]evaluator.Object{counter, &evaluator.String{Value: "5"}}, nil), "inner types")
}

func TestMethodFunction_CallGuardViolation(t *testing.T) {
	m := NewMethodFunction("Counter", setCount())
	widget := evaluator.NewDynamicObject("Widget")

	_, err := m.Call(intArgs(widget, 5), nil)
	require.Error(t, err)
	assert.True(t, evaluator.IsGuardError(err))
	var ge *evaluator.GuardError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, "Counter", ge.TypeName)
	assert.Equal(t, "Widget", ge.Got)

	_, err = m.Call(nil, nil)
	assert.True(t, evaluator.IsGuardError(err))

	_, ok := widget.TryAttr("count")
	assert.False(t, ok, "rejected call must not run the inner function")
}

func TestMethodFunction_PropagatesInnerError(t *testing.T) {
	boom := errors.New("boom")
	inner := evaluator.NewNativeFunction("fail", typesystem.TFunc{Params: []typesystem.Type{typesystem.Any}},
		func(args []evaluator.Object) (evaluator.Object, error) { return nil, boom })
	m := NewMethodFunction("Counter", inner)

	_, err := m.Call([]evaluator.Object{evaluator.NewDynamicObject("Counter")}, nil)
	assert.ErrorIs(t, err, boom)
	assert.False(t, evaluator.IsGuardError(err))
}

func TestMethodFunction_Typed(t *testing.T) {
	m := NewTypedMethodFunction("Counter", describe(), evaluator.IntType)

	assert.True(t, m.Accepts([]evaluator.Object{&evaluator.Integer{Value: 3}}, nil))
	assert.False(t, m.Accepts([]evaluator.Object{&evaluator.Float{Value: 3}}, nil))
	assert.True(t, m.Accepts([]evaluator.Object{evaluator.NewDynamicObject("Counter")}, nil))
	assert.False(t, m.Accepts([]evaluator.Object{evaluator.NewDynamicObject("Widget")}, nil))

	result, err := m.Call([]evaluator.Object{&evaluator.Integer{Value: 3}}, nil)
	require.NoError(t, err)
	assert.True(t, evaluator.ObjectsEqual(&evaluator.String{Value: "3"}, result))

	sig := m.Signature()
	require.Len(t, sig.Params, 1)
	assert.Equal(t, evaluator.IntType, sig.Params[0])
	assert.Equal(t, typesystem.Any, describe().Signature().Params[0], "inner signature is untouched")
}

func TestMethodFunction_Introspection(t *testing.T) {
	inner := setCount()
	inner.Doc = "sets the count"
	m := NewMethodFunction("Counter", inner)

	assert.Equal(t, 2, m.Arity())
	assert.Equal(t, "sets the count", m.Annotation())
	assert.Equal(t, "Counter", m.TypeName())
	assert.True(t, typesystem.Equal(inner.Signature(), m.Signature()))
	require.Len(t, m.ContainedFunctions(), 1)
	assert.Same(t, inner, m.ContainedFunctions()[0])
}

func TestMethodFunction_Equal(t *testing.T) {
	shared := setCount()
	a := NewMethodFunction("Counter", shared)
	b := NewMethodFunction("Counter", shared)
	c := NewMethodFunction("Counter", setCount())
	d := NewMethodFunction("Widget", shared)
	e := NewMethodFunction("Counter", describe())

	assert.True(t, a.Equal(a))
	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
	assert.True(t, a.Equal(c), "inner functions equal by their own rule")
	assert.False(t, a.Equal(d))
	assert.False(t, a.Equal(e))
	assert.False(t, a.Equal(shared))
	assert.False(t, a.Equal(NewConstructorFunction("Counter", shared)))

	for i := 0; i < 3; i++ {
		assert.True(t, a.Equal(b), "comparison is repeatable")
	}
}

func TestWrapperHash(t *testing.T) {
	shared := setCount()
	method := NewMethodFunction("Counter", shared)

	assert.Equal(t, method.Hash(), NewMethodFunction("Counter", shared).Hash(), "equal wrappers hash alike")
	assert.Equal(t, evaluator.HashString("Counter")^shared.Hash(), method.Hash())
	assert.NotEqual(t, method.Hash(), NewMethodFunction("Widget", shared).Hash())

	ctor := NewConstructorFunction("Counter", shared)
	assert.Equal(t, evaluator.HashString("new Counter")^shared.Hash(), ctor.Hash())
}

func TestConstructorFunction_CounterScenario(t *testing.T) {
	ctor := NewConstructorFunction("Counter", setCount())
	args := []evaluator.Object{&evaluator.Integer{Value: 5}}

	require.True(t, ctor.Accepts(args, nil))
	result, err := ctor.Call(args, nil)
	require.NoError(t, err)

	obj, ok := evaluator.AsDynamicObject(result)
	require.True(t, ok, "constructor returns the object, not the initializer result")
	assert.Equal(t, "Counter", obj.TypeName())
	assert.True(t, evaluator.ObjectsEqual(&evaluator.Integer{Value: 5}, obj.Attr("count")))
}

func TestConstructorFunction_FreshObjects(t *testing.T) {
	ctor := NewConstructorFunction("Counter", setCount())
	args := []evaluator.Object{&evaluator.Integer{Value: 1}}

	a, err := ctor.Call(args, nil)
	require.NoError(t, err)
	b, err := ctor.Call(args, nil)
	require.NoError(t, err)
	assert.NotSame(t, a, b)
}

func TestConstructorFunction_AcceptsUsesProbe(t *testing.T) {
	var produced []*evaluator.DynamicObject
	produce := func() *evaluator.DynamicObject {
		obj := evaluator.NewDynamicObject("Counter")
		produced = append(produced, obj)
		return obj
	}
	ctor := NewConstructorFunctionWithProducer("Counter", produce, setCount())

	assert.True(t, ctor.Accepts([]evaluator.Object{&evaluator.Integer{Value: 1}}, nil))
	assert.False(t, ctor.Accepts([]evaluator.Object{&evaluator.String{Value: "1"}}, nil))
	assert.False(t, ctor.Accepts(nil, nil))
	require.Len(t, produced, 3)
	for _, probe := range produced {
		assert.Empty(t, probe.Attrs(), "accepting never runs the initializer")
	}

	result, err := ctor.Call([]evaluator.Object{&evaluator.Integer{Value: 2}}, nil)
	require.NoError(t, err)
	require.Len(t, produced, 4)
	assert.Same(t, produced[3], result)
}

func TestConstructorFunction_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	inner := evaluator.NewNativeFunction("init", typesystem.TFunc{Params: []typesystem.Type{typesystem.Any}},
		func(args []evaluator.Object) (evaluator.Object, error) { return nil, boom })
	ctor := NewConstructorFunction("Counter", inner)

	result, err := ctor.Call(nil, nil)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, result)
}

func TestConstructorFunction_Arity(t *testing.T) {
	tests := []struct {
		name      string
		sig       typesystem.TFunc
		wantArity int
		wantSig   typesystem.TFunc
	}{
		{
			name:      "receiver only",
			sig:       typesystem.TFunc{Params: []typesystem.Type{typesystem.Any}},
			wantArity: 0,
			wantSig:   typesystem.TFunc{Params: []typesystem.Type{}, ReturnType: evaluator.DynamicObjectType},
		},
		{
			name:      "receiver and two",
			sig:       typesystem.TFunc{Params: []typesystem.Type{typesystem.Any, evaluator.IntType, evaluator.StringType}},
			wantArity: 2,
			wantSig: typesystem.TFunc{
				Params:     []typesystem.Type{evaluator.IntType, evaluator.StringType},
				ReturnType: evaluator.DynamicObjectType,
			},
		},
		{
			name:      "variadic tail",
			sig:       typesystem.TFunc{Params: []typesystem.Type{typesystem.Any, evaluator.IntType}, IsVariadic: true},
			wantArity: config.VariadicArity,
			wantSig: typesystem.TFunc{
				Params:     []typesystem.Type{evaluator.IntType},
				ReturnType: evaluator.DynamicObjectType,
				IsVariadic: true,
			},
		},
		{
			name:      "fully variadic",
			sig:       typesystem.TFunc{IsVariadic: true},
			wantArity: config.VariadicArity,
			wantSig:   typesystem.TFunc{Params: []typesystem.Type{}, ReturnType: evaluator.DynamicObjectType, IsVariadic: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := evaluator.NewNativeFunction("init", tt.sig, func(args []evaluator.Object) (evaluator.Object, error) { return nil, nil })
			ctor := NewConstructorFunction("T", inner)
			assert.Equal(t, tt.wantArity, ctor.Arity())
			assert.True(t, typesystem.Equal(tt.wantSig, ctor.Signature()), "got %s", ctor.Signature())

			m := NewMethodFunction("T", inner)
			assert.Equal(t, inner.Arity(), m.Arity(), "methods count the receiver")
		})
	}
}

func TestConstructorFunction_VariadicCall(t *testing.T) {
	inner := evaluator.NewNativeFunction("init", typesystem.TFunc{
		Params:     []typesystem.Type{typesystem.Any, evaluator.IntType},
		IsVariadic: true,
	}, func(args []evaluator.Object) (evaluator.Object, error) {
		self := args[0].(*evaluator.DynamicObject)
		self.SetAttr("n", &evaluator.Integer{Value: int64(len(args) - 1)})
		return nil, nil
	})
	ctor := NewConstructorFunction("Bag", inner)

	args := []evaluator.Object{&evaluator.Integer{Value: 1}, &evaluator.Integer{Value: 2}, &evaluator.Integer{Value: 3}}
	require.True(t, ctor.Accepts(args, nil))
	result, err := ctor.Call(args, nil)
	require.NoError(t, err)
	obj, _ := evaluator.AsDynamicObject(result)
	assert.True(t, evaluator.ObjectsEqual(&evaluator.Integer{Value: 3}, obj.Attr("n")))

	assert.True(t, ctor.CompareFirstType(&evaluator.Integer{Value: 1}, nil))
	assert.False(t, ctor.CompareFirstType(&evaluator.String{Value: "1"}, nil))
}

func TestConstructorFunction_Equal(t *testing.T) {
	shared := setCount()
	a := NewConstructorFunction("Counter", shared)

	assert.True(t, a.Equal(NewConstructorFunction("Counter", shared)))
	assert.True(t, a.Equal(NewConstructorFunction("Counter", setCount())))
	assert.False(t, a.Equal(NewConstructorFunction("Widget", shared)))
	assert.False(t, a.Equal(NewMethodFunction("Counter", shared)))
	assert.False(t, a.Equal(shared))

	require.Len(t, a.ContainedFunctions(), 1)
	assert.Same(t, shared, a.ContainedFunctions()[0])
}

func TestConstruction_Preconditions(t *testing.T) {
	noArgs := evaluator.NewNativeFunction("noop", typesystem.TFunc{}, func(args []evaluator.Object) (evaluator.Object, error) { return nil, nil })
	typedReceiver := setCount()

	tests := []struct {
		name  string
		build func()
	}{
		{"method zero arity", func() { NewMethodFunction("T", noArgs) }},
		{"typed method zero arity", func() { NewTypedMethodFunction("T", noArgs, evaluator.IntType) }},
		{"constructor zero arity", func() { NewConstructorFunction("T", noArgs) }},
		{"typed method concrete receiver", func() { NewTypedMethodFunction("T", typedReceiver, evaluator.IntType) }},
		{"typed method no receiver slot", func() {
			NewTypedMethodFunction("T", evaluator.NewNativeFunction("any", typesystem.TFunc{IsVariadic: true}, nil), evaluator.IntType)
		}},
		{"nil inner", func() { NewMethodFunction("T", nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				require.NotNil(t, r, "expected panic")
				_, ok := r.(*evaluator.ConstructionError)
				assert.True(t, ok, "panic value is %T", r)
			}()
			tt.build()
		})
	}

	assert.NotPanics(t, func() {
		NewMethodFunction("T", evaluator.NewNativeFunction("any", typesystem.TFunc{IsVariadic: true}, nil))
	})
}
